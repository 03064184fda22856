// Package kubeconfig defines the in-memory model of a kubeconfig document:
// contexts, clusters, and users bound together by name references.
//
// References are resolved by name-keyed lookup at query time rather than
// stored back-pointers, so deletes and renames never invalidate pointers at
// the cost of O(n) scans, which is acceptable at the expected scale of tens
// to low hundreds of entities.
//
// Referential consistency is a soft invariant: dangling references survive
// every operation here and are surfaced as warnings by the diagnostics
// package, never rejected, because documents are routinely inconsistent in
// the middle of an editing session.
package kubeconfig
