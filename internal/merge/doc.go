// Package merge imports foreign kubeconfig documents into a live document.
//
// Two styles are supported: append-import, which renames colliding entities
// so both documents' internal references stay intact, and a selective
// field-level merge of one foreign context (plus its cluster and user) into
// an existing context, driven by a previewed change set.
//
// Normalize is the outbound counterpart: it rewrites a document for sharing
// by replacing loopback hosts and prefixing entity names, without touching
// the live document.
package merge
