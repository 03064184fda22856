// Package paths centralizes file system path resolution for kce.
//
// All durable state (version store, workspace sidecars, recent-documents
// state) lives under the XDG data home; application configuration lives
// under the XDG config home. Older releases stored version history under
// the config home, so that location is still exposed for read-side
// backward compatibility.
package paths
