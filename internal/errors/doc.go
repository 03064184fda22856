// Package errors provides error handling conventions for the kce CLI.
//
// This package defines sentinel errors for the operation preconditions the
// core can violate (missing entities, name collisions, empty selections,
// malformed documents), an ExitError type for CLI exit code handling, and
// exit code constants following standard Unix conventions.
//
// Sentinel errors allow callers to check for specific conditions using
// [errors.Is]:
//
//	if errors.Is(err, kceerrors.ErrAlreadyExists) {
//	    // prompt for a different name
//	}
//
// The wrapping helpers (Wrap, Wrapf, Newf, ...) are thin re-exports of
// github.com/cockroachdb/errors so call sites need a single import.
package errors
