// Package logging provides slog-based logging for the kce CLI.
//
// It includes a TTY-aware text handler with colorized output, a multi-handler
// for simultaneous stderr and file logging, and masking for attribute values
// that look like kubeconfig credential material (tokens, key data).
package logging
