// Package validator runs an optional external structural check against a
// serialized document before it is written to disk. The check uses
// whatever tool the configuration names (kubectl by default); a missing
// tool downgrades validation to a note rather than blocking the save.
package validator

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Status classifies the outcome of an external validation run.
type Status int

const (
	// StatusOK means the external tool accepted the document.
	StatusOK Status = iota

	// StatusUnavailable means the tool is not installed; the save proceeds.
	StatusUnavailable

	// StatusFailed means the tool rejected the document.
	StatusFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnavailable:
		return "unavailable"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result carries the status and, for failures, the tool's message.
type Result struct {
	Status  Status
	Message string
}

// DefaultTimeout bounds the external process when the config supplies none.
const DefaultTimeout = 10 * time.Second

// Validator invokes the configured external tool.
type Validator struct {
	command string
	timeout time.Duration
}

// New creates a Validator for the given command. An empty command or
// non-positive timeout falls back to kubectl and DefaultTimeout.
func New(command string, timeout time.Duration) *Validator {
	if command == "" {
		command = "kubectl"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Validator{command: command, timeout: timeout}
}

// Validate writes content to a temp file and asks the external tool to
// parse it. The tool never sees the live document path, so a rejected
// candidate cannot clobber anything.
func (v *Validator) Validate(ctx context.Context, content []byte) (*Result, error) {
	if _, err := exec.LookPath(v.command); err != nil {
		return &Result{Status: StatusUnavailable}, nil
	}

	tmpDir, err := os.MkdirTemp("", "kce-validate-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp directory")
	}
	defer os.RemoveAll(tmpDir)

	candidate := filepath.Join(tmpDir, "config")
	if err := os.WriteFile(candidate, content, 0o600); err != nil {
		return nil, errors.Wrap(err, "writing validation candidate")
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, v.command, "config", "view", "--kubeconfig", candidate)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Result{Status: StatusFailed, Message: "validation timed out"}, nil
		}
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return &Result{Status: StatusFailed, Message: msg}, nil
	}
	return &Result{Status: StatusOK}, nil
}
