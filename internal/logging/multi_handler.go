package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanout duplicates records across several handlers. It backs logging to
// stderr and a log file at the same time.
type fanout struct {
	targets []slog.Handler
}

// NewMultiHandler returns a handler that forwards every record to all of
// the given handlers.
func NewMultiHandler(handlers ...slog.Handler) slog.Handler {
	return fanout{targets: handlers}
}

// Enabled reports true when any target would accept the level, so a
// verbose log file keeps records a quiet stderr would drop.
func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, t := range f.targets {
		if t.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards the record to every enabled target. All targets get a
// chance to write even when an earlier one fails.
func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, t := range f.targets {
		if !t.Enabled(ctx, r.Level) {
			continue
		}
		if err := t.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.targets))
	for i, t := range f.targets {
		next[i] = t.WithAttrs(attrs)
	}
	return fanout{targets: next}
}

func (f fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	next := make([]slog.Handler, len(f.targets))
	for i, t := range f.targets {
		next[i] = t.WithGroup(name)
	}
	return fanout{targets: next}
}
