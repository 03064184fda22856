// Package history keeps an in-memory undo/redo stack of document
// snapshots for a single editing session. Snapshots are opaque byte
// serializations; history never interprets them.
package history

import (
	"bytes"
	"time"
)

// Snapshot is one recorded document state.
type Snapshot struct {
	Data    []byte
	Reason  string
	TakenAt time.Time
}

// Stack is a linear undo/redo history. Index 0 is the baseline recorded
// when the session started; undo never moves past it, so the loaded
// state is always recoverable. Not safe for concurrent use.
type Stack struct {
	snapshots []Snapshot
	cursor    int
}

// New creates a history seeded with the baseline state.
func New(baseline []byte, reason string) *Stack {
	return &Stack{
		snapshots: []Snapshot{snap(baseline, reason)},
	}
}

func snap(data []byte, reason string) Snapshot {
	return Snapshot{
		Data:    append([]byte(nil), data...),
		Reason:  reason,
		TakenAt: time.Now(),
	}
}

// Push records a new state after an edit and reports whether it did.
// Any redo states beyond the cursor are discarded. Pushing a state
// identical to the current one is a no-op, so repeated idempotent edits
// do not pollute the history.
func (s *Stack) Push(data []byte, reason string) bool {
	if bytes.Equal(data, s.snapshots[s.cursor].Data) {
		return false
	}
	s.snapshots = append(s.snapshots[:s.cursor+1], snap(data, reason))
	s.cursor = len(s.snapshots) - 1
	return true
}

// CanUndo reports whether a state before the current one exists.
func (s *Stack) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether an undone state can be reapplied.
func (s *Stack) CanRedo() bool {
	return s.cursor < len(s.snapshots)-1
}

// Undo steps back one state and returns it. Returns ok=false at the
// baseline.
func (s *Stack) Undo() (Snapshot, bool) {
	if !s.CanUndo() {
		return Snapshot{}, false
	}
	s.cursor--
	return s.snapshots[s.cursor], true
}

// Redo steps forward one state and returns it. Returns ok=false when
// nothing was undone.
func (s *Stack) Redo() (Snapshot, bool) {
	if !s.CanRedo() {
		return Snapshot{}, false
	}
	s.cursor++
	return s.snapshots[s.cursor], true
}

// Baseline returns the snapshot recorded when the session started.
func (s *Stack) Baseline() Snapshot {
	return s.snapshots[0]
}

// Current returns the snapshot at the cursor.
func (s *Stack) Current() Snapshot {
	return s.snapshots[s.cursor]
}

// Len returns the number of recorded snapshots, baseline included.
func (s *Stack) Len() int {
	return len(s.snapshots)
}
