// Package state persists small cross-session editor state: the list of
// recently opened documents. It is advisory data; a missing or broken
// state file is treated as empty rather than as an error.
package state

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/kce/internal/paths"
	"github.com/thoreinstein/kce/pkg/fileutil"
)

// MaxRecent caps the recent-documents list.
const MaxRecent = 10

// Recent is one remembered document.
type Recent struct {
	Path     string    `toml:"path"`
	OpenedAt time.Time `toml:"opened_at"`
}

// State is the persisted editor state.
type State struct {
	Recent []Recent `toml:"recent"`
}

// Load reads state from path, or from the standard location when path is
// empty. Unreadable or unparseable files yield an empty state.
func Load(path string) *State {
	if path == "" {
		path = paths.StatePath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &State{}
	}
	var s State
	if err := toml.Unmarshal(data, &s); err != nil {
		return &State{}
	}
	return &s
}

// Save writes state to path, or to the standard location when path is
// empty.
func (s *State) Save(path string) error {
	if path == "" {
		path = paths.StatePath()
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating state directory")
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding state")
	}
	return fileutil.AtomicWriteFile(path, data, 0o600)
}

// Touch moves docPath to the front of the recent list, inserting it if
// new and trimming the list to MaxRecent.
func (s *State) Touch(docPath string) {
	s.Recent = slices.DeleteFunc(s.Recent, func(r Recent) bool {
		return r.Path == docPath
	})
	s.Recent = append([]Recent{{Path: docPath, OpenedAt: time.Now().UTC()}}, s.Recent...)
	if len(s.Recent) > MaxRecent {
		s.Recent = s.Recent[:MaxRecent]
	}
}

// Paths returns the recent document paths, most recent first.
func (s *State) Paths() []string {
	out := make([]string, len(s.Recent))
	for i, r := range s.Recent {
		out[i] = r.Path
	}
	return out
}
