// Package store is the durable, content-addressed version store. Every
// save appends an immutable version under a lineage directory derived
// from the document's canonical path, so history survives process
// restarts and renames of the working copy back to the same path.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/kce/internal/paths"
	"github.com/thoreinstein/kce/pkg/fileutil"
)

// DefaultListLimit caps List when the caller passes max <= 0.
const DefaultListLimit = 50

// lineageLen is the number of hex characters kept from the path hash.
const lineageLen = 16

// Sentinel errors for version-store operations.
var (
	// ErrNoVersions indicates no versions exist for the lineage.
	ErrNoVersions = errors.New("no versions found")

	// ErrVersionNotFound indicates the requested version id does not exist.
	ErrVersionNotFound = errors.New("version not found")

	// ErrVersionCorrupted indicates stored content no longer matches its id.
	ErrVersionCorrupted = errors.New("version corrupted")
)

// Version is the metadata of one stored document state. The content
// itself lives next to the meta file, named by the content hash.
type Version struct {
	// ID is the hex-encoded SHA256 of the stored content.
	ID string `json:"id"`

	// SavedAt is when the version was recorded.
	SavedAt time.Time `json:"saved_at"`

	// Summary is the caller-supplied description of the save.
	Summary string `json:"summary"`
}

// PathIdentity derives the lineage key for a document path. The path is
// canonicalized first so symlinked and relative spellings of the same
// file share one lineage.
func PathIdentity(path string) (string, error) {
	canonical, err := paths.Canonicalize(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:lineageLen], nil
}

// Store reads and writes versions under a canonical root, falling back
// to the legacy root older releases wrote to.
type Store struct {
	rootDir   string
	legacyDir string
}

// Option configures a Store.
type Option func(*Store)

// WithRoot sets the canonical version root.
func WithRoot(dir string) Option {
	return func(s *Store) {
		s.rootDir = dir
	}
}

// WithLegacyRoot sets the legacy version root consulted on reads.
func WithLegacyRoot(dir string) Option {
	return func(s *Store) {
		s.legacyDir = dir
	}
}

// New creates a Store rooted at the standard XDG locations.
func New(opts ...Option) *Store {
	s := &Store{
		rootDir:   paths.VersionsDir(),
		legacyDir: paths.LegacyVersionsDir(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put records content as a new version of the lineage. Content is
// addressed by its SHA256, so re-saving identical bytes returns the
// existing version instead of writing a duplicate.
func (s *Store) Put(lineage string, content []byte, summary string) (*Version, error) {
	if lineage == "" {
		return nil, errors.New("lineage is required")
	}

	sum := sha256.Sum256(content)
	id := hex.EncodeToString(sum[:])

	dir := filepath.Join(s.rootDir, lineage)
	if existing, err := readMeta(dir, id); err == nil {
		return existing, nil
	}

	if err := paths.EnsureDir(dir, 0); err != nil {
		return nil, errors.Wrap(err, "creating lineage directory")
	}

	v := &Version{
		ID:      id,
		SavedAt: time.Now().UTC(),
		Summary: summary,
	}
	if err := fileutil.AtomicWriteFile(contentPath(dir, id), content, 0o600); err != nil {
		return nil, errors.Wrap(err, "writing version content")
	}
	if err := fileutil.AtomicWriteJSONWithPerm(metaPath(dir, id), v, 0o600); err != nil {
		return nil, errors.Wrap(err, "writing version meta")
	}
	return v, nil
}

// List returns the versions of a lineage across the canonical and legacy
// roots, newest first, deduplicated by content id. max <= 0 applies
// DefaultListLimit.
func (s *Store) List(lineage string, max int) ([]Version, error) {
	if lineage == "" {
		return nil, errors.New("lineage is required")
	}
	if max <= 0 {
		max = DefaultListLimit
	}

	seen := make(map[string]bool)
	var versions []Version
	for _, root := range []string{s.rootDir, s.legacyDir} {
		for _, v := range readLineage(filepath.Join(root, lineage)) {
			if seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return nil, ErrNoVersions
	}

	slices.SortFunc(versions, func(a, b Version) int {
		return b.SavedAt.Compare(a.SavedAt)
	})
	if len(versions) > max {
		versions = versions[:max]
	}
	return versions, nil
}

// Get returns the content and metadata of one version, checking the
// canonical root first and the legacy root second. Content is verified
// against its id before being returned.
func (s *Store) Get(lineage, id string) ([]byte, *Version, error) {
	if lineage == "" || id == "" {
		return nil, nil, errors.New("lineage and version id are required")
	}

	for _, root := range []string{s.rootDir, s.legacyDir} {
		dir := filepath.Join(root, lineage)
		meta, err := readMeta(dir, id)
		if err != nil {
			continue
		}
		content, err := os.ReadFile(contentPath(dir, id))
		if err != nil {
			continue
		}
		sum := sha256.Sum256(content)
		if hex.EncodeToString(sum[:]) != id {
			return nil, nil, errors.Wrapf(ErrVersionCorrupted, "version %s", shortID(id))
		}
		return content, meta, nil
	}
	return nil, nil, errors.Wrapf(ErrVersionNotFound, "version %s", shortID(id))
}

// Migrate copies a lineage's legacy versions into the canonical root.
// Versions already present are skipped, so repeated calls are harmless.
func (s *Store) Migrate(lineage string) error {
	if lineage == "" {
		return errors.New("lineage is required")
	}

	legacy := filepath.Join(s.legacyDir, lineage)
	dst := filepath.Join(s.rootDir, lineage)
	for _, v := range readLineage(legacy) {
		if _, err := readMeta(dst, v.ID); err == nil {
			continue
		}
		content, err := os.ReadFile(contentPath(legacy, v.ID))
		if err != nil {
			return errors.Wrapf(err, "reading legacy version %s", shortID(v.ID))
		}
		if err := paths.EnsureDir(dst, 0); err != nil {
			return errors.Wrap(err, "creating lineage directory")
		}
		if err := fileutil.AtomicWriteFile(contentPath(dst, v.ID), content, 0o600); err != nil {
			return errors.Wrapf(err, "migrating version %s", shortID(v.ID))
		}
		if err := fileutil.AtomicWriteJSONWithPerm(metaPath(dst, v.ID), v, 0o600); err != nil {
			return errors.Wrapf(err, "migrating version meta %s", shortID(v.ID))
		}
	}
	return nil
}

func readLineage(dir string) []Version {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var versions []Version
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		v, err := readMeta(dir, name[:len(name)-len(".json")])
		if err != nil {
			// Skip unreadable meta files rather than failing the listing.
			continue
		}
		versions = append(versions, *v)
	}
	return versions
}

func readMeta(dir, id string) (*Version, error) {
	data, err := os.ReadFile(metaPath(dir, id))
	if err != nil {
		return nil, err
	}
	var v Version
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "parsing version meta")
	}
	v.ID = id
	return &v, nil
}

func contentPath(dir, id string) string {
	return filepath.Join(dir, id+".yaml")
}

func metaPath(dir, id string) string {
	return filepath.Join(dir, id+".json")
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
