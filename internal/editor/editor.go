// Package editor coordinates a single editing session: the in-memory
// document, the undo/redo history, the durable version store, the
// workspace sidecar that preserves hidden entities across sessions, and
// the optional external validator consulted at save time.
package editor

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/kce/internal/codec"
	kceerrors "github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/export"
	"github.com/thoreinstein/kce/internal/history"
	"github.com/thoreinstein/kce/internal/kubeconfig"
	"github.com/thoreinstein/kce/internal/logging"
	"github.com/thoreinstein/kce/internal/paths"
	"github.com/thoreinstein/kce/internal/store"
	"github.com/thoreinstein/kce/internal/validator"
	"github.com/thoreinstein/kce/pkg/fileutil"
)

// Editor owns the mutable session state. All mutations funnel through
// RegisterEdit so the history stack always reflects the document. Not
// safe for concurrent use.
type Editor struct {
	doc     *kubeconfig.Document
	path    string
	lineage string
	dirty   bool

	hist      *history.Stack
	versions  *store.Store
	validate  *validator.Validator
	workspace string
	listLimit int
	log       *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithStore sets the durable version store.
func WithStore(s *store.Store) Option {
	return func(e *Editor) {
		e.versions = s
	}
}

// WithValidator sets the external validator. nil disables external
// validation.
func WithValidator(v *validator.Validator) Option {
	return func(e *Editor) {
		e.validate = v
	}
}

// WithWorkspaceDir sets the directory holding annotated sidecars.
func WithWorkspaceDir(dir string) Option {
	return func(e *Editor) {
		e.workspace = dir
	}
}

// WithListLimit caps ListVersions output.
func WithListLimit(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.listLimit = n
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Editor) {
		e.log = log
	}
}

// New creates an Editor with an empty document. Load attaches it to a
// file.
func New(opts ...Option) *Editor {
	e := &Editor{
		doc:       kubeconfig.NewDocument(),
		versions:  store.New(),
		workspace: paths.WorkspaceDir(),
		listLimit: store.DefaultListLimit,
		log:       logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.hist = history.New(e.mustSnapshot(), "session start")
	return e
}

// Document returns the live document. Callers that mutate it must
// follow up with RegisterEdit.
func (e *Editor) Document() *kubeconfig.Document {
	return e.doc
}

// Path returns the canonical path of the loaded file, empty when no file
// is attached.
func (e *Editor) Path() string {
	return e.path
}

// Dirty reports whether the document has unsaved changes.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// Load attaches the editor to path. The canonical file always supplies
// the live content, so edits made by other tools are never discarded.
// The workspace sidecar (or, when the sidecar is missing or unreadable,
// the newest stored version) contributes only what the canonical file
// cannot carry: per-entity visibility flags and the hidden entities the
// save projection kept out of it. A nonexistent file starts an empty
// document.
func (e *Editor) Load(path string) error {
	canonical, err := paths.Canonicalize(path)
	if err != nil {
		return err
	}
	lineage, err := store.PathIdentity(canonical)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(canonical)
	switch {
	case os.IsNotExist(err):
		e.attach(canonical, lineage, kubeconfig.NewDocument())
		return nil
	case err != nil:
		return kceerrors.Wrapf(err, "reading %s", path)
	}

	doc, err := codec.Decode(data)
	if err != nil {
		return err
	}

	if err := e.versions.Migrate(lineage); err != nil {
		e.log.Warn("legacy version migration failed", "error", err)
	}

	if saved, ok := e.savedWorkspace(lineage); ok {
		overlayWorkspace(doc, saved)
	}

	e.attach(canonical, lineage, doc)
	return nil
}

func (e *Editor) attach(path, lineage string, doc *kubeconfig.Document) {
	e.path = path
	e.lineage = lineage
	e.doc = doc
	e.dirty = false
	e.hist = history.New(e.mustSnapshot(), "loaded "+filepath.Base(path))
}

// savedWorkspace recovers the last annotated state written for lineage,
// preferring the sidecar over the newest stored version. A version
// recovery also rebuilds the lost sidecar so the next load takes the
// fast path.
func (e *Editor) savedWorkspace(lineage string) (*kubeconfig.Document, bool) {
	data, err := os.ReadFile(e.sidecarPath(lineage))
	if err == nil {
		doc, err := codec.Decode(data)
		if err == nil {
			e.log.Debug("restored workspace state from sidecar", "lineage", lineage)
			return doc, true
		}
		e.log.Warn("workspace sidecar unreadable, falling back", "error", err)
	}

	versions, err := e.versions.List(lineage, 1)
	if err != nil {
		return nil, false
	}
	content, _, err := e.versions.Get(lineage, versions[0].ID)
	if err != nil {
		return nil, false
	}
	doc, err := codec.Decode(content)
	if err != nil {
		return nil, false
	}
	e.log.Debug("restored workspace state from newest stored version", "lineage", lineage)
	if err := e.writeSidecar(lineage, content); err != nil {
		e.log.Warn("rebuilding workspace sidecar failed", "error", err)
	}
	return doc, true
}

// overlayWorkspace folds saved workspace state into a freshly decoded
// canonical document. Visibility flags carry over by name, and hidden
// entities absent from the canonical file reappear. An entity the
// workspace considered visible but the canonical file no longer holds
// was deleted externally and stays gone; current-context likewise
// belongs to the canonical file.
func overlayWorkspace(doc, saved *kubeconfig.Document) {
	for _, kind := range []kubeconfig.Kind{kubeconfig.KindContext, kubeconfig.KindCluster, kubeconfig.KindUser} {
		for _, s := range saved.Collection(kind) {
			if live := doc.FindByName(kind, s.Name); live != nil {
				live.IncludeInExport = s.IncludeInExport
				continue
			}
			if !s.IncludeInExport {
				doc.Add(kind, s.Clone())
			}
		}
	}
}

// RegisterEdit records the current document state in the undo history.
// Call it after every completed mutation. An edit that left the document
// unchanged records nothing and does not mark the session dirty.
func (e *Editor) RegisterEdit(reason string) error {
	snap, err := codec.Encode(e.doc, codec.EncodeOptions{Annotations: true})
	if err != nil {
		return kceerrors.Wrap(err, "snapshotting document")
	}
	if e.hist.Push(snap, reason) {
		e.dirty = true
	}
	return nil
}

// CanUndo reports whether an undo step exists.
func (e *Editor) CanUndo() bool {
	return e.hist.CanUndo()
}

// CanRedo reports whether a redo step exists.
func (e *Editor) CanRedo() bool {
	return e.hist.CanRedo()
}

// Undo reverts the document to the previous recorded state and returns
// the reason of the undone edit.
func (e *Editor) Undo() (string, error) {
	undone := e.hist.Current().Reason
	snap, ok := e.hist.Undo()
	if !ok {
		return "", kceerrors.New("nothing to undo")
	}
	if err := e.restore(snap.Data); err != nil {
		return "", err
	}
	return undone, nil
}

// Redo reapplies the most recently undone state and returns its reason.
func (e *Editor) Redo() (string, error) {
	snap, ok := e.hist.Redo()
	if !ok {
		return "", kceerrors.New("nothing to redo")
	}
	if err := e.restore(snap.Data); err != nil {
		return "", err
	}
	return snap.Reason, nil
}

func (e *Editor) restore(data []byte) error {
	doc, err := codec.Decode(data)
	if err != nil {
		return kceerrors.Wrap(err, "restoring snapshot")
	}
	e.doc = doc
	e.dirty = true
	return nil
}

// SaveReport describes what a save did beyond writing the file.
type SaveReport struct {
	// Dropped counts entities excluded from the canonical file.
	DroppedContexts int
	DroppedClusters int
	DroppedUsers    int

	// Validation is nil when external validation is disabled.
	Validation *validator.Result

	// Version is the durable version recorded for this save.
	Version *store.Version

	// Warnings lists non-fatal problems (sidecar or version write
	// failures). The canonical file is intact when they appear.
	Warnings []string
}

// Save projects the document, validates the result, and writes it
// atomically to the canonical path. The full annotated state goes to the
// workspace sidecar and the durable version store; failures there
// degrade to warnings because the canonical write already succeeded.
func (e *Editor) Save(ctx context.Context, summary string) (*SaveReport, error) {
	if e.path == "" {
		return nil, kceerrors.New("no document loaded")
	}

	projection := export.Project(e.doc)
	canonical, err := codec.Encode(projection.Doc, codec.EncodeOptions{})
	if err != nil {
		return nil, kceerrors.Wrap(err, "encoding document")
	}

	report := &SaveReport{
		DroppedContexts: projection.DroppedContexts,
		DroppedClusters: projection.DroppedClusters,
		DroppedUsers:    projection.DroppedUsers,
	}

	if e.validate != nil {
		res, err := e.validate.Validate(ctx, canonical)
		if err != nil {
			return nil, err
		}
		report.Validation = res
		switch res.Status {
		case validator.StatusFailed:
			return nil, kceerrors.Wrap(kceerrors.ErrValidationFailed, res.Message)
		case validator.StatusUnavailable:
			e.log.Debug("external validator unavailable, proceeding")
		}
	}

	if err := fileutil.AtomicWriteFile(e.path, canonical, 0o600); err != nil {
		return nil, kceerrors.Wrapf(err, "writing %s", e.path)
	}

	annotated, err := codec.Encode(e.doc, codec.EncodeOptions{Annotations: true})
	if err != nil {
		return nil, kceerrors.Wrap(err, "encoding workspace state")
	}

	if err := e.writeSidecar(e.lineage, annotated); err != nil {
		e.log.Warn("workspace sidecar write failed", "error", err)
		report.Warnings = append(report.Warnings, "workspace state not saved: "+err.Error())
	}

	if err := e.appendVersion(annotated, summary, report); err != nil {
		e.log.Warn("version append failed", "error", err)
		report.Warnings = append(report.Warnings, "version not recorded: "+err.Error())
	}

	e.dirty = false
	return report, nil
}

func (e *Editor) writeSidecar(lineage string, annotated []byte) error {
	if err := paths.EnsureDir(e.workspace, 0); err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(e.sidecarPath(lineage), annotated, 0o600)
}

// appendVersion records the save. The first save of a lineage also
// backfills the session baseline so a rollback target exists for the
// state the file had before any edits.
func (e *Editor) appendVersion(annotated []byte, summary string, report *SaveReport) error {
	if _, err := e.versions.List(e.lineage, 1); kceerrors.Is(err, store.ErrNoVersions) {
		baseline := e.hist.Baseline()
		if _, err := e.versions.Put(e.lineage, baseline.Data, baseline.Reason); err != nil {
			return err
		}
	}
	v, err := e.versions.Put(e.lineage, annotated, summary)
	if err != nil {
		return err
	}
	report.Version = v
	return nil
}

// ListVersions returns the stored versions of the loaded document,
// newest first.
func (e *Editor) ListVersions() ([]store.Version, error) {
	if e.lineage == "" {
		return nil, kceerrors.New("no document loaded")
	}
	return e.versions.List(e.lineage, e.listLimit)
}

// Rollback replaces the document with a stored version's content. The
// undo baseline resets to the restored state and the document is marked
// unsaved; nothing touches disk until the next Save.
func (e *Editor) Rollback(id string) error {
	if e.lineage == "" {
		return kceerrors.New("no document loaded")
	}
	content, meta, err := e.versions.Get(e.lineage, id)
	if err != nil {
		return err
	}
	doc, err := codec.Decode(content)
	if err != nil {
		return kceerrors.Wrap(err, "decoding stored version")
	}
	e.doc = doc
	e.dirty = true
	e.hist = history.New(content, "rollback to "+shortID(meta.ID))
	return nil
}

func (e *Editor) sidecarPath(lineage string) string {
	return filepath.Join(e.workspace, lineage+".yaml")
}

func (e *Editor) mustSnapshot() []byte {
	snap, err := codec.Encode(e.doc, codec.EncodeOptions{Annotations: true})
	if err != nil {
		// Encoding an in-memory document only fails on a programming
		// error; an empty baseline keeps the session usable.
		e.log.Error("snapshot encoding failed", "error", err)
		return nil
	}
	return snap
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
