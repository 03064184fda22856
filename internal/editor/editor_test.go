package editor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kceerrors "github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
	"github.com/thoreinstein/kce/internal/logging"
	"github.com/thoreinstein/kce/internal/store"
	"github.com/thoreinstein/kce/internal/validator"
)

const sessionConfig = `apiVersion: v1
kind: Config
current-context: dev
clusters:
  - name: local
    cluster:
      server: https://127.0.0.1:6443
contexts:
  - name: dev
    context:
      cluster: local
      user: admin
users:
  - name: admin
    user:
      token: t
`

type fixture struct {
	editor *Editor
	path   string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sessionConfig), 0o600))

	base := []Option{
		WithStore(store.New(
			store.WithRoot(filepath.Join(dir, "versions")),
			store.WithLegacyRoot(filepath.Join(dir, "legacy")),
		)),
		WithWorkspaceDir(filepath.Join(dir, "workspace")),
		WithLogger(logging.ForTest(t)),
	}
	e := New(append(base, opts...)...)
	return &fixture{editor: e, path: path}
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	require.NoError(t, f.editor.Load(f.path))
}

func TestEditor_LoadCanonical(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	doc := f.editor.Document()
	assert.NotNil(t, doc.FindByName(kubeconfig.KindContext, "dev"))
	assert.Equal(t, "dev", doc.CurrentContext)
	assert.False(t, f.editor.Dirty())
	assert.False(t, f.editor.CanUndo())
}

func TestEditor_LoadMissingFileStartsEmpty(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(t.TempDir(), "fresh.yaml")

	require.NoError(t, f.editor.Load(missing))
	assert.Empty(t, f.editor.Document().Contexts)
	assert.NotEmpty(t, f.editor.Path())
}

func TestEditor_LoadMalformedCanonicalFails(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.path, []byte("- just\n- a list\n"), 0o600))

	err := f.editor.Load(f.path)
	assert.ErrorIs(t, err, kceerrors.ErrMalformedDocument)
}

func TestEditor_SaveWritesCanonicalWithoutHiddenEntities(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	hidden := kubeconfig.NewEntity("staging")
	hidden.SetField(kubeconfig.FieldCluster, "local")
	hidden.SetField(kubeconfig.FieldUser, "admin")
	hidden.IncludeInExport = false
	f.editor.Document().Add(kubeconfig.KindContext, hidden)
	require.NoError(t, f.editor.RegisterEdit("add staging context"))
	assert.True(t, f.editor.Dirty())

	report, err := f.editor.Save(context.Background(), "add staging context")
	require.NoError(t, err)
	assert.False(t, f.editor.Dirty())
	assert.Equal(t, 1, report.DroppedContexts)
	assert.Empty(t, report.Warnings)
	require.NotNil(t, report.Version)

	written, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.NotContains(t, string(written), "staging")
	assert.NotContains(t, string(written), "kce:export")
}

func TestEditor_SidecarRestoresHiddenEntities(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	hidden := kubeconfig.NewEntity("staging")
	hidden.SetField(kubeconfig.FieldCluster, "local")
	hidden.SetField(kubeconfig.FieldUser, "admin")
	hidden.IncludeInExport = false
	f.editor.Document().Add(kubeconfig.KindContext, hidden)
	require.NoError(t, f.editor.RegisterEdit("add staging context"))
	_, err := f.editor.Save(context.Background(), "save")
	require.NoError(t, err)

	// A fresh load sees the hidden context again, still hidden.
	f.load(t)
	restored := f.editor.Document().FindByName(kubeconfig.KindContext, "staging")
	require.NotNil(t, restored)
	assert.False(t, restored.IncludeInExport)
}

func TestEditor_ReloadKeepsExternalCanonicalEdits(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	hidden := kubeconfig.NewEntity("staging")
	hidden.SetField(kubeconfig.FieldCluster, "local")
	hidden.SetField(kubeconfig.FieldUser, "admin")
	hidden.IncludeInExport = false
	f.editor.Document().Add(kubeconfig.KindContext, hidden)
	require.NoError(t, f.editor.RegisterEdit("add staging context"))
	_, err := f.editor.Save(context.Background(), "save")
	require.NoError(t, err)

	// Another tool rewrites the canonical file between sessions.
	edited := strings.Replace(sessionConfig,
		"https://127.0.0.1:6443", "https://10.0.0.9:6443", 1)
	require.NoError(t, os.WriteFile(f.path, []byte(edited), 0o600))

	f.load(t)
	cluster := f.editor.Document().FindByName(kubeconfig.KindCluster, "local")
	require.NotNil(t, cluster)
	assert.Equal(t, "https://10.0.0.9:6443", cluster.FieldValue(kubeconfig.FieldServer),
		"the canonical file wins over the workspace sidecar")

	restored := f.editor.Document().FindByName(kubeconfig.KindContext, "staging")
	require.NotNil(t, restored, "hidden entities still come back after an external edit")
	assert.False(t, restored.IncludeInExport)
}

func TestEditor_ReloadDropsExternallyDeletedEntities(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	require.NoError(t, f.editor.Document().Rename(kubeconfig.KindUser, "admin", "root"))
	require.NoError(t, f.editor.RegisterEdit("rename user"))
	_, err := f.editor.Save(context.Background(), "save")
	require.NoError(t, err)

	// An external edit removes the user entirely.
	edited := strings.Replace(sessionConfig,
		"users:\n  - name: admin\n    user:\n      token: t\n", "users: []\n", 1)
	require.NoError(t, os.WriteFile(f.path, []byte(edited), 0o600))

	f.load(t)
	assert.Empty(t, f.editor.Document().Users,
		"a visible entity deleted outside the session stays deleted")
}

func TestEditor_RegisterEditNoChangeStaysClean(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	require.NoError(t, f.editor.RegisterEdit("no-op"))
	assert.False(t, f.editor.Dirty())
	assert.False(t, f.editor.CanUndo())

	require.NoError(t, f.editor.Document().Rename(kubeconfig.KindContext, "dev", "renamed"))
	require.NoError(t, f.editor.RegisterEdit("rename"))
	assert.True(t, f.editor.Dirty())
}

func TestEditor_BrokenSidecarFallsBackToVersion(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	hidden := kubeconfig.NewEntity("staging")
	hidden.SetField(kubeconfig.FieldCluster, "local")
	hidden.SetField(kubeconfig.FieldUser, "admin")
	hidden.IncludeInExport = false
	f.editor.Document().Add(kubeconfig.KindContext, hidden)
	require.NoError(t, f.editor.RegisterEdit("edit"))
	_, err := f.editor.Save(context.Background(), "save")
	require.NoError(t, err)

	sidecar := f.editor.sidecarPath(f.editor.lineage)
	require.NoError(t, os.WriteFile(sidecar, []byte("- broken\n"), 0o600))

	f.load(t)
	assert.NotNil(t, f.editor.Document().FindByName(kubeconfig.KindContext, "staging"),
		"newest stored version should recover the hidden context")
}

func TestEditor_UndoRedo(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	require.NoError(t, f.editor.Document().Rename(kubeconfig.KindContext, "dev", "renamed"))
	require.NoError(t, f.editor.RegisterEdit("rename context"))
	require.True(t, f.editor.CanUndo())

	reason, err := f.editor.Undo()
	require.NoError(t, err)
	assert.Equal(t, "rename context", reason)
	assert.NotNil(t, f.editor.Document().FindByName(kubeconfig.KindContext, "dev"))
	assert.True(t, f.editor.Dirty())

	reason, err = f.editor.Redo()
	require.NoError(t, err)
	assert.Equal(t, "rename context", reason)
	assert.NotNil(t, f.editor.Document().FindByName(kubeconfig.KindContext, "renamed"))

	_, err = f.editor.Redo()
	assert.Error(t, err)
}

func TestEditor_FirstSaveBackfillsBaseline(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	require.NoError(t, f.editor.Document().Rename(kubeconfig.KindContext, "dev", "renamed"))
	require.NoError(t, f.editor.RegisterEdit("rename"))
	_, err := f.editor.Save(context.Background(), "rename dev")
	require.NoError(t, err)

	versions, err := f.editor.ListVersions()
	require.NoError(t, err)
	require.Len(t, versions, 2, "first save records the pre-edit baseline too")
	assert.Equal(t, "rename dev", versions[0].Summary)
}

func TestEditor_Rollback(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	require.NoError(t, f.editor.Document().Rename(kubeconfig.KindContext, "dev", "renamed"))
	require.NoError(t, f.editor.RegisterEdit("rename"))
	_, err := f.editor.Save(context.Background(), "rename dev")
	require.NoError(t, err)

	versions, err := f.editor.ListVersions()
	require.NoError(t, err)
	baseline := versions[len(versions)-1]

	require.NoError(t, f.editor.Rollback(baseline.ID))
	assert.NotNil(t, f.editor.Document().FindByName(kubeconfig.KindContext, "dev"))
	assert.True(t, f.editor.Dirty(), "rollback leaves the document unsaved")
	assert.False(t, f.editor.CanUndo(), "rollback resets the undo baseline")

	err = f.editor.Rollback("0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, store.ErrVersionNotFound)
}

func TestEditor_SaveAbortsOnFailedValidation(t *testing.T) {
	f := newFixture(t, WithValidator(validator.New("false", time.Second)))
	f.load(t)

	require.NoError(t, f.editor.Document().Rename(kubeconfig.KindContext, "dev", "renamed"))
	require.NoError(t, f.editor.RegisterEdit("rename"))

	_, err := f.editor.Save(context.Background(), "rename")
	require.ErrorIs(t, err, kceerrors.ErrValidationFailed)
	assert.True(t, f.editor.Dirty())

	written, readErr := os.ReadFile(f.path)
	require.NoError(t, readErr)
	assert.Equal(t, sessionConfig, string(written), "rejected save must not touch the file")
}

func TestEditor_SaveProceedsWhenValidatorUnavailable(t *testing.T) {
	f := newFixture(t, WithValidator(validator.New("kce-no-such-tool", time.Second)))
	f.load(t)

	require.NoError(t, f.editor.RegisterEdit("noop"))
	report, err := f.editor.Save(context.Background(), "save")
	require.NoError(t, err)
	require.NotNil(t, report.Validation)
	assert.Equal(t, validator.StatusUnavailable, report.Validation.Status)
}

func TestEditor_SaveWithoutLoadFails(t *testing.T) {
	e := New()
	_, err := e.Save(context.Background(), "save")
	assert.Error(t, err)
}
