package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/kce/internal/kubeconfig"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		arg  string
		want kubeconfig.Kind
	}{
		{"context", kubeconfig.KindContext},
		{"ctx", kubeconfig.KindContext},
		{"Cluster", kubeconfig.KindCluster},
		{"USER", kubeconfig.KindUser},
	}
	for _, tt := range tests {
		got, err := parseKind(tt.arg)
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got)
	}

	_, err := parseKind("namespace")
	assert.Error(t, err)
}

func TestDocumentPath(t *testing.T) {
	orig := fileFlag
	defer func() { fileFlag = orig }()

	fileFlag = "/explicit/path.yaml"
	got, err := documentPath()
	require.NoError(t, err)
	assert.Equal(t, "/explicit/path.yaml", got)

	fileFlag = ""
	t.Setenv("KUBECONFIG", "/from/env.yaml:/second.yaml")
	got, err = documentPath()
	require.NoError(t, err)
	assert.Equal(t, "/from/env.yaml", got, "only the first KUBECONFIG entry is edited")

	t.Setenv("KUBECONFIG", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err = documentPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".kube", "config"), got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-ten", truncate("exactly-ten", 11))
	assert.Equal(t, "long-va...", truncate("long-value-here", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestShortVersionID(t *testing.T) {
	assert.Equal(t, "abcdef123456", shortVersionID("abcdef123456789000"))
	assert.Equal(t, "short", shortVersionID("short"))
}
