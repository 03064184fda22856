package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/kce/internal/codec"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

const localConfig = `apiVersion: v1
kind: Config
current-context: dev
clusters:
  - name: local
    cluster:
      server: https://127.0.0.1:6443
  - name: alias
    cluster:
      server: https://localhost:8443
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

func TestNormalize_HostReplacement(t *testing.T) {
	out, err := Normalize([]byte(localConfig), NormalizeOptions{Host: "10.0.0.5"})
	require.NoError(t, err)

	doc, err := codec.Decode(out)
	require.NoError(t, err)

	assert.Equal(t, "https://10.0.0.5:6443",
		doc.FindByName(kubeconfig.KindCluster, "local").FieldValue("server"))
	assert.Equal(t, "https://10.0.0.5:8443",
		doc.FindByName(kubeconfig.KindCluster, "alias").FieldValue("server"))
}

func TestNormalize_PrefixRewritesReferences(t *testing.T) {
	out, err := Normalize([]byte(localConfig), NormalizeOptions{Prefix: "team-"})
	require.NoError(t, err)

	doc, err := codec.Decode(out)
	require.NoError(t, err)

	ctx := doc.FindByName(kubeconfig.KindContext, "team-dev")
	require.NotNil(t, ctx)
	assert.Equal(t, "team-local", ctx.FieldValue(kubeconfig.FieldCluster))
	assert.Equal(t, "team-admin", ctx.FieldValue(kubeconfig.FieldUser))
	assert.Equal(t, "team-dev", doc.CurrentContext)
	assert.NotNil(t, doc.FindByName(kubeconfig.KindCluster, "team-local"))
	assert.NotNil(t, doc.FindByName(kubeconfig.KindUser, "team-admin"))
}

func TestNormalize_NoOptionsIsIdentityReserialization(t *testing.T) {
	out, err := Normalize([]byte(localConfig), NormalizeOptions{})
	require.NoError(t, err)

	doc, err := codec.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "dev", doc.CurrentContext)
	assert.Equal(t, "https://127.0.0.1:6443",
		doc.FindByName(kubeconfig.KindCluster, "local").FieldValue("server"))
}

func TestNormalize_DoesNotTouchInputDocuments(t *testing.T) {
	// Normalize parses its own isolated copy; the caller's text is immutable
	// anyway, but the returned text must not carry visibility annotations.
	out, err := Normalize([]byte(localConfig), NormalizeOptions{Prefix: "p-"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "kce:export")
}
