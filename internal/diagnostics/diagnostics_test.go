package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/kce/internal/kubeconfig"
)

func healthyDoc() *kubeconfig.Document {
	d := kubeconfig.NewDocument()

	ctx := kubeconfig.NewEntity("dev")
	ctx.SetField(kubeconfig.FieldCluster, "local")
	ctx.SetField(kubeconfig.FieldUser, "admin")
	d.Add(kubeconfig.KindContext, ctx)

	cluster := kubeconfig.NewEntity("local")
	cluster.SetField(kubeconfig.FieldServer, "https://127.0.0.1:6443")
	d.Add(kubeconfig.KindCluster, cluster)

	user := kubeconfig.NewEntity("admin")
	user.SetField("token", "t")
	d.Add(kubeconfig.KindUser, user)

	d.CurrentContext = "dev"
	return d
}

func TestForDocument_HealthyIsQuiet(t *testing.T) {
	assert.Empty(t, ForDocument(healthyDoc()))
}

func TestForDocument_DanglingAndEmptyReferences(t *testing.T) {
	d := healthyDoc()
	ctx := d.FindByName(kubeconfig.KindContext, "dev")
	ctx.SetField(kubeconfig.FieldCluster, "ghost")
	ctx.SetField(kubeconfig.FieldUser, "")

	msgs := ForEntity(d, kubeconfig.KindContext, "dev")
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], `missing cluster "ghost"`)
	assert.Contains(t, msgs[1], "no user reference set")
}

func TestForDocument_UnreferencedEntitiesAreInfo(t *testing.T) {
	d := healthyDoc()
	spare := kubeconfig.NewEntity("spare")
	spare.SetField(kubeconfig.FieldServer, "https://spare")
	d.Add(kubeconfig.KindCluster, spare)

	var found *Warning
	for _, w := range ForDocument(d) {
		if w.Kind == kubeconfig.KindCluster && w.Name == "spare" {
			found = &w
			break
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, SeverityInfo, found.Severity)
	assert.Equal(t, "not referenced by any context", found.Message)
}

func TestForDocument_MissingServerAndCredentials(t *testing.T) {
	d := healthyDoc()
	d.FindByName(kubeconfig.KindCluster, "local").SetField(kubeconfig.FieldServer, "")
	d.FindByName(kubeconfig.KindUser, "admin").SetField("token", "")

	warnings := ForDocument(d)

	assert.Contains(t, ForEntity(d, kubeconfig.KindCluster, "local"), "no server address set")
	assert.Contains(t, ForEntity(d, kubeconfig.KindUser, "admin"), "no credentials configured")
	for _, w := range warnings {
		assert.Equal(t, SeverityWarning, w.Severity)
	}
}

func TestForDocument_ExecCountsAsCredential(t *testing.T) {
	d := healthyDoc()
	user := d.FindByName(kubeconfig.KindUser, "admin")
	user.SetField("token", "")
	user.SetField("exec", `{"command":"aws"}`)

	assert.Empty(t, ForEntity(d, kubeconfig.KindUser, "admin"))
}

func TestForDocument_UnresolvableCurrentContext(t *testing.T) {
	d := healthyDoc()
	d.CurrentContext = "gone"

	warnings := ForDocument(d)
	require.NotEmpty(t, warnings)
	first := warnings[0]
	assert.Equal(t, SeverityWarning, first.Severity)
	assert.Empty(t, string(first.Kind), "current-context finding is document scoped")
	assert.Contains(t, first.Message, `"gone"`)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
}
