package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kceerrors "github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

const sampleConfig = `apiVersion: v1
kind: Config
current-context: ctx-1
preferences: {}
clusters:
  - name: cluster-a
    cluster:
      server: https://a:6443
      certificate-authority-data: Y2EtZGF0YQ==
  - name: cluster-b
    cluster:
      server: https://b:6443
      insecure-skip-tls-verify: true
contexts:
  - name: ctx-1
    context:
      cluster: cluster-a
      user: user-a
      namespace: default
  - name: ctx-2
    context:
      cluster: cluster-b
      user: user-b
users:
  - name: user-a
    user:
      token: tok-a
  - name: user-b
    user:
      exec:
        apiVersion: client.authentication.k8s.io/v1
        command: kubelogin
        provideClusterInfo: true
`

func TestDecode_Sample(t *testing.T) {
	doc, err := Decode([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "v1", doc.APIVersion)
	assert.Equal(t, "Config", doc.ConfigKind)
	assert.Equal(t, "ctx-1", doc.CurrentContext)
	assert.Len(t, doc.Contexts, 2)
	assert.Len(t, doc.Clusters, 2)
	assert.Len(t, doc.Users, 2)

	ctx1 := doc.FindByName(kubeconfig.KindContext, "ctx-1")
	require.NotNil(t, ctx1)
	assert.Equal(t, "cluster-a", ctx1.FieldValue(kubeconfig.FieldCluster))
	assert.Equal(t, "user-a", ctx1.FieldValue(kubeconfig.FieldUser))
	assert.Equal(t, "default", ctx1.FieldValue(kubeconfig.FieldNamespace))

	// Nested exec block travels as canonical JSON text.
	userB := doc.FindByName(kubeconfig.KindUser, "user-b")
	require.NotNil(t, userB)
	exec := userB.FieldValue("exec")
	assert.Contains(t, exec, `"command":"kubelogin"`)
	assert.Contains(t, exec, `"provideClusterInfo":true`)

	// Unknown top-level key preserved.
	require.Len(t, doc.Extras, 1)
	assert.Equal(t, "preferences", doc.Extras[0].Key)
}

func TestDecode_Empty(t *testing.T) {
	doc, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Contexts)
	assert.Equal(t, "v1", doc.APIVersion)
}

func TestDecode_MalformedRoot(t *testing.T) {
	for _, input := range []string{"- just\n- a\n- list\n", "plain scalar\n"} {
		_, err := Decode([]byte(input))
		assert.ErrorIs(t, err, kceerrors.ErrMalformedDocument, "input %q", input)
	}
}

func TestDecode_InvalidYAML(t *testing.T) {
	_, err := Decode([]byte("a: [unclosed\n"))
	assert.ErrorIs(t, err, kceerrors.ErrMalformedDocument)
}

func TestDecode_ExportAnnotation(t *testing.T) {
	input := `contexts:
  # kce:export=false
  - name: hidden
    context:
      cluster: c
      user: u
  - name: visible
    context:
      cluster: c
      user: u
`
	doc, err := Decode([]byte(input))
	require.NoError(t, err)

	assert.False(t, doc.FindByName(kubeconfig.KindContext, "hidden").IncludeInExport)
	assert.True(t, doc.FindByName(kubeconfig.KindContext, "visible").IncludeInExport)
}

func TestDecode_ExportAnnotationSpellings(t *testing.T) {
	tests := []struct {
		annotation string
		visible    bool
	}{
		{"# kce:export=0", false},
		{"# kce:export=no", false},
		{"# KCE:EXPORT=OFF", false},
		{"# kce:export=1", true},
		{"# kce:export=yes", true},
		{"# kce:export=on", true},
		{"# kce:export=true", true},
	}

	for _, tt := range tests {
		input := "clusters:\n  " + tt.annotation + "\n  - name: c\n    cluster:\n      server: https://x\n"
		doc, err := Decode([]byte(input))
		require.NoError(t, err, tt.annotation)
		got := doc.FindByName(kubeconfig.KindCluster, "c").IncludeInExport
		assert.Equal(t, tt.visible, got, tt.annotation)
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := Decode([]byte(sampleConfig))
	require.NoError(t, err)

	out, err := Encode(doc, EncodeOptions{})
	require.NoError(t, err)

	again, err := Decode(out)
	require.NoError(t, err)

	assert.Equal(t, doc.CurrentContext, again.CurrentContext)
	for _, kind := range []kubeconfig.Kind{kubeconfig.KindContext, kubeconfig.KindCluster, kubeconfig.KindUser} {
		orig := doc.Collection(kind)
		require.Len(t, again.Collection(kind), len(orig), kind)
		for _, e := range orig {
			other := again.FindByName(kind, e.Name)
			require.NotNil(t, other, "%s %s", kind, e.Name)
			for _, f := range e.Fields {
				assert.Equal(t, f.Value, other.FieldValue(f.Key), "%s %s field %s", kind, e.Name, f.Key)
			}
		}
	}
	require.Len(t, again.Extras, 1)
	assert.Equal(t, "preferences", again.Extras[0].Key)
}

func TestRoundTrip_VisibilityThroughAnnotations(t *testing.T) {
	doc, err := Decode([]byte(sampleConfig))
	require.NoError(t, err)

	ctx2 := doc.FindByName(kubeconfig.KindContext, "ctx-2")
	doc.SetVisibility(kubeconfig.KindContext, ctx2.ID, false)

	out, err := Encode(doc, EncodeOptions{Annotations: true})
	require.NoError(t, err)
	assert.Contains(t, string(out), "# kce:export=false")

	again, err := Decode(out)
	require.NoError(t, err)
	assert.False(t, again.FindByName(kubeconfig.KindContext, "ctx-2").IncludeInExport)
	assert.True(t, again.FindByName(kubeconfig.KindContext, "ctx-1").IncludeInExport)
}

func TestEncode_NoAnnotationsForCanonical(t *testing.T) {
	doc, err := Decode([]byte(sampleConfig))
	require.NoError(t, err)
	ctx2 := doc.FindByName(kubeconfig.KindContext, "ctx-2")
	doc.SetVisibility(kubeconfig.KindContext, ctx2.ID, false)

	out, err := Encode(doc, EncodeOptions{})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "kce:export")
}

func TestEncode_BooleanCoercion(t *testing.T) {
	doc := kubeconfig.NewDocument()

	user := kubeconfig.NewEntity("user-a")
	user.SetField("exec", `{"command":"kubelogin","provideClusterInfo":0}`)
	doc.Add(kubeconfig.KindUser, user)

	cluster := kubeconfig.NewEntity("cluster-a")
	cluster.SetField("server", "https://a:6443")
	cluster.SetField("insecure-skip-tls-verify", "1")
	cluster.SetField("disable-compression", "no")
	doc.Add(kubeconfig.KindCluster, cluster)

	out, err := Encode(doc, EncodeOptions{})
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "provideClusterInfo: false")
	assert.Contains(t, text, "insecure-skip-tls-verify: true")
	assert.Contains(t, text, "disable-compression: false")
	assert.NotContains(t, text, "provideClusterInfo: 0")
}

func TestEncode_NonBooleanKeysUntouched(t *testing.T) {
	doc := kubeconfig.NewDocument()
	cluster := kubeconfig.NewEntity("c")
	cluster.SetField("server", "https://a")
	cluster.SetField("proxy-url", "0") // not on the allowlist
	doc.Add(kubeconfig.KindCluster, cluster)

	out, err := Encode(doc, EncodeOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "proxy-url: 0")
}

func TestEncode_NumbersStayPlain(t *testing.T) {
	doc := kubeconfig.NewDocument()
	cluster := kubeconfig.NewEntity("c")
	cluster.SetField("server", "https://a")
	cluster.SetField("timeout", "30")
	doc.Add(kubeconfig.KindCluster, cluster)

	out, err := Encode(doc, EncodeOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "timeout: 30")
	assert.NotContains(t, string(out), `timeout: "30"`)
}

func TestEncode_OmitsEmptyCurrentContext(t *testing.T) {
	doc := kubeconfig.NewDocument()
	out, err := Encode(doc, EncodeOptions{})
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(out), "current-context"))
}

func TestDecode_DuplicateNamesTolerated(t *testing.T) {
	input := `clusters:
  - name: dup
    cluster:
      server: https://first
  - name: dup
    cluster:
      server: https://second
`
	doc, err := Decode([]byte(input))
	require.NoError(t, err)
	require.Len(t, doc.Clusters, 2)
	assert.Equal(t, "https://first", doc.FindByName(kubeconfig.KindCluster, "dup").FieldValue("server"))
}
