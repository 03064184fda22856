package merge

import (
	"strings"

	"github.com/thoreinstein/kce/internal/codec"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

// loopbackHosts are the literal host spellings replaced by Normalize.
var loopbackHosts = []string{"127.0.0.1", "localhost"}

// NormalizeOptions controls the share-rewrite performed by Normalize.
type NormalizeOptions struct {
	// Host, when non-empty, replaces loopback hosts in every cluster's
	// server field.
	Host string

	// Prefix, when non-empty, is prepended to every entity name, with all
	// cross-references rewritten to match.
	Prefix string
}

// Normalize rewrites raw document text for sharing and returns the new
// serialization. The live document is never touched; the input text is
// parsed into its own isolated document.
func Normalize(data []byte, opts NormalizeOptions) ([]byte, error) {
	doc, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}

	if opts.Host != "" {
		for _, cluster := range doc.Clusters {
			server := cluster.FieldValue(kubeconfig.FieldServer)
			if server == "" {
				continue
			}
			for _, loopback := range loopbackHosts {
				server = strings.ReplaceAll(server, loopback, opts.Host)
			}
			cluster.SetField(kubeconfig.FieldServer, server)
		}
	}

	if opts.Prefix != "" {
		prefixNames(doc, opts.Prefix)
	}

	return codec.Encode(doc, codec.EncodeOptions{})
}

// prefixNames applies the unconditional variant of the import rename: every
// entity gets the prefix and every reference follows it.
func prefixNames(doc *kubeconfig.Document, prefix string) {
	for _, kind := range []kubeconfig.Kind{kubeconfig.KindContext, kubeconfig.KindCluster, kubeconfig.KindUser} {
		for _, e := range doc.Collection(kind) {
			e.Name = prefix + e.Name
		}
	}

	for _, ctx := range doc.Contexts {
		for _, field := range []string{kubeconfig.FieldCluster, kubeconfig.FieldUser} {
			if ref := ctx.FieldValue(field); ref != "" {
				ctx.SetField(field, prefix+ref)
			}
		}
	}

	if doc.CurrentContext != "" {
		doc.CurrentContext = prefix + doc.CurrentContext
	}
}
