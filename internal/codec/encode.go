package codec

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/kce/internal/kubeconfig"
)

// EncodeOptions controls serialization behavior.
type EncodeOptions struct {
	// Annotations writes the kce:export head comment for hidden entities.
	// The canonical file is written without annotations; the workspace
	// sidecar and history snapshots are written with them.
	Annotations bool
}

// Encode serializes the document to kubeconfig YAML.
func Encode(doc *kubeconfig.Document, opts EncodeOptions) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	appendPair(mapping, "apiVersion", scalarNode(doc.APIVersion))
	appendPair(mapping, "kind", scalarNode(doc.ConfigKind))
	appendPair(mapping, "clusters", collectionNode(doc.Clusters, "cluster", opts))
	appendPair(mapping, "contexts", collectionNode(doc.Contexts, "context", opts))
	if doc.CurrentContext != "" {
		appendPair(mapping, "current-context", scalarNode(doc.CurrentContext))
	}
	appendPair(mapping, "users", collectionNode(doc.Users, "user", opts))

	for _, extra := range doc.Extras {
		appendPair(mapping, extra.Key, extra.Value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "closing encoder")
	}
	return buf.Bytes(), nil
}

func collectionNode(entities []*kubeconfig.Entity, wrapper string, opts EncodeOptions) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}

	for _, e := range entities {
		fields := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range e.Fields {
			appendPair(fields, f.Key, fieldNode(f.Key, f.Value))
		}
		coerceBooleans(fields)

		item := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		appendPair(item, "name", scalarNode(e.Name))
		appendPair(item, wrapper, fields)

		if opts.Annotations && !e.IncludeInExport {
			item.HeadComment = ExportAnnotation + "false"
		}

		seq.Content = append(seq.Content, item)
	}

	return seq
}

// fieldNode converts a stored string value back to a YAML node. JSON text
// becomes a nested structure; everything else is a plain scalar whose type
// the emitter re-infers, which keeps numbers and booleans unquoted.
func fieldNode(key, value string) *yaml.Node {
	if booleanFieldKeys[key] {
		if b, ok := parseBoolLike(value); ok {
			return boolNode(b)
		}
	}

	trimmed := strings.TrimSpace(value)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if err := json.Unmarshal([]byte(value), &v); err == nil {
			node := &yaml.Node{}
			if err := node.Encode(v); err == nil {
				return node
			}
		}
	}

	if value == "" {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
	}
	return scalarNode(value)
}

// coerceBooleans rewrites boolean-like scalar values of allowlisted keys to
// native booleans, recursing into nested mappings and sequences so exec
// plugin blocks are covered as well.
func coerceBooleans(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			value := n.Content[i+1]
			if booleanFieldKeys[key.Value] && value.Kind == yaml.ScalarNode {
				if b, ok := parseBoolLike(value.Value); ok {
					*value = *boolNode(b)
					continue
				}
			}
			coerceBooleans(value)
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			coerceBooleans(item)
		}
	}
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalarNode(key), value)
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func boolNode(b bool) *yaml.Node {
	value := "false"
	if b {
		value = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: value}
}
