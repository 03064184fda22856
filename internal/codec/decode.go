package codec

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	kceerrors "github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

// ExportAnnotation is the head-comment marker controlling entity visibility.
const ExportAnnotation = "kce:export="

// collectionWrapper maps the top-level sequence key to the per-item wrapper
// key holding the entity's fields.
var collectionWrapper = map[string]struct {
	kind    kubeconfig.Kind
	wrapper string
}{
	"contexts": {kubeconfig.KindContext, "context"},
	"clusters": {kubeconfig.KindCluster, "cluster"},
	"users":    {kubeconfig.KindUser, "user"},
}

// Decode parses serialized kubeconfig YAML into a fresh document. A root
// that is not a mapping is a fatal, descriptive error; everything below the
// root is decoded tolerantly.
func Decode(data []byte) (*kubeconfig.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, kceerrors.Wrap(kceerrors.ErrMalformedDocument, err.Error())
	}

	doc := kubeconfig.NewDocument()

	// Empty input is a valid empty document.
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, kceerrors.Wrapf(kceerrors.ErrMalformedDocument, "document root is %s, expected a mapping", nodeKindName(mapping.Kind))
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		value := mapping.Content[i+1]

		switch key.Value {
		case "apiVersion":
			doc.APIVersion = value.Value
		case "kind":
			doc.ConfigKind = value.Value
		case "current-context":
			doc.CurrentContext = value.Value
		case "contexts", "clusters", "users":
			col := collectionWrapper[key.Value]
			decodeCollection(doc, col.kind, col.wrapper, value)
		default:
			doc.Extras = append(doc.Extras, kubeconfig.Extra{Key: key.Value, Value: value})
		}
	}

	return doc, nil
}

func decodeCollection(doc *kubeconfig.Document, kind kubeconfig.Kind, wrapper string, seq *yaml.Node) {
	if seq.Kind != yaml.SequenceNode {
		return
	}

	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}

		entity := kubeconfig.NewEntity("")
		if visible, ok := parseExportAnnotation(item.HeadComment); ok {
			entity.IncludeInExport = visible
		}

		for i := 0; i+1 < len(item.Content); i += 2 {
			key := item.Content[i]
			value := item.Content[i+1]

			switch key.Value {
			case "name":
				entity.Name = value.Value
			case wrapper:
				decodeFields(entity, value)
			}
		}

		doc.Add(kind, entity)
	}
}

func decodeFields(entity *kubeconfig.Entity, mapping *yaml.Node) {
	if mapping.Kind != yaml.MappingNode {
		return
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		value := mapping.Content[i+1]
		entity.Fields = append(entity.Fields, kubeconfig.Field{
			Key:   key.Value,
			Value: fieldString(value),
		})
	}
}

// fieldString flattens a value node to the model's string representation:
// scalars keep their literal text, nested structures become canonical JSON.
func fieldString(value *yaml.Node) string {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return ""
		}
		return value.Value
	case yaml.MappingNode, yaml.SequenceNode:
		var v any
		if err := value.Decode(&v); err != nil {
			return ""
		}
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	case yaml.AliasNode:
		if value.Alias != nil {
			return fieldString(value.Alias)
		}
	}
	return ""
}

// parseExportAnnotation scans a head comment for the kce:export marker.
// Returns ok=false when no annotation is present or its value is not
// boolean-like.
func parseExportAnnotation(comment string) (visible, ok bool) {
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#"))
		if len(line) < len(ExportAnnotation) {
			continue
		}
		if !strings.EqualFold(line[:len(ExportAnnotation)], ExportAnnotation) {
			continue
		}
		if v, valid := parseBoolLike(line[len(ExportAnnotation):]); valid {
			return v, true
		}
	}
	return false, false
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "a document"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.MappingNode:
		return "a mapping"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	}
	return "unknown"
}
