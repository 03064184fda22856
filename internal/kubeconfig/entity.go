package kubeconfig

import "github.com/google/uuid"

// Kind identifies one of the three entity collections in a kubeconfig
// document. It is a closed set; every consumer switches on it explicitly.
type Kind string

const (
	// KindContext is a named cluster+user binding.
	KindContext Kind = "context"

	// KindCluster is a named server-connection descriptor.
	KindCluster Kind = "cluster"

	// KindUser is a named credential descriptor.
	KindUser Kind = "user"
)

// Valid returns true for one of the three known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindContext, KindCluster, KindUser:
		return true
	}
	return false
}

// Well-known field keys. A context's cluster and user fields are the join
// keys for all cross-references; references are by entity name, never by ID.
const (
	FieldCluster   = "cluster"
	FieldUser      = "user"
	FieldNamespace = "namespace"
	FieldServer    = "server"
)

// Field is an ordered key/value pair. Values are always stored as strings;
// richer underlying types (booleans, numbers, nested objects) round-trip
// through canonical string encodings owned by the codec.
type Field struct {
	Key   string
	Value string
}

// Entity is a context, cluster, or user record. ID is an opaque identity
// stable for the in-memory session only; it is never persisted. Name is the
// join key for cross-references and is meant to be unique within its
// collection, though duplicates introduced by hand-edited documents are
// tolerated with first-match lookup semantics.
type Entity struct {
	ID              string
	Name            string
	Fields          []Field
	IncludeInExport bool
}

// NewEntity creates a visible entity with a fresh session-scoped ID.
func NewEntity(name string) *Entity {
	return &Entity{
		ID:              uuid.NewString(),
		Name:            name,
		IncludeInExport: true,
	}
}

// FieldValue returns the value for key, or the empty string if absent.
func (e *Entity) FieldValue(key string) string {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// SetField upserts a field, preserving the position of an existing key and
// appending new keys at the end. No semantic validation happens here.
func (e *Entity) SetField(key, value string) {
	for i := range e.Fields {
		if e.Fields[i].Key == key {
			e.Fields[i].Value = value
			return
		}
	}
	e.Fields = append(e.Fields, Field{Key: key, Value: value})
}

// Clone returns a deep copy sharing the same session ID.
func (e *Entity) Clone() *Entity {
	c := *e
	c.Fields = make([]Field, len(e.Fields))
	copy(c.Fields, e.Fields)
	return &c
}
