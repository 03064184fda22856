package kubeconfig

import "gopkg.in/yaml.v3"

// Default top-level values applied when a document omits them.
const (
	DefaultAPIVersion = "v1"
	DefaultConfigKind = "Config"
)

// Extra is an unrecognized top-level document entry, preserved verbatim
// through load and save.
type Extra struct {
	Key   string
	Value *yaml.Node
}

// Document is the in-memory model of one kubeconfig file. It is recreated
// fully on every load; there is no reconciliation between two loaded
// documents. A single logical owner mutates it at a time.
type Document struct {
	APIVersion string
	ConfigKind string

	Contexts []*Entity
	Clusters []*Entity
	Users    []*Entity

	// CurrentContext should name an existing context but an unresolvable
	// value is tolerated on load and only corrected when the referenced
	// context is hidden or removed.
	CurrentContext string

	Extras []Extra
}

// NewDocument returns an empty document with default top-level values.
func NewDocument() *Document {
	return &Document{
		APIVersion: DefaultAPIVersion,
		ConfigKind: DefaultConfigKind,
	}
}

// Collection returns the entity slice for the given kind.
func (d *Document) Collection(k Kind) []*Entity {
	return *d.collectionRef(k)
}

func (d *Document) collectionRef(k Kind) *[]*Entity {
	switch k {
	case KindContext:
		return &d.Contexts
	case KindCluster:
		return &d.Clusters
	default:
		return &d.Users
	}
}

// Add appends an entity to the collection for kind.
func (d *Document) Add(k Kind, e *Entity) {
	ref := d.collectionRef(k)
	*ref = append(*ref, e)
}

// FindByName returns the first entity with the given name, or nil.
// First-match semantics deliberately tolerate duplicate names.
func (d *Document) FindByName(k Kind, name string) *Entity {
	for _, e := range d.Collection(k) {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FindByID returns the entity with the given session ID, or nil.
func (d *Document) FindByID(k Kind, id string) *Entity {
	for _, e := range d.Collection(k) {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Names returns the set of names currently used in the collection.
func (d *Document) Names(k Kind) map[string]bool {
	entities := d.Collection(k)
	used := make(map[string]bool, len(entities))
	for _, e := range entities {
		used[e.Name] = true
	}
	return used
}

// Clone returns a deep copy of the document. Extras nodes are shared; they
// are treated as immutable once parsed.
func (d *Document) Clone() *Document {
	c := &Document{
		APIVersion:     d.APIVersion,
		ConfigKind:     d.ConfigKind,
		CurrentContext: d.CurrentContext,
		Extras:         append([]Extra(nil), d.Extras...),
	}
	for _, e := range d.Contexts {
		c.Contexts = append(c.Contexts, e.Clone())
	}
	for _, e := range d.Clusters {
		c.Clusters = append(c.Clusters, e.Clone())
	}
	for _, e := range d.Users {
		c.Users = append(c.Users, e.Clone())
	}
	return c
}

// SetVisibility flips the export flag of one entity, identified by session
// ID. Hiding the current context reassigns current-context to the first
// remaining visible context, or clears it.
func (d *Document) SetVisibility(k Kind, id string, visible bool) bool {
	e := d.FindByID(k, id)
	if e == nil {
		return false
	}
	e.IncludeInExport = visible

	if k == KindContext && !visible && d.CurrentContext == e.Name {
		d.CurrentContext = ""
		for _, ctx := range d.Contexts {
			if ctx.IncludeInExport {
				d.CurrentContext = ctx.Name
				break
			}
		}
	}
	return true
}

// fixCurrentContext reassigns current-context after deletions: if the named
// context no longer exists, fall back to the first remaining context, or
// empty when none remain.
func (d *Document) fixCurrentContext() {
	if d.CurrentContext == "" {
		return
	}
	if d.FindByName(KindContext, d.CurrentContext) != nil {
		return
	}
	if len(d.Contexts) > 0 {
		d.CurrentContext = d.Contexts[0].Name
		return
	}
	d.CurrentContext = ""
}
