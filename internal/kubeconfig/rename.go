package kubeconfig

import (
	"fmt"
	"strings"

	kceerrors "github.com/thoreinstein/kce/internal/errors"
)

// MakeUniqueName returns base if unused, otherwise base-1, base-2, ... until
// an unused name is found. A blank base falls back to "item". The chosen
// name is registered in used before returning, so repeated calls in one
// batch never collide with each other.
func MakeUniqueName(base string, used map[string]bool) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "item"
	}

	name := base
	for i := 1; used[name]; i++ {
		name = fmt.Sprintf("%s-%d", base, i)
	}
	used[name] = true
	return name
}

// Rename renames the first entity called oldName in the kind collection to
// newName and propagates the rename to every context reference and, for
// contexts, to current-context. The document is untouched on failure.
func (d *Document) Rename(k Kind, oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return kceerrors.ErrEmptyName
	}

	target := d.FindByName(k, oldName)
	if target == nil {
		return kceerrors.Wrapf(kceerrors.ErrNotFound, "%s %q", k, oldName)
	}
	if existing := d.FindByName(k, newName); existing != nil && existing != target {
		return kceerrors.Wrapf(kceerrors.ErrAlreadyExists, "%s %q", k, newName)
	}

	target.Name = newName

	switch k {
	case KindContext:
		if d.CurrentContext == oldName {
			d.CurrentContext = newName
		}
	case KindCluster:
		d.retargetContexts(FieldCluster, oldName, newName)
	case KindUser:
		d.retargetContexts(FieldUser, oldName, newName)
	}

	return nil
}

func (d *Document) retargetContexts(field, oldName, newName string) {
	for _, ctx := range d.Contexts {
		if ctx.FieldValue(field) == oldName {
			ctx.SetField(field, newName)
		}
	}
}
