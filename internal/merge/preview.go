package merge

import (
	"fmt"
	"slices"

	"github.com/thoreinstein/kce/internal/codec"
	kceerrors "github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

// Change is one field-level difference between a source and target entity.
// Its ID is the deterministic triple kind|targetName|key, stable across
// repeated previews of the same inputs so UI selections survive a refresh.
type Change struct {
	ID         string
	Kind       kubeconfig.Kind
	TargetName string
	Key        string
	OldValue   string
	NewValue   string
}

// Preview is the computed change set for merging one foreign context into
// an existing context.
type Preview struct {
	// ImportedContextNames lists every context in the foreign document,
	// sorted for stable presentation.
	ImportedContextNames []string

	// SelectedContextName is the foreign context the diff was built from.
	SelectedContextName string

	// TargetContextID identifies the live context changes apply to.
	TargetContextID string

	Changes  []Change
	Warnings []string
}

// BuildPreview diffs a foreign context against the live context identified
// by targetContextID. sourceName picks the foreign context explicitly; when
// empty, the foreign document's current-context is used, then its first
// context. Cluster and user diffs are skipped with a warning when either
// side's reference is empty or unresolvable; a partial diff is never
// produced for them.
func BuildPreview(target *kubeconfig.Document, data []byte, sourceName, targetContextID string) (*Preview, error) {
	foreign, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	if len(foreign.Contexts) == 0 {
		return nil, kceerrors.ErrNoContexts
	}

	source, err := resolveSourceContext(foreign, sourceName)
	if err != nil {
		return nil, err
	}

	targetCtx := target.FindByID(kubeconfig.KindContext, targetContextID)
	if targetCtx == nil {
		return nil, kceerrors.Wrap(kceerrors.ErrNotFound, "target context")
	}

	preview := &Preview{
		SelectedContextName: source.Name,
		TargetContextID:     targetContextID,
	}
	for _, ctx := range foreign.Contexts {
		preview.ImportedContextNames = append(preview.ImportedContextNames, ctx.Name)
	}
	slices.Sort(preview.ImportedContextNames)

	preview.Changes = appendFieldDiff(preview.Changes, kubeconfig.KindContext, targetCtx.Name, source, targetCtx)

	for _, ref := range []struct {
		field string
		kind  kubeconfig.Kind
	}{
		{kubeconfig.FieldCluster, kubeconfig.KindCluster},
		{kubeconfig.FieldUser, kubeconfig.KindUser},
	} {
		srcEntity, dstEntity, warning := resolveReferencePair(foreign, source, target, targetCtx, ref.kind, ref.field)
		if warning != "" {
			preview.Warnings = append(preview.Warnings, warning)
			continue
		}
		preview.Changes = appendFieldDiff(preview.Changes, ref.kind, dstEntity.Name, srcEntity, dstEntity)
	}

	return preview, nil
}

// ApplyPreview writes the NewValue of every selected change into the entity
// it targets and returns how many changes were applied. Context changes go
// to the preview's target context; cluster and user changes are re-resolved
// by their current name at apply time, never by a stale index. Unselected
// changes are dropped; applying zero changes is a no-op.
func ApplyPreview(target *kubeconfig.Document, preview *Preview, selected map[string]bool) int {
	applied := 0
	for _, change := range preview.Changes {
		if !selected[change.ID] {
			continue
		}

		var entity *kubeconfig.Entity
		if change.Kind == kubeconfig.KindContext {
			entity = target.FindByID(kubeconfig.KindContext, preview.TargetContextID)
		} else {
			entity = target.FindByName(change.Kind, change.TargetName)
		}
		if entity == nil {
			continue
		}

		entity.SetField(change.Key, change.NewValue)
		applied++
	}
	return applied
}

func resolveSourceContext(foreign *kubeconfig.Document, sourceName string) (*kubeconfig.Entity, error) {
	if sourceName != "" {
		ctx := foreign.FindByName(kubeconfig.KindContext, sourceName)
		if ctx == nil {
			return nil, kceerrors.Wrapf(kceerrors.ErrNotFound, "context %q in imported document", sourceName)
		}
		return ctx, nil
	}
	if foreign.CurrentContext != "" {
		if ctx := foreign.FindByName(kubeconfig.KindContext, foreign.CurrentContext); ctx != nil {
			return ctx, nil
		}
	}
	return foreign.Contexts[0], nil
}

// resolveReferencePair resolves both sides of a cluster or user reference.
// A non-empty warning means the pair could not be resolved and diffing for
// this kind must be skipped entirely.
func resolveReferencePair(foreign *kubeconfig.Document, source *kubeconfig.Entity, target *kubeconfig.Document, targetCtx *kubeconfig.Entity, kind kubeconfig.Kind, field string) (src, dst *kubeconfig.Entity, warning string) {
	srcName := source.FieldValue(field)
	dstName := targetCtx.FieldValue(field)

	if srcName == "" || dstName == "" {
		return nil, nil, fmt.Sprintf("skipping %s comparison: context %q or %q has no %s reference", kind, source.Name, targetCtx.Name, field)
	}

	src = foreign.FindByName(kind, srcName)
	if src == nil {
		return nil, nil, fmt.Sprintf("skipping %s comparison: %s %q not found in imported document", kind, kind, srcName)
	}
	dst = target.FindByName(kind, dstName)
	if dst == nil {
		return nil, nil, fmt.Sprintf("skipping %s comparison: %s %q not found in current document", kind, kind, dstName)
	}
	return src, dst, ""
}

// appendFieldDiff emits a change for every source field whose value differs
// from the target's value for that key, a missing target key counting as
// empty.
func appendFieldDiff(changes []Change, kind kubeconfig.Kind, targetName string, source, target *kubeconfig.Entity) []Change {
	for _, f := range source.Fields {
		old := target.FieldValue(f.Key)
		if old == f.Value {
			continue
		}
		changes = append(changes, Change{
			ID:         ChangeID(kind, targetName, f.Key),
			Kind:       kind,
			TargetName: targetName,
			Key:        f.Key,
			OldValue:   old,
			NewValue:   f.Value,
		})
	}
	return changes
}

// ChangeID builds the deterministic change identifier.
func ChangeID(kind kubeconfig.Kind, targetName, key string) string {
	return fmt.Sprintf("%s|%s|%s", kind, targetName, key)
}
