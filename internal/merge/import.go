package merge

import (
	"github.com/thoreinstein/kce/internal/codec"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

// ImportResult reports what an append-import added to the document.
type ImportResult struct {
	// Added counts appended entities per kind.
	Added map[kubeconfig.Kind]int

	// Renamed maps original foreign names to their disambiguated names,
	// per kind. Only collisions appear here.
	Renamed map[kubeconfig.Kind]map[string]string
}

// Import parses a foreign document and appends all of its entities to
// target. Foreign names colliding with existing target names are renamed
// with a numeric suffix, and every foreign cross-reference (context cluster
// and user fields, the foreign current-context) is rewritten through the
// rename maps, so no appended context ever references a missing entity.
//
// If target has no current context, the (possibly renamed) foreign current
// context is adopted, falling back to the first appended context.
func Import(target *kubeconfig.Document, data []byte) (*ImportResult, error) {
	foreign, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Added:   make(map[kubeconfig.Kind]int),
		Renamed: make(map[kubeconfig.Kind]map[string]string),
	}

	for _, kind := range []kubeconfig.Kind{kubeconfig.KindCluster, kubeconfig.KindUser, kubeconfig.KindContext} {
		renamed := make(map[string]string)
		used := target.Names(kind)

		for _, e := range foreign.Collection(kind) {
			newName := kubeconfig.MakeUniqueName(e.Name, used)
			if newName != e.Name {
				renamed[e.Name] = newName
				e.Name = newName
			}
		}
		result.Renamed[kind] = renamed
	}

	// Rewrite foreign references through the rename maps before appending.
	for _, ctx := range foreign.Contexts {
		retarget(ctx, kubeconfig.FieldCluster, result.Renamed[kubeconfig.KindCluster])
		retarget(ctx, kubeconfig.FieldUser, result.Renamed[kubeconfig.KindUser])
	}
	if renamed, ok := result.Renamed[kubeconfig.KindContext][foreign.CurrentContext]; ok {
		foreign.CurrentContext = renamed
	}

	for _, kind := range []kubeconfig.Kind{kubeconfig.KindContext, kubeconfig.KindCluster, kubeconfig.KindUser} {
		for _, e := range foreign.Collection(kind) {
			target.Add(kind, e)
			result.Added[kind]++
		}
	}

	if target.CurrentContext == "" && len(foreign.Contexts) > 0 {
		if foreign.CurrentContext != "" {
			target.CurrentContext = foreign.CurrentContext
		} else {
			target.CurrentContext = foreign.Contexts[0].Name
		}
	}

	return result, nil
}

func retarget(ctx *kubeconfig.Entity, field string, renamed map[string]string) {
	if newName, ok := renamed[ctx.FieldValue(field)]; ok {
		ctx.SetField(field, newName)
	}
}
