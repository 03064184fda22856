package export

import (
	"strings"

	kceerrors "github.com/thoreinstein/kce/internal/errors"
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

// Selected builds a document containing exactly the contexts whose session
// IDs are in ids plus every cluster and user they reference. Visibility
// flags are deliberately ignored: hidden entities can always be retrieved
// through an explicit export even though the canonical save excludes them.
//
// Fails with ErrNothingSelected for an empty selection and with
// ErrMissingReferences (naming the missing entities) when any selected
// context's reference does not resolve anywhere in the document.
func Selected(doc *kubeconfig.Document, ids map[string]bool) (*kubeconfig.Document, error) {
	if len(ids) == 0 {
		return nil, kceerrors.ErrNothingSelected
	}

	var selected []*kubeconfig.Entity
	for _, ctx := range doc.Contexts {
		if ids[ctx.ID] {
			selected = append(selected, ctx)
		}
	}
	if len(selected) == 0 {
		return nil, kceerrors.ErrNothingSelected
	}

	var missing []string
	neededClusters := make(map[string]bool)
	neededUsers := make(map[string]bool)
	for _, ctx := range selected {
		for _, ref := range []struct {
			field string
			kind  kubeconfig.Kind
			need  map[string]bool
		}{
			{kubeconfig.FieldCluster, kubeconfig.KindCluster, neededClusters},
			{kubeconfig.FieldUser, kubeconfig.KindUser, neededUsers},
		} {
			name := ctx.FieldValue(ref.field)
			if name == "" || doc.FindByName(ref.kind, name) == nil {
				missing = append(missing, string(ref.kind)+" "+quoteOrEmpty(name))
				continue
			}
			ref.need[name] = true
		}
	}
	if len(missing) > 0 {
		return nil, kceerrors.Wrap(kceerrors.ErrMissingReferences, strings.Join(missing, ", "))
	}

	out := kubeconfig.NewDocument()
	out.APIVersion = doc.APIVersion
	out.ConfigKind = doc.ConfigKind
	for _, ctx := range selected {
		out.Contexts = append(out.Contexts, ctx.Clone())
	}
	for _, cluster := range doc.Clusters {
		if neededClusters[cluster.Name] {
			out.Clusters = append(out.Clusters, cluster.Clone())
			delete(neededClusters, cluster.Name)
		}
	}
	for _, user := range doc.Users {
		if neededUsers[user.Name] {
			out.Users = append(out.Users, user.Clone())
			delete(neededUsers, user.Name)
		}
	}
	out.CurrentContext = out.Contexts[0].Name

	return out, nil
}

func quoteOrEmpty(name string) string {
	if name == "" {
		return "(empty)"
	}
	return `"` + name + `"`
}
