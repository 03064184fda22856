// Package export derives the subsets of a document written to disk: the
// canonical save projection (visible, fully referenced, reachable) and the
// explicit selected-contexts export that deliberately overrides visibility.
package export

import (
	"github.com/thoreinstein/kce/internal/kubeconfig"
)

// Projection is the filtered view of a document used for the canonical
// save, along with counts of what was left out. Dropped counts are purely
// informational feedback, never an error.
type Projection struct {
	Doc *kubeconfig.Document

	DroppedContexts int
	DroppedClusters int
	DroppedUsers    int
}

// Dropped returns the total number of entities excluded from the projection.
func (p *Projection) Dropped() int {
	return p.DroppedContexts + p.DroppedClusters + p.DroppedUsers
}

// Project computes the canonical save projection:
//
//  1. Clusters and users are eligible when visible.
//  2. Contexts are eligible when visible and both references resolve to an
//     eligible entity.
//  3. Of the eligible clusters and users, only those actually referenced by
//     an eligible context are exported. Visibility alone does not persist an
//     entity; reachability from an exported context does.
//  4. Current-context keeps its value when it names an eligible context,
//     else falls back to the first eligible context, else empty.
//
// The input document is not mutated; exported entities are deep copies.
func Project(doc *kubeconfig.Document) *Projection {
	eligibleClusters := visibleNames(doc.Clusters)
	eligibleUsers := visibleNames(doc.Users)

	out := kubeconfig.NewDocument()
	out.APIVersion = doc.APIVersion
	out.ConfigKind = doc.ConfigKind
	out.Extras = append([]kubeconfig.Extra(nil), doc.Extras...)

	referencedClusters := make(map[string]bool)
	referencedUsers := make(map[string]bool)

	for _, ctx := range doc.Contexts {
		cluster := ctx.FieldValue(kubeconfig.FieldCluster)
		user := ctx.FieldValue(kubeconfig.FieldUser)
		if !ctx.IncludeInExport || cluster == "" || user == "" ||
			!eligibleClusters[cluster] || !eligibleUsers[user] {
			continue
		}
		out.Contexts = append(out.Contexts, ctx.Clone())
		referencedClusters[cluster] = true
		referencedUsers[user] = true
	}

	for _, cluster := range doc.Clusters {
		if cluster.IncludeInExport && referencedClusters[cluster.Name] {
			out.Clusters = append(out.Clusters, cluster.Clone())
		}
	}
	for _, user := range doc.Users {
		if user.IncludeInExport && referencedUsers[user.Name] {
			out.Users = append(out.Users, user.Clone())
		}
	}

	if doc.CurrentContext != "" && out.FindByName(kubeconfig.KindContext, doc.CurrentContext) != nil {
		out.CurrentContext = doc.CurrentContext
	} else if len(out.Contexts) > 0 {
		out.CurrentContext = out.Contexts[0].Name
	}

	return &Projection{
		Doc:             out,
		DroppedContexts: len(doc.Contexts) - len(out.Contexts),
		DroppedClusters: len(doc.Clusters) - len(out.Clusters),
		DroppedUsers:    len(doc.Users) - len(out.Users),
	}
}

func visibleNames(entities []*kubeconfig.Entity) map[string]bool {
	names := make(map[string]bool, len(entities))
	for _, e := range entities {
		if e.IncludeInExport {
			names[e.Name] = true
		}
	}
	return names
}
