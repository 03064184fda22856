package kubeconfig

import (
	"slices"
	"strings"
)

// ContextsUsingCluster returns the contexts whose cluster field equals name,
// in collection order.
func (d *Document) ContextsUsingCluster(name string) []*Entity {
	return d.contextsReferencing(FieldCluster, name)
}

// ContextsUsingUser returns the contexts whose user field equals name, in
// collection order.
func (d *Document) ContextsUsingUser(name string) []*Entity {
	return d.contextsReferencing(FieldUser, name)
}

func (d *Document) contextsReferencing(field, name string) []*Entity {
	var out []*Entity
	for _, ctx := range d.Contexts {
		if ctx.FieldValue(field) == name {
			out = append(out, ctx)
		}
	}
	return out
}

// UsersLinkedToCluster returns the user names reachable from the cluster
// through contexts (cluster -> context -> user). Deduplicated and sorted
// case-insensitively for stable presentation.
func (d *Document) UsersLinkedToCluster(name string) []string {
	return d.twoHop(FieldCluster, name, FieldUser)
}

// ClustersLinkedToUser returns the cluster names reachable from the user
// through contexts (user -> context -> cluster). Deduplicated and sorted
// case-insensitively for stable presentation.
func (d *Document) ClustersLinkedToUser(name string) []string {
	return d.twoHop(FieldUser, name, FieldCluster)
}

func (d *Document) twoHop(via, name, target string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ctx := range d.Contexts {
		if ctx.FieldValue(via) != name {
			continue
		}
		other := ctx.FieldValue(target)
		if other == "" || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
