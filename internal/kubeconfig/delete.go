package kubeconfig

// DeleteContext removes a single context by session ID. Equivalent to
// DeleteContexts with a singleton set.
func (d *Document) DeleteContext(id string, cascade bool) {
	d.DeleteContexts(map[string]bool{id: true}, cascade)
}

// DeleteContexts removes the contexts whose session IDs are in ids. With
// cascade, each removed context's cluster and user references are pruned
// when no remaining context still references them by name.
func (d *Document) DeleteContexts(ids map[string]bool, cascade bool) {
	removed := d.removeByID(KindContext, ids)
	if len(removed) == 0 {
		return
	}

	if cascade {
		for _, ctx := range removed {
			d.pruneOrphan(KindCluster, FieldCluster, ctx.FieldValue(FieldCluster))
			d.pruneOrphan(KindUser, FieldUser, ctx.FieldValue(FieldUser))
		}
	}

	d.fixCurrentContext()
}

// DeleteCluster removes a single cluster by session ID. Equivalent to
// DeleteClusters with a singleton set.
func (d *Document) DeleteCluster(id string, cascade bool) {
	d.DeleteClusters(map[string]bool{id: true}, cascade)
}

// DeleteClusters removes the clusters whose session IDs are in ids. With
// cascade, contexts referencing a deleted cluster name are removed first,
// then users orphaned by those context removals are pruned. Without
// cascade, dangling context references are left in place and surface as
// warnings.
func (d *Document) DeleteClusters(ids map[string]bool, cascade bool) {
	d.deleteReferenced(KindCluster, FieldCluster, KindUser, FieldUser, ids, cascade)
}

// DeleteUser removes a single user by session ID. Equivalent to DeleteUsers
// with a singleton set.
func (d *Document) DeleteUser(id string, cascade bool) {
	d.DeleteUsers(map[string]bool{id: true}, cascade)
}

// DeleteUsers removes the users whose session IDs are in ids. The cascade
// mirrors DeleteClusters with the roles of cluster and user swapped.
func (d *Document) DeleteUsers(ids map[string]bool, cascade bool) {
	d.deleteReferenced(KindUser, FieldUser, KindCluster, FieldCluster, ids, cascade)
}

// deleteReferenced implements the two-level cascade for clusters and users:
// remove the selected entities, then (if cascading) remove dependent
// contexts and finally prune the opposite entity type orphaned by those
// context removals.
func (d *Document) deleteReferenced(kind Kind, field string, otherKind Kind, otherField string, ids map[string]bool, cascade bool) {
	removed := d.removeByID(kind, ids)
	if len(removed) == 0 {
		return
	}

	if cascade {
		deletedNames := make(map[string]bool, len(removed))
		for _, e := range removed {
			deletedNames[e.Name] = true
		}

		var dependents []*Entity
		kept := d.Contexts[:0]
		for _, ctx := range d.Contexts {
			if deletedNames[ctx.FieldValue(field)] {
				dependents = append(dependents, ctx)
			} else {
				kept = append(kept, ctx)
			}
		}
		d.Contexts = kept

		for _, ctx := range dependents {
			d.pruneOrphan(otherKind, otherField, ctx.FieldValue(otherField))
		}
	}

	d.fixCurrentContext()
}

// removeByID removes entities matching ids from the collection and returns
// them in collection order.
func (d *Document) removeByID(k Kind, ids map[string]bool) []*Entity {
	ref := d.collectionRef(k)
	var removed []*Entity
	kept := (*ref)[:0]
	for _, e := range *ref {
		if ids[e.ID] {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	*ref = kept
	return removed
}

// pruneOrphan removes every entity named name from the collection when no
// remaining context references it through field. A name still referenced by
// at least one context survives.
func (d *Document) pruneOrphan(k Kind, field, name string) {
	if name == "" {
		return
	}
	for _, ctx := range d.Contexts {
		if ctx.FieldValue(field) == name {
			return
		}
	}
	ref := d.collectionRef(k)
	kept := (*ref)[:0]
	for _, e := range *ref {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	*ref = kept
}
