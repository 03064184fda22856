package kubeconfig

import (
	"slices"
	"testing"
)

func TestContextsUsingCluster_CollectionOrder(t *testing.T) {
	d := twoPairDoc()
	extra := NewEntity("ctx-3")
	extra.SetField(FieldCluster, "cluster-a")
	extra.SetField(FieldUser, "user-b")
	d.Add(KindContext, extra)

	got := d.ContextsUsingCluster("cluster-a")
	if len(got) != 2 || got[0].Name != "ctx-1" || got[1].Name != "ctx-3" {
		names := make([]string, len(got))
		for i, e := range got {
			names[i] = e.Name
		}
		t.Errorf("ContextsUsingCluster = %v, want [ctx-1 ctx-3]", names)
	}
}

func TestContextsUsingUser(t *testing.T) {
	d := twoPairDoc()
	got := d.ContextsUsingUser("user-b")
	if len(got) != 1 || got[0].Name != "ctx-2" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestUsersLinkedToCluster_DedupAndSort(t *testing.T) {
	d := twoPairDoc()
	// Two more contexts on cluster-a: one repeats user-a, one adds a
	// mixed-case name to exercise the case-insensitive sort.
	for _, user := range []string{"user-a", "Admin"} {
		ctx := NewEntity("ctx-" + user)
		ctx.SetField(FieldCluster, "cluster-a")
		ctx.SetField(FieldUser, user)
		d.Add(KindContext, ctx)
	}

	got := d.UsersLinkedToCluster("cluster-a")
	want := []string{"Admin", "user-a"}
	if !slices.Equal(got, want) {
		t.Errorf("UsersLinkedToCluster = %v, want %v", got, want)
	}
}

func TestClustersLinkedToUser(t *testing.T) {
	d := twoPairDoc()
	ctx := NewEntity("ctx-3")
	ctx.SetField(FieldCluster, "cluster-b")
	ctx.SetField(FieldUser, "user-a")
	d.Add(KindContext, ctx)

	got := d.ClustersLinkedToUser("user-a")
	want := []string{"cluster-a", "cluster-b"}
	if !slices.Equal(got, want) {
		t.Errorf("ClustersLinkedToUser = %v, want %v", got, want)
	}
}

func TestTwoHop_SkipsEmptyReferences(t *testing.T) {
	d := NewDocument()
	ctx := NewEntity("bare")
	ctx.SetField(FieldCluster, "cluster-a")
	d.Add(KindContext, ctx)

	if got := d.UsersLinkedToCluster("cluster-a"); len(got) != 0 {
		t.Errorf("expected no linked users, got %v", got)
	}
}
