package kubeconfig

import "testing"

// twoPairDoc builds the standard fixture: ctx-1 -> (cluster-a, user-a),
// ctx-2 -> (cluster-b, user-b), current context ctx-1.
func twoPairDoc() *Document {
	d := NewDocument()
	for _, pair := range []struct{ ctx, cluster, user string }{
		{"ctx-1", "cluster-a", "user-a"},
		{"ctx-2", "cluster-b", "user-b"},
	} {
		ctx := NewEntity(pair.ctx)
		ctx.SetField(FieldCluster, pair.cluster)
		ctx.SetField(FieldUser, pair.user)
		d.Add(KindContext, ctx)

		cluster := NewEntity(pair.cluster)
		cluster.SetField(FieldServer, "https://"+pair.cluster+":6443")
		d.Add(KindCluster, cluster)

		user := NewEntity(pair.user)
		user.SetField("token", "tok-"+pair.user)
		d.Add(KindUser, user)
	}
	d.CurrentContext = "ctx-1"
	return d
}

func TestFindByName_FirstMatch(t *testing.T) {
	d := NewDocument()
	first := NewEntity("dup")
	first.SetField(FieldServer, "https://first")
	second := NewEntity("dup")
	second.SetField(FieldServer, "https://second")
	d.Add(KindCluster, first)
	d.Add(KindCluster, second)

	got := d.FindByName(KindCluster, "dup")
	if got != first {
		t.Error("duplicate names resolve to the first match")
	}
}

func TestFindByName_Missing(t *testing.T) {
	d := twoPairDoc()
	if d.FindByName(KindCluster, "nope") != nil {
		t.Error("expected nil for unknown name")
	}
}

func TestNames(t *testing.T) {
	d := twoPairDoc()
	used := d.Names(KindContext)
	if !used["ctx-1"] || !used["ctx-2"] || len(used) != 2 {
		t.Errorf("Names = %v", used)
	}
}

func TestClone_DeepCopiesEntities(t *testing.T) {
	d := twoPairDoc()
	c := d.Clone()

	c.Contexts[0].SetField(FieldNamespace, "staging")
	if d.Contexts[0].FieldValue(FieldNamespace) != "" {
		t.Error("mutating the clone changed the original document")
	}
	if c.CurrentContext != d.CurrentContext {
		t.Error("clone should copy current context")
	}
}

func TestSetVisibility_HidingCurrentContextReassigns(t *testing.T) {
	d := twoPairDoc()
	ctx1 := d.FindByName(KindContext, "ctx-1")

	if !d.SetVisibility(KindContext, ctx1.ID, false) {
		t.Fatal("SetVisibility should find the entity")
	}
	if ctx1.IncludeInExport {
		t.Error("entity should be hidden")
	}
	if d.CurrentContext != "ctx-2" {
		t.Errorf("current context = %q, want ctx-2", d.CurrentContext)
	}
}

func TestSetVisibility_HidingAllClearsCurrent(t *testing.T) {
	d := twoPairDoc()
	for _, ctx := range append([]*Entity(nil), d.Contexts...) {
		d.SetVisibility(KindContext, ctx.ID, false)
	}
	if d.CurrentContext != "" {
		t.Errorf("current context = %q, want empty", d.CurrentContext)
	}
}

func TestSetVisibility_UnknownID(t *testing.T) {
	d := twoPairDoc()
	if d.SetVisibility(KindUser, "missing", false) {
		t.Error("expected false for unknown ID")
	}
}
