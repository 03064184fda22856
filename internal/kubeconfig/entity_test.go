package kubeconfig

import "testing"

func TestEntity_SetField_PreservesPosition(t *testing.T) {
	e := NewEntity("dev")
	e.SetField("server", "https://a:1")
	e.SetField("certificate-authority-data", "abc")
	e.SetField("server", "https://a:2")

	if len(e.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(e.Fields))
	}
	if e.Fields[0].Key != "server" || e.Fields[0].Value != "https://a:2" {
		t.Errorf("server field not updated in place: %+v", e.Fields[0])
	}
}

func TestEntity_FieldValue_Absent(t *testing.T) {
	e := NewEntity("dev")
	if got := e.FieldValue("namespace"); got != "" {
		t.Errorf("FieldValue for absent key = %q, want empty", got)
	}
}

func TestEntity_Clone_Independent(t *testing.T) {
	e := NewEntity("dev")
	e.SetField("server", "https://a:1")

	c := e.Clone()
	c.SetField("server", "https://b:1")

	if e.FieldValue("server") != "https://a:1" {
		t.Error("mutating the clone changed the original")
	}
	if c.ID != e.ID {
		t.Error("clone should keep the session ID")
	}
}

func TestNewEntity_Defaults(t *testing.T) {
	a := NewEntity("x")
	b := NewEntity("x")

	if !a.IncludeInExport {
		t.Error("new entities default to visible")
	}
	if a.ID == "" || a.ID == b.ID {
		t.Error("session IDs must be non-empty and distinct")
	}
}

func TestKind_Valid(t *testing.T) {
	for _, k := range []Kind{KindContext, KindCluster, KindUser} {
		if !k.Valid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if Kind("namespace").Valid() {
		t.Error("unknown kind should be invalid")
	}
}
