package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}

	// Idempotent
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("EnsureDir should be idempotent: %v", err)
	}
}

func TestCanonicalize(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Canonicalize(file)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}

	// Same file through a dotted path canonicalizes to the same string.
	dotted := filepath.Join(dir, ".", "config.yaml")
	got2, err := Canonicalize(dotted)
	if err != nil {
		t.Fatalf("Canonicalize dotted: %v", err)
	}
	if got != got2 {
		t.Errorf("canonical paths differ: %q vs %q", got, got2)
	}
}

func TestCanonicalize_Missing(t *testing.T) {
	// A not-yet-existing file still canonicalizes lexically.
	got, err := Canonicalize(filepath.Join(t.TempDir(), "new.yaml"))
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

func TestCanonicalize_Empty(t *testing.T) {
	if _, err := Canonicalize(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestVersionsDir_UnderDataHome(t *testing.T) {
	if !strings.HasSuffix(VersionsDir(), filepath.Join("kce", "versions")) {
		t.Errorf("unexpected versions dir: %q", VersionsDir())
	}
}
