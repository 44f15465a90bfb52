package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDefaults(t *testing.T) {
	doc := Defaults()
	if len(doc.Requesters) != 15 {
		t.Errorf("Expected 15 default requesters, got %d", len(doc.Requesters))
	}
	if doc.Requesters[0] != "BRUNO GOMES DA SILVA" {
		t.Errorf("First requester = %q", doc.Requesters[0])
	}
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte("requesters:\n  - ' Ana '\n  - ''\nprojects:\n  - Obra Norte\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Requesters) != 1 || doc.Requesters[0] != "Ana" {
		t.Errorf("Requesters = %q, want [Ana]", doc.Requesters)
	}
	if len(doc.Projects) != 1 {
		t.Errorf("Projects = %q", doc.Projects)
	}

	if _, err := Parse([]byte("requesters: {")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestApply_TwiceCreatesNoDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := Apply(ctx, store, Defaults())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if first.RequestersAdded != 15 {
		t.Errorf("RequestersAdded = %d, want 15", first.RequestersAdded)
	}

	second, err := Apply(ctx, store, Defaults())
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if second.RequestersAdded != 0 {
		t.Errorf("second run added %d requesters, want 0", second.RequestersAdded)
	}

	requesters, err := store.ListRequesters(ctx)
	if err != nil {
		t.Fatalf("ListRequesters failed: %v", err)
	}
	if len(requesters) != 15 {
		t.Errorf("Expected 15 requesters, got %d", len(requesters))
	}
}

func TestApply_IgnoresCaseDifferences(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := Document{
		Requesters: []string{"José Carlos Figueira da Silva"},
		Projects:   []string{"Obra Norte", "OBRA NORTE"},
	}
	if _, err := Apply(ctx, store, doc); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	result, err := Apply(ctx, store, Defaults())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.RequestersAdded != 14 {
		t.Errorf("RequestersAdded = %d, want 14", result.RequestersAdded)
	}

	projects, _ := store.ListProjects(ctx)
	if len(projects) != 1 {
		t.Errorf("Expected 1 project, got %d", len(projects))
	}
}

func TestLoad(t *testing.T) {
	doc, err := Load("")
	if err != nil || len(doc.Requesters) != 15 {
		t.Fatalf("Load(\"\") = %d requesters, %v", len(doc.Requesters), err)
	}

	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("requesters: [Ana, Bruno]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Requesters) != 2 {
		t.Errorf("Requesters = %q", doc.Requesters)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
