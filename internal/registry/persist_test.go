package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"litsieve/internal/identity"
	"litsieve/internal/registry"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")

	r := registry.New(nil)
	r.SetCriteriaHash("hash-1")
	r.Upsert(registry.Entry{
		Status:     registry.StatusInclude,
		Title:      "Paper One",
		DOI:        "10.1/one",
		OpenAlexID: "W1",
	})
	r.Upsert(registry.Entry{
		Status:  registry.StatusHardExclude,
		Title:   "Paper Two",
		ArxivID: "2101.00002",
	})
	if err := r.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := registry.Load(path, nil)
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", loaded.Len())
	}
	if loaded.CriteriaHash() != "hash-1" {
		t.Fatalf("criteria hash lost: %q", loaded.CriteriaHash())
	}

	// The reverse index must answer the same lookups after a reload.
	lookups := []identity.Fields{
		{DOI: "10.1/one"},
		{OpenAlexID: "w1"},
		{Title: "Paper One"},
		{ArxivID: "arXiv:2101.00002"},
		{Title: "paper two"},
	}
	for _, f := range lookups {
		before, okBefore := r.Lookup(identity.Candidates(f))
		after, okAfter := loaded.Lookup(identity.Candidates(f))
		if okBefore != okAfter || before != after {
			t.Fatalf("lookup diverged after reload for %#v: (%d,%v) vs (%d,%v)", f, before, okBefore, after, okAfter)
		}
	}
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	r := registry.Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", r.Len())
	}
}

func TestLoadMalformedPayloadFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	r := registry.Load(path, nil)
	if r.Len() != 0 {
		t.Fatalf("expected empty registry from malformed payload, got %d entries", r.Len())
	}
}

func TestLoadMissingEntriesDefaultsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte(`{"version":1,"criteria_hash":"x"}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	r := registry.Load(path, nil)
	if r.Len() != 0 {
		t.Fatalf("expected zero entries, got %d", r.Len())
	}
	if r.CriteriaHash() != "x" {
		t.Fatalf("criteria hash not loaded: %q", r.CriteriaHash())
	}
}

func TestDocumentVersionStamped(t *testing.T) {
	r := registry.New(nil)
	doc := r.Document()
	if doc.Version != registry.DocumentVersion {
		t.Fatalf("version = %d, want %d", doc.Version, registry.DocumentVersion)
	}
	if doc.UpdatedAt.IsZero() {
		t.Fatal("expected updated_at to be stamped")
	}
}
