package criteria_test

import (
	"os"
	"path/filepath"
	"testing"

	"litsieve/internal/criteria"
)

func writeCriteria(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write criteria fixture: %v", err)
	}
	return path
}

func TestLoadParsesRules(t *testing.T) {
	path := writeCriteria(t, `
inclusion:
  - "Peer-reviewed studies on LLM-based screening"
  - "  Published 2020 or later  "
exclusion:
  - "Non-English publications"
`)
	doc, err := criteria.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Inclusion) != 2 || len(doc.Exclusion) != 1 {
		t.Fatalf("unexpected rule counts: %#v", doc)
	}
	if doc.Inclusion[1] != "Published 2020 or later" {
		t.Fatalf("rules should be trimmed: %q", doc.Inclusion[1])
	}
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	if _, err := criteria.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing criteria document")
	}
}

func TestLoadEmptyRulesIsFatal(t *testing.T) {
	path := writeCriteria(t, "inclusion: []\nexclusion: []\n")
	if _, err := criteria.Load(path); err == nil {
		t.Fatal("expected error for empty rule set")
	}
}

func TestHashStableAcrossFormatting(t *testing.T) {
	a, err := criteria.Load(writeCriteria(t, "inclusion:\n  - rule one\nexclusion:\n  - rule two\n"))
	if err != nil {
		t.Fatalf("Load a: %v", err)
	}
	b, err := criteria.Load(writeCriteria(t, "exclusion: [\"rule two\"]\ninclusion: [\"  rule one \"]\n"))
	if err != nil {
		t.Fatalf("Load b: %v", err)
	}
	if a.Hash() != b.Hash() {
		t.Fatal("hash must ignore formatting differences")
	}
}

func TestHashChangesWithContent(t *testing.T) {
	a := criteria.Document{Inclusion: []string{"rule one"}}
	b := criteria.Document{Inclusion: []string{"rule one changed"}}
	c := criteria.Document{Exclusion: []string{"rule one"}}
	if a.Hash() == b.Hash() {
		t.Fatal("hash must change with rule text")
	}
	if a.Hash() == c.Hash() {
		t.Fatal("hash must distinguish inclusion from exclusion rules")
	}
}
