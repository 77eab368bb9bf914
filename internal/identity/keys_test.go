package identity_test

import (
	"testing"

	"litsieve/internal/identity"
)

func TestCandidatesOrder(t *testing.T) {
	keys := identity.Candidates(identity.Fields{
		OpenAlexID: "W123",
		DOI:        "https://doi.org/10.1/A",
		ArxivID:    "arXiv:2106.04560",
		Title:      "Some Paper",
	})
	want := []identity.Key{
		{Type: identity.KeyOpenAlex, Value: "w123"},
		{Type: identity.KeyDOI, Value: "10.1/a"},
		{Type: identity.KeyArxiv, Value: "2106.04560"},
		{Type: identity.KeyTitle, Value: "somepaper"},
	}
	if len(keys) != len(want) {
		t.Fatalf("expected %d candidates, got %d: %#v", len(want), len(keys), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("candidate %d = %#v, want %#v", i, keys[i], want[i])
		}
	}
}

func TestCandidatesSkipsEmptyFields(t *testing.T) {
	keys := identity.Candidates(identity.Fields{DOI: "10.1/a", Title: "  "})
	if len(keys) != 1 || keys[0].Type != identity.KeyDOI {
		t.Fatalf("expected only the DOI candidate, got %#v", keys)
	}
}

func TestCandidatesPrefersNormalizedTitle(t *testing.T) {
	keys := identity.Candidates(identity.Fields{
		Title:           "Display Title",
		NormalizedTitle: "CanonicalTitle",
	})
	if len(keys) != 1 || keys[0].Value != "canonicaltitle" {
		t.Fatalf("expected normalized title to win, got %#v", keys)
	}
}

func TestCandidatesNoUsableField(t *testing.T) {
	if keys := identity.Candidates(identity.Fields{}); len(keys) != 0 {
		t.Fatalf("expected no candidates, got %#v", keys)
	}
}
