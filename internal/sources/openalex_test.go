package sources

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"litsieve/internal/logging"
)

const openAlexWorkBody = `{
  "id": "https://openalex.org/W100",
  "title": "Snowball Sampling in Citation Graphs",
  "publication_date": "2023-05-01",
  "ids": {"openalex": "https://openalex.org/W100", "doi": "https://doi.org/10.1234/snow"},
  "abstract_inverted_index": {"snowball": [0], "sampling": [1], "works": [2]},
  "referenced_works": ["https://openalex.org/W200", "https://openalex.org/W201"]
}`

func TestOpenAlexWorkByID(t *testing.T) {
	f := newTestFetcher(t)
	client := NewOpenAlex(f, "https://api.test", "")

	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.test/works/W100`,
		httpmock.NewStringResponder(http.StatusOK, openAlexWorkBody))

	candidate, referenced, err := client.WorkByID(context.Background(), "W100")
	if err != nil {
		t.Fatalf("WorkByID failed: %v", err)
	}
	if candidate.Title != "Snowball Sampling in Citation Graphs" {
		t.Fatalf("unexpected title %q", candidate.Title)
	}
	if candidate.OpenAlexID != "W100" {
		t.Fatalf("expected short id W100, got %q", candidate.OpenAlexID)
	}
	if candidate.Abstract != "snowball sampling works" {
		t.Fatalf("abstract not rebuilt from inverted index: %q", candidate.Abstract)
	}
	if len(referenced) != 2 {
		t.Fatalf("expected 2 referenced works, got %d", len(referenced))
	}
}

func TestOpenAlexCitedBy(t *testing.T) {
	f := newTestFetcher(t)
	client := NewOpenAlex(f, "https://api.test", "team@example.org")

	var query string
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.test/works\?`,
		func(req *http.Request) (*http.Response, error) {
			query = req.URL.RawQuery
			return httpmock.NewStringResponse(http.StatusOK,
				`{"results":[{"id":"https://openalex.org/W300","title":"Follow-up Study","ids":{"openalex":"https://openalex.org/W300"}}]}`), nil
		})

	candidates, err := client.CitedBy(context.Background(), "https://openalex.org/W100", 25)
	if err != nil {
		t.Fatalf("CitedBy failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].OpenAlexID != "W300" {
		t.Fatalf("unexpected candidates %+v", candidates)
	}
	if want := "filter=cites%3AW100"; !strings.Contains(query, want) {
		t.Fatalf("query %q missing %q", query, want)
	}
	if !strings.Contains(query, "mailto=") {
		t.Fatalf("query %q missing mailto", query)
	}
}

func TestOpenAlexWorksByIDsSkipsEmpty(t *testing.T) {
	f := newTestFetcher(t)
	client := NewOpenAlex(f, "https://api.test", "")

	candidates, err := client.WorksByIDs(context.Background(), []string{"", "   "})
	if err != nil {
		t.Fatalf("WorksByIDs failed: %v", err)
	}
	if candidates != nil {
		t.Fatalf("expected no candidates for empty ids, got %+v", candidates)
	}
	if httpmock.GetTotalCallCount() != 0 {
		t.Fatalf("expected no upstream calls")
	}
}

func TestReconstructAbstractEmpty(t *testing.T) {
	if got := reconstructAbstract(nil); got != "" {
		t.Fatalf("expected empty abstract, got %q", got)
	}
}

func TestSemanticScholarReferences(t *testing.T) {
	f := newTestFetcher(t)
	client := NewSemanticScholar(f, "https://s2.test")

	httpmock.RegisterResponder(http.MethodGet, `=~^https://s2\.test/paper/.+/references`,
		httpmock.NewStringResponder(http.StatusOK,
			`{"data":[{"citedPaper":{"title":"Prior Art","externalIds":{"DOI":"10.1/prior"}}},{"citedPaper":{"title":""}}]}`))

	candidates, err := client.References(context.Background(), "DOI:10.1234/snow", 10)
	if err != nil {
		t.Fatalf("References failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected untitled papers dropped, got %d candidates", len(candidates))
	}
	if candidates[0].DOI != "10.1/prior" || candidates[0].Source != "semanticscholar" {
		t.Fatalf("unexpected candidate %+v", candidates[0])
	}
}

func TestCitationExpanderOpenAlexPath(t *testing.T) {
	f := newTestFetcher(t)
	openAlex := NewOpenAlex(f, "https://api.test", "")
	expander := NewCitationExpander(openAlex, nil, nil, logging.NewNop(), WithPerSeedLimit(50))

	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.test/works/W100`,
		httpmock.NewStringResponder(http.StatusOK, openAlexWorkBody))
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.test/works\?filter=openalex_id`,
		httpmock.NewStringResponder(http.StatusOK,
			`{"results":[{"id":"https://openalex.org/W200","title":"Referenced Work","ids":{"openalex":"https://openalex.org/W200"}}]}`))
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.test/works\?filter=cites`,
		httpmock.NewStringResponder(http.StatusOK,
			`{"results":[{"id":"https://openalex.org/W300","title":"Citing Work","ids":{"openalex":"https://openalex.org/W300"}}]}`))

	candidates, err := expander.Expand(context.Background(), []Seed{{Title: "seed", OpenAlexID: "W100"}})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected backward+forward candidates, got %d", len(candidates))
	}
	if candidates[0].Title != "Referenced Work" || candidates[1].Title != "Citing Work" {
		t.Fatalf("unexpected candidate order %+v", candidates)
	}
}

func TestCitationExpanderUnresolvableSeed(t *testing.T) {
	f := newTestFetcher(t)
	openAlex := NewOpenAlex(f, "https://api.test", "")
	expander := NewCitationExpander(openAlex, nil, nil, logging.NewNop())

	_, err := expander.Expand(context.Background(), []Seed{{Title: "no identifiers at all"}})
	if err == nil {
		t.Fatal("expected error when every seed is unresolvable")
	}
}

func TestCitationExpanderPartialFailure(t *testing.T) {
	f := newTestFetcher(t)
	openAlex := NewOpenAlex(f, "https://api.test", "")
	expander := NewCitationExpander(openAlex, nil, nil, logging.NewNop())

	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.test/works/W100`,
		httpmock.NewStringResponder(http.StatusOK, openAlexWorkBody))
	httpmock.RegisterResponder(http.MethodGet, `=~^https://api\.test/works\?`,
		httpmock.NewStringResponder(http.StatusOK, `{"results":[]}`))

	seeds := []Seed{
		{Title: "good seed", OpenAlexID: "W100"},
		{Title: "bad seed"},
	}
	candidates, err := expander.Expand(context.Background(), seeds)
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if candidates != nil && len(candidates) != 0 {
		t.Fatalf("expected empty batch, got %+v", candidates)
	}
}
