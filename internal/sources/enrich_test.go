package sources

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"litsieve/internal/logging"
)

func newTestClients(t *testing.T) *Clients {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewClients(Options{
		HTTPClient:             client,
		UserAgent:              "litsieve-test",
		OpenAlexBaseURL:        "https://oa.test",
		SemanticScholarBaseURL: "https://s2.test",
		CrossrefBaseURL:        "https://cr.test",
		ArxivBaseURL:           "https://arxiv.test/api",
		DBLPBaseURL:            "https://dblp.test/search",
		ACLAnthologyBaseURL:    "https://acl.test",
		Logger:                 logging.NewNop(),
	})
}

func TestEnrichFillsAbstractFromCrossref(t *testing.T) {
	clients := newTestClients(t)
	enricher := NewMetadataEnricher(clients, nil, logging.NewNop())

	httpmock.RegisterResponder(http.MethodGet, `=~^https://cr\.test/works/`,
		httpmock.NewStringResponder(http.StatusOK,
			`{"message":{"DOI":"10.5555/deep","title":["Deep Screening"],"abstract":"<jats:p>Deep learning works.</jats:p>","issued":{"date-parts":[[2021,3]]}}}`))

	out := enricher.Enrich(context.Background(), []Candidate{
		{Title: "Deep Screening", DOI: "10.5555/deep", Source: "openalex"},
	})
	if out[0].Abstract != "Deep learning works." {
		t.Fatalf("abstract = %q", out[0].Abstract)
	}
	if out[0].PublicationDate != "2021-03-01" {
		t.Fatalf("publication date = %q", out[0].PublicationDate)
	}
	if out[0].Source != "openalex" {
		t.Fatalf("source must not change, got %q", out[0].Source)
	}
}

func TestEnrichUsesACLAnthologyForACLDOIs(t *testing.T) {
	clients := newTestClients(t)
	enricher := NewMetadataEnricher(clients, nil, logging.NewNop())

	httpmock.RegisterResponder(http.MethodGet, "https://acl.test/2020.acl-main.1/",
		httpmock.NewStringResponder(http.StatusOK, `<html><head>
<meta name="citation_title" content="Neural Sequence Labeling"/>
<meta name="citation_doi" content="10.18653/v1/2020.acl-main.1"/>
<meta name="citation_publication_date" content="2020/07/05"/>
</head><body><div class="acl-abstract"><span>We label sequences.</span></div></body></html>`))

	out := enricher.Enrich(context.Background(), []Candidate{
		{Title: "Neural Sequence Labeling", DOI: "10.18653/v1/2020.acl-main.1"},
	})
	if out[0].Abstract != "We label sequences." {
		t.Fatalf("abstract = %q", out[0].Abstract)
	}
	if out[0].PublicationDate != "2020-07-05" {
		t.Fatalf("publication date = %q", out[0].PublicationDate)
	}
}

func TestEnrichResolvesArxivIDs(t *testing.T) {
	clients := newTestClients(t)
	enricher := NewMetadataEnricher(clients, nil, logging.NewNop())

	httpmock.RegisterResponder(http.MethodGet, `=~^https://arxiv\.test/api\?id_list=`,
		httpmock.NewStringResponder(http.StatusOK, `<feed xmlns="http://www.w3.org/2005/Atom">
<entry><id>http://arxiv.org/abs/2101.00001v1</id><title>Snowball Methods</title>
<summary>An abstract.</summary><published>2021-01-05T00:00:00Z</published></entry></feed>`))

	out := enricher.Enrich(context.Background(), []Candidate{
		{Title: "Snowball Methods", ArxivID: "2101.00001"},
	})
	if out[0].Abstract != "An abstract." {
		t.Fatalf("abstract = %q", out[0].Abstract)
	}
	if out[0].PublicationDate != "2021-01-05" {
		t.Fatalf("publication date = %q", out[0].PublicationDate)
	}
}

func TestEnrichResolvesBareTitlesViaArxivSearch(t *testing.T) {
	clients := newTestClients(t)
	enricher := NewMetadataEnricher(clients, nil, logging.NewNop())

	httpmock.RegisterResponder(http.MethodGet, `=~^https://arxiv\.test/api\?search_query=`,
		httpmock.NewStringResponder(http.StatusOK, `<feed xmlns="http://www.w3.org/2005/Atom">
<entry><id>http://arxiv.org/abs/1901.00010v2</id><title>Snowball Methods: A Survey</title>
<summary>Surveyed.</summary><published>2019-01-02T00:00:00Z</published></entry></feed>`))

	// Punctuation differences must not defeat the title match.
	out := enricher.Enrich(context.Background(), []Candidate{
		{Title: "Snowball methods, a survey"},
	})
	if out[0].Abstract != "Surveyed." {
		t.Fatalf("abstract = %q", out[0].Abstract)
	}
	if out[0].ArxivID != "1901.00010v2" {
		t.Fatalf("arxiv id = %q", out[0].ArxivID)
	}
}

func TestEnrichFallsBackToDBLPTitleSearch(t *testing.T) {
	clients := newTestClients(t)
	enricher := NewMetadataEnricher(clients, nil, logging.NewNop())

	httpmock.RegisterResponder(http.MethodGet, `=~^https://arxiv\.test/api\?search_query=`,
		httpmock.NewStringResponder(http.StatusOK,
			`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	httpmock.RegisterResponder(http.MethodGet, `=~^https://dblp\.test/search\?q=`,
		httpmock.NewStringResponder(http.StatusOK,
			`{"result":{"hits":{"hit":[
{"info":{"title":"A Different Paper.","doi":"10.1/other","year":"2019"}},
{"info":{"title":"Graph Screening at Scale.","doi":"10.1/scale","year":"2022"}}]}}}`))

	out := enricher.Enrich(context.Background(), []Candidate{
		{Title: "Graph Screening at Scale"},
	})
	if out[0].DOI != "10.1/scale" {
		t.Fatalf("doi = %q", out[0].DOI)
	}
	if out[0].PublicationDate != "2022-01-01" {
		t.Fatalf("publication date = %q", out[0].PublicationDate)
	}
}

func TestEnrichLeavesCompleteAndFailedCandidatesAlone(t *testing.T) {
	clients := newTestClients(t)
	enricher := NewMetadataEnricher(clients, nil, logging.NewNop())

	httpmock.RegisterResponder(http.MethodGet, `=~^https://cr\.test/works/`,
		httpmock.NewStringResponder(http.StatusNotFound, ""))

	complete := Candidate{Title: "Done", Abstract: "Has one.", DOI: "10.1/done", PublicationDate: "2020-01-01"}
	failing := Candidate{Title: "Missing", DOI: "10.1/missing"}

	out := enricher.Enrich(context.Background(), []Candidate{complete, failing})
	if out[0] != complete {
		t.Fatalf("complete candidate changed: %+v", out[0])
	}
	if out[1] != failing {
		t.Fatalf("failed lookup must leave candidate unchanged: %+v", out[1])
	}
}

func TestEnrichServesRepeatLookupsFromHarvestCache(t *testing.T) {
	clients := newTestClients(t)
	cache := newTestCache(t, time.Hour)
	enricher := NewMetadataEnricher(clients, cache, logging.NewNop())

	calls := 0
	httpmock.RegisterResponder(http.MethodGet, `=~^https://cr\.test/works/`,
		func(req *http.Request) (*http.Response, error) {
			calls++
			return httpmock.NewStringResponse(http.StatusOK,
				`{"message":{"DOI":"10.5555/deep","title":["Deep Screening"],"abstract":"<jats:p>Cached.</jats:p>"}}`), nil
		})

	first := enricher.Enrich(context.Background(), []Candidate{{Title: "Deep Screening", DOI: "10.5555/deep"}})
	if first[0].Abstract != "Cached." {
		t.Fatalf("abstract = %q", first[0].Abstract)
	}

	fresh := NewMetadataEnricher(newTestClients(t), cache, logging.NewNop())
	second := fresh.Enrich(context.Background(), []Candidate{{Title: "Deep Screening", DOI: "10.5555/deep"}})
	if second[0].Abstract != "Cached." {
		t.Fatalf("cached abstract = %q", second[0].Abstract)
	}
	if calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}
}
