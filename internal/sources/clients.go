package sources

import (
	"log/slog"
	"net/http"
)

// Options configures the shared HTTP path and per-API endpoints for a client
// set. Empty base URLs fall back to the public endpoints.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	// Mailto joins the OpenAlex polite pool when set.
	Mailto string

	OpenAlexBaseURL        string
	SemanticScholarBaseURL string
	CrossrefBaseURL        string
	ArxivBaseURL           string
	DBLPBaseURL            string
	ACLAnthologyBaseURL    string

	Logger *slog.Logger
}

// Clients bundles one instance of every bibliographic API client, all sharing
// one fetcher (retry policy, user agent, in-process memo).
type Clients struct {
	OpenAlex        *OpenAlex
	SemanticScholar *SemanticScholar
	Crossref        *Crossref
	Arxiv           *Arxiv
	DBLP            *DBLP
	ACLAnthology    *ACLAnthology
}

// NewClients builds the full client set.
func NewClients(opts Options) *Clients {
	fetch := newFetcher(opts.HTTPClient, opts.UserAgent, opts.Logger)
	return &Clients{
		OpenAlex:        NewOpenAlex(fetch, opts.OpenAlexBaseURL, opts.Mailto),
		SemanticScholar: NewSemanticScholar(fetch, opts.SemanticScholarBaseURL),
		Crossref:        NewCrossref(fetch, opts.CrossrefBaseURL),
		Arxiv:           NewArxiv(fetch, opts.ArxivBaseURL),
		DBLP:            NewDBLP(fetch, opts.DBLPBaseURL),
		ACLAnthology:    NewACLAnthology(fetch, opts.ACLAnthologyBaseURL),
	}
}
