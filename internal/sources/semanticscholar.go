package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const defaultSemanticScholarBaseURL = "https://api.semanticscholar.org/graph/v1"

const s2PaperFields = "title,abstract,externalIds,publicationDate"

// SemanticScholar queries the Semantic Scholar graph API for citation links.
type SemanticScholar struct {
	baseURL string
	fetch   *fetcher
}

// NewSemanticScholar constructs a Semantic Scholar client.
func NewSemanticScholar(fetch *fetcher, baseURL string) *SemanticScholar {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultSemanticScholarBaseURL
	}
	return &SemanticScholar{baseURL: baseURL, fetch: fetch}
}

type s2Paper struct {
	Title           string `json:"title"`
	Abstract        string `json:"abstract"`
	PublicationDate string `json:"publicationDate"`
	ExternalIDs     struct {
		DOI   string `json:"DOI"`
		Arxiv string `json:"ArXiv"`
	} `json:"externalIds"`
}

type s2LinkedPapersResponse struct {
	Data []struct {
		CitingPaper *s2Paper `json:"citingPaper"`
		CitedPaper  *s2Paper `json:"citedPaper"`
	} `json:"data"`
}

// Citations lists papers citing the given paper (forward snowballing).
// paperID accepts S2 native IDs, "DOI:...", or "ARXIV:..." forms.
func (s *SemanticScholar) Citations(ctx context.Context, paperID string, limit int) ([]Candidate, error) {
	return s.linked(ctx, paperID, "citations", limit)
}

// References lists papers the given paper cites (backward snowballing).
func (s *SemanticScholar) References(ctx context.Context, paperID string, limit int) ([]Candidate, error) {
	return s.linked(ctx, paperID, "references", limit)
}

func (s *SemanticScholar) linked(ctx context.Context, paperID, relation string, limit int) ([]Candidate, error) {
	paperID = strings.TrimSpace(paperID)
	if paperID == "" {
		return nil, fmt.Errorf("semanticscholar: paper id required")
	}
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	endpoint := fmt.Sprintf("%s/paper/%s/%s?fields=%s&limit=%d",
		s.baseURL, url.PathEscape(paperID), relation, url.QueryEscape(s2PaperFields), limit)
	var resp s2LinkedPapersResponse
	if err := s.fetch.getJSON(ctx, "semanticscholar", endpoint, &resp); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.Data))
	for _, link := range resp.Data {
		paper := link.CitingPaper
		if relation == "references" {
			paper = link.CitedPaper
		}
		if paper == nil || strings.TrimSpace(paper.Title) == "" {
			continue
		}
		out = append(out, Candidate{
			Title:           strings.TrimSpace(paper.Title),
			Abstract:        paper.Abstract,
			DOI:             paper.ExternalIDs.DOI,
			ArxivID:         paper.ExternalIDs.Arxiv,
			PublicationDate: paper.PublicationDate,
			Source:          "semanticscholar",
		})
	}
	return out, nil
}
