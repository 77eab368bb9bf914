package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"litsieve/internal/services"
)

const defaultArxivBaseURL = "https://export.arxiv.org/api/query"

// Arxiv searches the arXiv Atom API by keyword query or ID list.
type Arxiv struct {
	baseURL string
	fetch   *fetcher
}

// NewArxiv constructs an arXiv client.
func NewArxiv(fetch *fetcher, baseURL string) *Arxiv {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultArxivBaseURL
	}
	return &Arxiv{baseURL: baseURL, fetch: fetch}
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	DOI       string `xml:"doi"`
}

// Search runs a keyword query against arXiv.
func (a *Arxiv) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("arxiv: query required")
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	endpoint := fmt.Sprintf("%s?search_query=%s&max_results=%d",
		a.baseURL, url.QueryEscape("all:"+query), limit)
	return a.feed(ctx, endpoint)
}

// ByIDs resolves a list of arXiv IDs.
func (a *Arxiv) ByIDs(ctx context.Context, ids []string) ([]Candidate, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	endpoint := fmt.Sprintf("%s?id_list=%s&max_results=%d",
		a.baseURL, url.QueryEscape(strings.Join(cleaned, ",")), len(cleaned))
	return a.feed(ctx, endpoint)
}

func (a *Arxiv) feed(ctx context.Context, endpoint string) ([]Candidate, error) {
	body, err := a.fetch.get(ctx, "arxiv", endpoint)
	if err != nil {
		return nil, err
	}
	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, services.Wrap(services.ErrValidation, "arxiv", "decode feed", endpoint, err)
	}
	out := make([]Candidate, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		title := collapseWhitespace(entry.Title)
		if title == "" {
			continue
		}
		out = append(out, Candidate{
			Title:           title,
			Abstract:        collapseWhitespace(entry.Summary),
			DOI:             entry.DOI,
			ArxivID:         arxivIDFromEntryURL(entry.ID),
			PublicationDate: datePart(entry.Published),
			Source:          "arxiv",
		})
	}
	return out, nil
}

// arxivIDFromEntryURL extracts "2106.04560v2" from
// "http://arxiv.org/abs/2106.04560v2".
func arxivIDFromEntryURL(entryURL string) string {
	entryURL = strings.TrimSpace(entryURL)
	if idx := strings.Index(entryURL, "/abs/"); idx >= 0 {
		return entryURL[idx+len("/abs/"):]
	}
	return entryURL
}

func datePart(timestamp string) string {
	if len(timestamp) >= 10 {
		return timestamp[:10]
	}
	return timestamp
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
