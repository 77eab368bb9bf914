package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const defaultDBLPBaseURL = "https://dblp.org/search/publ/api"

// DBLP searches the DBLP publication API by keyword query.
type DBLP struct {
	baseURL string
	fetch   *fetcher
}

// NewDBLP constructs a DBLP client.
func NewDBLP(fetch *fetcher, baseURL string) *DBLP {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultDBLPBaseURL
	}
	return &DBLP{baseURL: baseURL, fetch: fetch}
}

type dblpSearchResponse struct {
	Result struct {
		Hits struct {
			Hit []struct {
				Info struct {
					Title string `json:"title"`
					DOI   string `json:"doi"`
					Year  string `json:"year"`
					EE    string `json:"ee"`
				} `json:"info"`
			} `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

// Search runs a keyword query. DBLP carries no abstracts; candidates come
// back title-and-identifier only and rely on later enrichment.
func (d *DBLP) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("dblp: query required")
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	endpoint := fmt.Sprintf("%s?q=%s&h=%d&format=json", d.baseURL, url.QueryEscape(query), limit)
	var resp dblpSearchResponse
	if err := d.fetch.getJSON(ctx, "dblp", endpoint, &resp); err != nil {
		return nil, err
	}
	hits := resp.Result.Hits.Hit
	out := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		title := strings.TrimSuffix(strings.TrimSpace(hit.Info.Title), ".")
		if title == "" {
			continue
		}
		date := ""
		if hit.Info.Year != "" {
			date = hit.Info.Year + "-01-01"
		}
		out = append(out, Candidate{
			Title:           title,
			DOI:             hit.Info.DOI,
			PublicationDate: date,
			Source:          "dblp",
		})
	}
	return out, nil
}
