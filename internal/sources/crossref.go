package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const defaultCrossrefBaseURL = "https://api.crossref.org"

// Crossref enriches candidates that carry only a DOI with title, abstract,
// and publication date.
type Crossref struct {
	baseURL string
	fetch   *fetcher
}

// NewCrossref constructs a Crossref client.
func NewCrossref(fetch *fetcher, baseURL string) *Crossref {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultCrossrefBaseURL
	}
	return &Crossref{baseURL: baseURL, fetch: fetch}
}

type crossrefWorkResponse struct {
	Message struct {
		DOI      string   `json:"DOI"`
		Title    []string `json:"title"`
		Abstract string   `json:"abstract"`
		Issued   struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"issued"`
	} `json:"message"`
}

// WorkByDOI fetches metadata for one DOI.
func (c *Crossref) WorkByDOI(ctx context.Context, doi string) (Candidate, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return Candidate{}, fmt.Errorf("crossref: doi required")
	}
	endpoint := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(doi))
	var resp crossrefWorkResponse
	if err := c.fetch.getJSON(ctx, "crossref", endpoint, &resp); err != nil {
		return Candidate{}, err
	}
	title := ""
	if len(resp.Message.Title) > 0 {
		title = strings.TrimSpace(resp.Message.Title[0])
	}
	return Candidate{
		Title:           title,
		Abstract:        stripJATSMarkup(resp.Message.Abstract),
		DOI:             resp.Message.DOI,
		PublicationDate: crossrefIssuedDate(resp.Message.Issued.DateParts),
		Source:          "crossref",
	}, nil
}

// crossrefIssuedDate renders date-parts as an ISO date, padding missing
// month/day components.
func crossrefIssuedDate(parts [][]int) string {
	if len(parts) == 0 || len(parts[0]) == 0 {
		return ""
	}
	ymd := parts[0]
	year := ymd[0]
	month, day := 1, 1
	if len(ymd) > 1 {
		month = ymd[1]
	}
	if len(ymd) > 2 {
		day = ymd[2]
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// stripJATSMarkup removes the JATS XML tags Crossref embeds in abstracts.
func stripJATSMarkup(abstract string) string {
	abstract = strings.TrimSpace(abstract)
	if abstract == "" {
		return ""
	}
	var b strings.Builder
	inTag := false
	for _, r := range abstract {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
