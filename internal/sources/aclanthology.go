package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"litsieve/internal/services"
)

const defaultACLBaseURL = "https://aclanthology.org"

// ACLAnthology scrapes paper pages from the ACL Anthology, which exposes
// metadata only as HTML meta tags.
type ACLAnthology struct {
	baseURL string
	fetch   *fetcher
}

// NewACLAnthology constructs an ACL Anthology client.
func NewACLAnthology(fetch *fetcher, baseURL string) *ACLAnthology {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultACLBaseURL
	}
	return &ACLAnthology{baseURL: baseURL, fetch: fetch}
}

// Paper fetches one paper page by anthology ID (e.g. "2020.acl-main.1") and
// extracts its citation metadata.
func (a *ACLAnthology) Paper(ctx context.Context, anthologyID string) (Candidate, error) {
	anthologyID = strings.TrimSpace(anthologyID)
	if anthologyID == "" {
		return Candidate{}, fmt.Errorf("aclanthology: paper id required")
	}
	endpoint := fmt.Sprintf("%s/%s/", a.baseURL, anthologyID)
	body, err := a.fetch.get(ctx, "aclanthology", endpoint)
	if err != nil {
		return Candidate{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Candidate{}, services.Wrap(services.ErrValidation, "aclanthology", "parse page", endpoint, err)
	}

	meta := func(name string) string {
		value, _ := doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).Attr("content")
		return strings.TrimSpace(value)
	}
	title := meta("citation_title")
	if title == "" {
		return Candidate{}, services.Wrap(services.ErrNotFound, "aclanthology", "parse page", "no citation_title meta tag", nil)
	}
	return Candidate{
		Title:           title,
		Abstract:        strings.TrimSpace(doc.Find("div.acl-abstract span").First().Text()),
		DOI:             meta("citation_doi"),
		PublicationDate: strings.ReplaceAll(meta("citation_publication_date"), "/", "-"),
		Source:          "aclanthology",
	}, nil
}
