package sources

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const defaultOpenAlexBaseURL = "https://api.openalex.org"

// OpenAlex queries the OpenAlex works API for metadata and citation links.
type OpenAlex struct {
	baseURL string
	mailto  string
	fetch   *fetcher
}

// NewOpenAlex constructs an OpenAlex client. mailto joins the polite pool
// when set.
func NewOpenAlex(fetch *fetcher, baseURL, mailto string) *OpenAlex {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultOpenAlexBaseURL
	}
	return &OpenAlex{baseURL: baseURL, mailto: strings.TrimSpace(mailto), fetch: fetch}
}

type openAlexWork struct {
	ID              string `json:"id"`
	DOI             string `json:"doi"`
	Title           string `json:"title"`
	PublicationDate string `json:"publication_date"`
	IDs             struct {
		OpenAlex string `json:"openalex"`
		DOI      string `json:"doi"`
		Arxiv    string `json:"arxiv"` // rarely populated; locations carry it more often
	} `json:"ids"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	ReferencedWorks       []string         `json:"referenced_works"`
}

type openAlexListResponse struct {
	Results []openAlexWork `json:"results"`
	Meta    struct {
		Count   int    `json:"count"`
		Page    int    `json:"page"`
		PerPage int    `json:"per_page"`
		Cursor  string `json:"next_cursor"`
	} `json:"meta"`
}

// WorkByID fetches a single work by OpenAlex ID or DOI URL form.
func (o *OpenAlex) WorkByID(ctx context.Context, id string) (Candidate, []string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Candidate{}, nil, fmt.Errorf("openalex: work id required")
	}
	var work openAlexWork
	endpoint := fmt.Sprintf("%s/works/%s%s", o.baseURL, url.PathEscape(id), o.mailtoQuery("?"))
	if err := o.fetch.getJSON(ctx, "openalex", endpoint, &work); err != nil {
		return Candidate{}, nil, err
	}
	return o.candidate(work), work.ReferencedWorks, nil
}

// CitedBy lists works citing the given OpenAlex ID (forward snowballing).
func (o *OpenAlex) CitedBy(ctx context.Context, openAlexID string, limit int) ([]Candidate, error) {
	openAlexID = shortOpenAlexID(openAlexID)
	if openAlexID == "" {
		return nil, fmt.Errorf("openalex: work id required")
	}
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	endpoint := fmt.Sprintf("%s/works?filter=cites:%s&per-page=%d%s",
		o.baseURL, url.QueryEscape(openAlexID), limit, o.mailtoQuery("&"))
	var list openAlexListResponse
	if err := o.fetch.getJSON(ctx, "openalex", endpoint, &list); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(list.Results))
	for _, work := range list.Results {
		out = append(out, o.candidate(work))
	}
	return out, nil
}

// WorksByIDs resolves a batch of OpenAlex IDs (backward snowballing of
// referenced_works). OpenAlex accepts up to 50 IDs per filter call.
func (o *OpenAlex) WorksByIDs(ctx context.Context, ids []string) ([]Candidate, error) {
	short := make([]string, 0, len(ids))
	for _, id := range ids {
		if s := shortOpenAlexID(id); s != "" {
			short = append(short, s)
		}
	}
	if len(short) == 0 {
		return nil, nil
	}
	var out []Candidate
	const batchSize = 50
	for start := 0; start < len(short); start += batchSize {
		end := start + batchSize
		if end > len(short) {
			end = len(short)
		}
		endpoint := fmt.Sprintf("%s/works?filter=openalex_id:%s&per-page=%d%s",
			o.baseURL, url.QueryEscape(strings.Join(short[start:end], "|")), batchSize, o.mailtoQuery("&"))
		var list openAlexListResponse
		if err := o.fetch.getJSON(ctx, "openalex", endpoint, &list); err != nil {
			return out, err
		}
		for _, work := range list.Results {
			out = append(out, o.candidate(work))
		}
	}
	return out, nil
}

func (o *OpenAlex) candidate(work openAlexWork) Candidate {
	return Candidate{
		Title:           strings.TrimSpace(work.Title),
		Abstract:        reconstructAbstract(work.AbstractInvertedIndex),
		DOI:             firstNonEmpty(work.IDs.DOI, work.DOI),
		OpenAlexID:      shortOpenAlexID(firstNonEmpty(work.IDs.OpenAlex, work.ID)),
		ArxivID:         work.IDs.Arxiv,
		PublicationDate: work.PublicationDate,
		Source:          "openalex",
	}
}

func (o *OpenAlex) mailtoQuery(sep string) string {
	if o.mailto == "" {
		return ""
	}
	return sep + "mailto=" + url.QueryEscape(o.mailto)
}

// shortOpenAlexID strips the https://openalex.org/ prefix from a work ID.
func shortOpenAlexID(id string) string {
	id = strings.TrimSpace(id)
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	return id
}

// reconstructAbstract rebuilds plain text from OpenAlex's inverted index
// representation.
func reconstructAbstract(inverted map[string][]int) string {
	if len(inverted) == 0 {
		return ""
	}
	type positioned struct {
		pos  int
		word string
	}
	words := make([]positioned, 0, len(inverted)*2)
	for word, positions := range inverted {
		for _, pos := range positions {
			words = append(words, positioned{pos: pos, word: word})
		}
	}
	sort.Slice(words, func(i, j int) bool { return words[i].pos < words[j].pos })
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.word
	}
	return strings.Join(parts, " ")
}
