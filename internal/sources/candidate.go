package sources

import (
	"context"
	"strings"

	"litsieve/internal/identity"
)

// Candidate is one raw paper record produced by an expansion source. Fields
// beyond Title are optional and default to empty; nothing here is normalized
// yet.
type Candidate struct {
	Title           string `json:"title"`
	Abstract        string `json:"abstract"`
	DOI             string `json:"doi,omitempty"`
	OpenAlexID      string `json:"openalex_id,omitempty"`
	ArxivID         string `json:"arxiv_id,omitempty"`
	PublicationDate string `json:"publication_date,omitempty"`
	Source          string `json:"source,omitempty"`
}

// Fields exposes the candidate's identifier fields for key building.
func (c Candidate) Fields() identity.Fields {
	return identity.Fields{
		OpenAlexID: c.OpenAlexID,
		DOI:        c.DOI,
		ArxivID:    c.ArxivID,
		Title:      c.Title,
	}
}

// Usable reports whether the candidate can produce at least one match key.
func (c Candidate) Usable() bool {
	return len(identity.Candidates(c.Fields())) > 0
}

// Seed identifies a paper whose citation neighborhood should be explored.
type Seed struct {
	Title      string
	DOI        string
	OpenAlexID string
	ArxivID    string
}

// Expander produces the raw candidate batch for a set of seeds. An empty
// result with a nil error is a legitimate outcome.
type Expander interface {
	Expand(ctx context.Context, seeds []Seed) ([]Candidate, error)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
