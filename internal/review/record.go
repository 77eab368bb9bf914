package review

// Metadata carries the identifiers and publication date attached to a
// reviewed paper. All fields are optional; absent values stay empty.
type Metadata struct {
	DOI             string `json:"doi,omitempty"`
	OpenAlexID      string `json:"openalex_id,omitempty"`
	ArxivID         string `json:"arxiv_id,omitempty"`
	PublicationDate string `json:"publication_date,omitempty"`
}

// Paper is one screening input.
type Paper struct {
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Metadata Metadata `json:"metadata"`
}

// ReviewerOutput is a single reviewer's raw response.
type ReviewerOutput struct {
	Evaluation int    `json:"evaluation"`
	Reasoning  string `json:"reasoning"`
	// Discard flags a paper that violates an exclusion criterion outright,
	// beyond a mere low relevance score.
	Discard bool `json:"discard,omitempty"`
}

// Score returns the reviewer's score, or zero when the output is missing or
// out of the 1-5 range.
func (r *ReviewerOutput) Score() int {
	if r == nil || r.Evaluation < 1 || r.Evaluation > 5 {
		return 0
	}
	return r.Evaluation
}

// Record is the ephemeral per-paper review result for one round.
type Record struct {
	Title    string          `json:"title"`
	Abstract string          `json:"abstract"`
	JuniorA  *ReviewerOutput `json:"junior_a,omitempty"`
	JuniorB  *ReviewerOutput `json:"junior_b,omitempty"`
	Senior   *ReviewerOutput `json:"senior,omitempty"`
	Verdict  Verdict         `json:"verdict"`
	Error    string          `json:"error,omitempty"`
	Metadata Metadata        `json:"metadata"`
}

// FinalVerdict renders the audit-log verdict string.
func (r Record) FinalVerdict() string {
	return r.Verdict.String()
}
