package registry

import (
	"strings"
	"time"

	"litsieve/internal/identity"
)

// Status is the screening outcome currently recorded for an entry.
type Status string

const (
	StatusInclude         Status = "include"
	StatusExclude         Status = "exclude"
	StatusHardExclude     Status = "hard_exclude"
	StatusNeedsEnrichment Status = "needs_enrichment"
	StatusTempDiscard     Status = "temp_discard"
	StatusError           Status = "error"
)

var allStatuses = []Status{
	StatusInclude,
	StatusExclude,
	StatusHardExclude,
	StatusNeedsEnrichment,
	StatusTempDiscard,
	StatusError,
}

// statusPriority orders statuses for merge conflicts. An incoming status only
// replaces the stored one when it ranks strictly higher.
var statusPriority = map[Status]int{
	StatusInclude:         3,
	StatusExclude:         2,
	StatusHardExclude:     1,
	StatusNeedsEnrichment: 0,
	StatusTempDiscard:     -1,
	StatusError:           -2,
}

// finalStatuses are the outcomes that make an entry count as already screened
// for dedup purposes. Enrichment, discard, and error entries stay eligible
// for re-review.
var finalStatuses = map[Status]struct{}{
	StatusInclude:     {},
	StatusExclude:     {},
	StatusHardExclude: {},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusPriority[normalized]
	return normalized, ok
}

// Priority returns the merge rank of a status. Unknown statuses rank below
// every known one so they never displace recorded state.
func Priority(s Status) int {
	if p, ok := statusPriority[s]; ok {
		return p
	}
	return -3
}

// IsFinal reports whether a status ends an entry's screening lifecycle.
func (s Status) IsFinal() bool {
	_, ok := finalStatuses[s]
	return ok
}

// Entry is one persisted paper record.
type Entry struct {
	Status          Status    `json:"status"`
	Title           string    `json:"title,omitempty"`
	NormalizedTitle string    `json:"normalized_title,omitempty"`
	DOI             string    `json:"doi,omitempty"`
	OpenAlexID      string    `json:"openalex_id,omitempty"`
	ArxivID         string    `json:"arxiv_id,omitempty"`
	CriteriaHash    string    `json:"criteria_hash,omitempty"`
	Source          string    `json:"source,omitempty"`
	Round           int       `json:"round,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Keys returns the entry's ordered match-key candidates.
func (e *Entry) Keys() []identity.Key {
	return identity.Candidates(identity.Fields{
		OpenAlexID:      e.OpenAlexID,
		DOI:             e.DOI,
		ArxivID:         e.ArxivID,
		Title:           e.Title,
		NormalizedTitle: e.NormalizedTitle,
	})
}

// Outcome reports what an upsert did with a record.
type Outcome string

const (
	OutcomeAdded   Outcome = "added"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
)
