package snowball

import (
	"time"

	"litsieve/internal/identity"
)

// RoundMetadata is the persisted per-round accounting document. One is
// written for every executed round, even when nothing survived screening, so
// an operator can tell "ran and found nothing" from "never ran".
type RoundMetadata struct {
	Round        int    `json:"round"`
	RunID        string `json:"run_id,omitempty"`
	CriteriaHash string `json:"criteria_hash"`

	SeedCount     int            `json:"seed_count"`
	RawCount      int            `json:"raw_count"`
	FilteredCount int            `json:"filtered_count"`
	DedupRemoved  map[string]int `json:"dedup_removed,omitempty"`
	ForReview     int            `json:"for_review"`

	Outcomes           map[string]int `json:"outcomes,omitempty"`
	CumulativeIncluded int            `json:"cumulative_included"`
	TopTerms           []string       `json:"top_terms,omitempty"`

	ExpandError string `json:"expand_error,omitempty"`
	StopReason  string `json:"stop_reason,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

func newRoundMetadata(round int, runID, criteriaHash string) *RoundMetadata {
	return &RoundMetadata{
		Round:        round,
		RunID:        runID,
		CriteriaHash: criteriaHash,
		DedupRemoved: make(map[string]int),
		Outcomes:     make(map[string]int),
		StartedAt:    time.Now().UTC(),
	}
}

func (m *RoundMetadata) recordRemovals(removed map[identity.KeyType]int) {
	for kt, n := range removed {
		m.DedupRemoved[string(kt)] += n
	}
}

// RemovedTotal sums dedup removals across key types.
func (m *RoundMetadata) RemovedTotal() int {
	total := 0
	for _, n := range m.DedupRemoved {
		total += n
	}
	return total
}
