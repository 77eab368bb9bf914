package workspace

import (
	"errors"
	"io/fs"

	"litsieve/internal/review"
	"litsieve/internal/services"
)

// LoadBaseReview reads the round-zero review artifact. The pipeline cannot
// start without it, so a missing or malformed file is fatal.
func (w *Workspace) LoadBaseReview() ([]review.Record, error) {
	var records []review.Record
	if err := ReadJSON(w.BaseReviewPath(), &records); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrFatal, "workspace", "load base review",
				"base review artifact missing at "+w.BaseReviewPath(), err)
		}
		return nil, services.Wrap(services.ErrFatal, "workspace", "load base review",
			"base review artifact unreadable", err)
	}
	return records, nil
}

// SaveRoundRecords persists the full review output for one round so verdicts
// stay auditable after statuses collapse into the registry.
func (w *Workspace) SaveRoundRecords(round int, records []review.Record) error {
	return WriteJSON(w.RoundRecordsPath(round), records)
}
