package snowball

import (
	"strings"

	"litsieve/internal/sources"
)

// DateWindow bounds candidate publication dates, inclusive on both ends.
// Bounds are ISO dates (YYYY-MM-DD) or prefixes thereof; an empty bound is
// open. Candidates without a publication date always pass: an unknown date is
// not evidence the paper is out of range.
type DateWindow struct {
	From string
	To   string
}

// IsZero reports whether the window has no bounds.
func (w DateWindow) IsZero() bool {
	return w.From == "" && w.To == ""
}

// Allows reports whether a publication date falls inside the window. ISO
// dates compare correctly as strings, so prefixes like "2021" behave as the
// start of that period.
func (w DateWindow) Allows(date string) bool {
	date = strings.TrimSpace(date)
	if date == "" {
		return true
	}
	if w.From != "" && expandToStart(date) < w.From {
		return false
	}
	if w.To != "" && truncateToBound(date, w.To) > w.To {
		return false
	}
	return true
}

// expandToStart completes a date prefix to the first day of its period, so
// "2020" sits inside From="2020-01-01" rather than before it.
func expandToStart(date string) string {
	switch len(date) {
	case 4:
		return date + "-01-01"
	case 7:
		return date + "-01"
	}
	return date
}

// truncateToBound compares at the bound's precision, so To="2023" admits any
// date within 2023.
func truncateToBound(date, bound string) string {
	if len(date) > len(bound) {
		return date[:len(bound)]
	}
	return date
}

func filterByWindow(batch []sources.Candidate, window DateWindow) []sources.Candidate {
	if window.IsZero() {
		return batch
	}
	kept := batch[:0:0]
	for _, candidate := range batch {
		if window.Allows(candidate.PublicationDate) {
			kept = append(kept, candidate)
		}
	}
	return kept
}
