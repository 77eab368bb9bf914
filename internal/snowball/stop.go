package snowball

import "fmt"

// StopMode names the stop-condition strategy for a run.
type StopMode string

const (
	// StopModeRounds ends the run after a fixed number of rounds.
	StopModeRounds StopMode = "rounds"
	// StopModeThreshold ends the run when cumulative candidate or include
	// counts cross configured ceilings.
	StopModeThreshold StopMode = "threshold"
)

// StopPolicy decides when the round loop ends. The empty-seed condition
// terminates a run in every mode and is handled by the orchestrator before
// the policy is consulted.
type StopPolicy struct {
	Mode             StopMode
	MaxRounds        int
	MaxRawCandidates int
	MaxIncluded      int
}

// DefaultStopPolicy runs three rounds.
func DefaultStopPolicy() StopPolicy {
	return StopPolicy{Mode: StopModeRounds, MaxRounds: 3}
}

// ShouldStop evaluates the policy after a completed round. The returned
// reason is human-readable and lands in the round metadata.
func (p StopPolicy) ShouldStop(round, rawTotal, cumulativeIncluded int) (bool, string) {
	switch p.Mode {
	case StopModeThreshold:
		if p.MaxRawCandidates > 0 && rawTotal >= p.MaxRawCandidates {
			return true, fmt.Sprintf("raw candidate total %d reached ceiling %d", rawTotal, p.MaxRawCandidates)
		}
		if p.MaxIncluded > 0 && cumulativeIncluded >= p.MaxIncluded {
			return true, fmt.Sprintf("cumulative includes %d reached ceiling %d", cumulativeIncluded, p.MaxIncluded)
		}
		return false, ""
	default:
		if p.MaxRounds > 0 && round >= p.MaxRounds {
			return true, fmt.Sprintf("completed configured %d rounds", p.MaxRounds)
		}
		return false, ""
	}
}
