package review

import (
	"fmt"
	"math"

	"litsieve/internal/registry"
)

// Decision is the categorical screening outcome for one paper.
type Decision string

const (
	DecisionInclude Decision = "include"
	DecisionExclude Decision = "exclude"
	DecisionMaybe   Decision = "maybe"
	DecisionDiscard Decision = "discard"
	DecisionNoScore Decision = "no_score"
)

// Source names the reviewer tier whose score decided the verdict.
type Source string

const (
	SourceJunior Source = "junior"
	SourceSenior Source = "senior"
	SourceNone   Source = "none"
)

// Verdict is the structured screening result. Score is the deciding value on
// the 1-5 scale; zero when no reviewer produced a usable score.
type Verdict struct {
	Decision Decision `json:"decision"`
	Source   Source   `json:"source"`
	Score    int      `json:"score"`
}

// String renders the audit-log form, e.g. "include (senior:4)".
func (v Verdict) String() string {
	if v.Decision == DecisionNoScore {
		return string(DecisionNoScore)
	}
	return fmt.Sprintf("%s (%s:%d)", v.Decision, v.Source, v.Score)
}

// Status maps a verdict onto the registry status it persists as.
func (v Verdict) Status() registry.Status {
	switch v.Decision {
	case DecisionInclude:
		return registry.StatusInclude
	case DecisionExclude:
		return registry.StatusExclude
	case DecisionMaybe:
		return registry.StatusNeedsEnrichment
	case DecisionDiscard:
		return registry.StatusHardExclude
	default:
		return registry.StatusError
	}
}

// NeedsSenior decides whether two junior scores require senior escalation.
// A missing score (zero) never escalates. Differing scores escalate when
// either sits in the uncertainty zone (>=3), except when both are >=4: that
// is agreement on inclusion even without an exact match, and short-circuits
// escalation. Equal scores escalate only on mutual uncertainty (both 3).
func NeedsSenior(scoreA, scoreB int) bool {
	if scoreA == 0 || scoreB == 0 {
		return false
	}
	if scoreA != scoreB {
		if scoreA >= 4 && scoreB >= 4 {
			return false
		}
		return scoreA >= 3 || scoreB >= 3
	}
	return scoreA == 3
}

// Derive computes the final verdict. A senior score (non-zero) always
// decides; otherwise the available junior scores are averaged with half
// rounding away from zero. No scores at all yields the explicit no_score
// sentinel.
func Derive(seniorScore int, juniorScores ...int) Verdict {
	if seniorScore != 0 {
		return verdictFromScore(seniorScore, SourceSenior)
	}
	sum, count := 0, 0
	for _, score := range juniorScores {
		if score == 0 {
			continue
		}
		sum += score
		count++
	}
	if count == 0 {
		return Verdict{Decision: DecisionNoScore, Source: SourceNone}
	}
	rounded := int(math.Round(float64(sum) / float64(count)))
	return verdictFromScore(rounded, SourceJunior)
}

func verdictFromScore(score int, source Source) Verdict {
	v := Verdict{Source: source, Score: score}
	switch {
	case score >= 4:
		v.Decision = DecisionInclude
	case score <= 2:
		v.Decision = DecisionExclude
	default:
		v.Decision = DecisionMaybe
	}
	return v
}
