package review_test

import (
	"testing"

	"litsieve/internal/registry"
	"litsieve/internal/review"
)

func TestNeedsSenior(t *testing.T) {
	cases := []struct {
		name   string
		a, b   int
		expect bool
	}{
		{"both high agree", 5, 5, false},
		{"both four", 4, 4, false},
		{"high pair differing", 4, 5, false},
		{"disagreement zone", 2, 4, true},
		{"one uncertain", 3, 5, true},
		{"mutual uncertainty", 3, 3, true},
		{"both low agree", 1, 1, false},
		{"both low differing", 1, 2, false},
		{"equal twos", 2, 2, false},
		{"equal fives", 5, 5, false},
		{"missing first", 0, 4, false},
		{"missing second", 3, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := review.NeedsSenior(tc.a, tc.b); got != tc.expect {
				t.Fatalf("NeedsSenior(%d,%d) = %v, want %v", tc.a, tc.b, got, tc.expect)
			}
		})
	}
}

func TestDeriveSeniorOverrides(t *testing.T) {
	v := review.Derive(4, 2, 4)
	if v.Decision != review.DecisionInclude || v.Source != review.SourceSenior || v.Score != 4 {
		t.Fatalf("unexpected verdict: %#v", v)
	}
	if v.String() != "include (senior:4)" {
		t.Fatalf("audit render = %q", v.String())
	}

	v = review.Derive(2, 3, 3)
	if v.Decision != review.DecisionExclude || v.String() != "exclude (senior:2)" {
		t.Fatalf("unexpected verdict: %#v", v)
	}
}

func TestDeriveJuniorAverage(t *testing.T) {
	cases := []struct {
		name     string
		scores   []int
		decision review.Decision
		score    int
	}{
		{"fives include", []int{5, 5}, review.DecisionInclude, 5},
		{"low pair excludes", []int{1, 2}, review.DecisionExclude, 2},
		{"half rounds up", []int{3, 4}, review.DecisionInclude, 4},
		{"middle is maybe", []int{3, 3}, review.DecisionMaybe, 3},
		{"single score", []int{4, 0}, review.DecisionInclude, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := review.Derive(0, tc.scores...)
			if v.Source != review.SourceJunior {
				t.Fatalf("source = %s, want junior", v.Source)
			}
			if v.Decision != tc.decision || v.Score != tc.score {
				t.Fatalf("verdict = %#v, want %s score %d", v, tc.decision, tc.score)
			}
		})
	}
}

func TestDeriveNoScores(t *testing.T) {
	v := review.Derive(0)
	if v.Decision != review.DecisionNoScore || v.Source != review.SourceNone {
		t.Fatalf("unexpected verdict: %#v", v)
	}
	if v.String() != "no_score" {
		t.Fatalf("audit render = %q", v.String())
	}
}

func TestVerdictStatusMapping(t *testing.T) {
	cases := []struct {
		decision review.Decision
		status   registry.Status
	}{
		{review.DecisionInclude, registry.StatusInclude},
		{review.DecisionExclude, registry.StatusExclude},
		{review.DecisionMaybe, registry.StatusNeedsEnrichment},
		{review.DecisionDiscard, registry.StatusHardExclude},
		{review.DecisionNoScore, registry.StatusError},
	}
	for _, tc := range cases {
		v := review.Verdict{Decision: tc.decision}
		if got := v.Status(); got != tc.status {
			t.Fatalf("Status(%s) = %s, want %s", tc.decision, got, tc.status)
		}
	}
}
