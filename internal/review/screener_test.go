package review_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"litsieve/internal/criteria"
	"litsieve/internal/review"
)

// scriptedReviewer returns canned responses per paper title, tracking how
// many senior escalations happened.
type scriptedReviewer struct {
	mu          sync.Mutex
	junior      map[string][]string
	senior      map[string]string
	seniorCalls int
	failTitles  map[string]error
}

func (f *scriptedReviewer) CompleteJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	title := ""
	for t := range f.junior {
		if strings.Contains(userPrompt, t) {
			title = t
			break
		}
	}
	if title == "" {
		for t := range f.failTitles {
			if strings.Contains(userPrompt, t) {
				title = t
				break
			}
		}
	}
	if err, ok := f.failTitles[title]; ok {
		return "", err
	}
	if strings.Contains(systemPrompt, "senior reviewer") {
		f.seniorCalls++
		return f.senior[title], nil
	}
	queue := f.junior[title]
	if len(queue) == 0 {
		return "", fmt.Errorf("no scripted junior response for %q", title)
	}
	resp := queue[0]
	f.junior[title] = queue[1:]
	return resp, nil
}

func scoreJSON(score int) string {
	return fmt.Sprintf(`{"evaluation": %d, "reasoning": "scripted"}`, score)
}

func testCriteria() criteria.Document {
	return criteria.Document{
		Inclusion: []string{"studies about automated screening"},
		Exclusion: []string{"non-English publications"},
	}
}

func TestScreenBatchNoEscalationOnAgreement(t *testing.T) {
	fake := &scriptedReviewer{junior: map[string][]string{
		"Paper Agree": {scoreJSON(5), scoreJSON(5)},
	}}
	s := review.NewScreener(fake, testCriteria(), nil)
	records := s.ScreenBatch(context.Background(), []review.Paper{{Title: "Paper Agree"}})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if fake.seniorCalls != 0 {
		t.Fatalf("expected no senior escalation, got %d", fake.seniorCalls)
	}
	if got := records[0].FinalVerdict(); got != "include (junior:5)" {
		t.Fatalf("verdict = %q", got)
	}
}

func TestScreenBatchEscalatesDisagreement(t *testing.T) {
	fake := &scriptedReviewer{
		junior: map[string][]string{"Paper Split": {scoreJSON(2), scoreJSON(4)}},
		senior: map[string]string{"Paper Split": scoreJSON(4)},
	}
	s := review.NewScreener(fake, testCriteria(), nil)
	records := s.ScreenBatch(context.Background(), []review.Paper{{Title: "Paper Split"}})
	if fake.seniorCalls != 1 {
		t.Fatalf("expected senior escalation, got %d calls", fake.seniorCalls)
	}
	if got := records[0].FinalVerdict(); got != "include (senior:4)" {
		t.Fatalf("verdict = %q", got)
	}
}

func TestScreenBatchMutualUncertainty(t *testing.T) {
	fake := &scriptedReviewer{
		junior: map[string][]string{"Paper Unsure": {scoreJSON(3), scoreJSON(3)}},
		senior: map[string]string{"Paper Unsure": scoreJSON(2)},
	}
	s := review.NewScreener(fake, testCriteria(), nil)
	records := s.ScreenBatch(context.Background(), []review.Paper{{Title: "Paper Unsure"}})
	if got := records[0].FinalVerdict(); got != "exclude (senior:2)" {
		t.Fatalf("verdict = %q", got)
	}
}

func TestScreenBatchLowAgreementAverages(t *testing.T) {
	fake := &scriptedReviewer{junior: map[string][]string{
		"Paper Low": {scoreJSON(1), scoreJSON(2)},
	}}
	s := review.NewScreener(fake, testCriteria(), nil)
	records := s.ScreenBatch(context.Background(), []review.Paper{{Title: "Paper Low"}})
	if fake.seniorCalls != 0 {
		t.Fatal("low disagreement must not escalate")
	}
	if got := records[0].FinalVerdict(); got != "exclude (junior:2)" {
		t.Fatalf("verdict = %q", got)
	}
}

func TestScreenBatchIsolatesFailures(t *testing.T) {
	fake := &scriptedReviewer{
		junior:     map[string][]string{"Paper Good": {scoreJSON(5), scoreJSON(5)}},
		failTitles: map[string]error{"Paper Bad": errors.New("upstream exploded")},
	}
	s := review.NewScreener(fake, testCriteria(), nil)
	records := s.ScreenBatch(context.Background(), []review.Paper{
		{Title: "Paper Bad"},
		{Title: "Paper Good"},
	})
	if records[0].Error == "" {
		t.Fatal("expected error recorded for failing paper")
	}
	if records[0].Verdict.Decision != review.DecisionNoScore {
		t.Fatalf("failed paper verdict = %#v", records[0].Verdict)
	}
	if records[1].FinalVerdict() != "include (junior:5)" {
		t.Fatalf("sibling paper affected: %q", records[1].FinalVerdict())
	}
}

func TestScreenBatchDiscardNeedsBothJuniors(t *testing.T) {
	discard := `{"evaluation": 1, "reasoning": "wrong language", "discard": true}`
	fake := &scriptedReviewer{junior: map[string][]string{
		"Paper Discard": {discard, discard},
		"Paper Mixed":   {discard, scoreJSON(1)},
	}}
	s := review.NewScreener(fake, testCriteria(), nil)
	records := s.ScreenBatch(context.Background(), []review.Paper{
		{Title: "Paper Discard"},
		{Title: "Paper Mixed"},
	})
	if records[0].Verdict.Decision != review.DecisionDiscard {
		t.Fatalf("expected discard, got %#v", records[0].Verdict)
	}
	if records[1].Verdict.Decision != review.DecisionExclude {
		t.Fatalf("single-junior discard must stay exclude, got %#v", records[1].Verdict)
	}
}

func TestScreenBatchEmpty(t *testing.T) {
	s := review.NewScreener(&scriptedReviewer{}, testCriteria(), nil)
	if records := s.ScreenBatch(context.Background(), nil); len(records) != 0 {
		t.Fatalf("expected empty result, got %d", len(records))
	}
}
