package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"litsieve/internal/criteria"
	"litsieve/internal/logging"
	"litsieve/internal/services/llm"
)

const defaultWorkers = 4

// Completer is the LLM surface the screener needs. Satisfied by
// *llm.Client; tests substitute fakes.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Screener drives the junior/senior review protocol over a batch of papers.
type Screener struct {
	client   Completer
	criteria promptCriteria
	logger   *slog.Logger
	workers  int
}

// ScreenerOption customizes a Screener.
type ScreenerOption func(*Screener)

// WithWorkers bounds how many papers are reviewed concurrently.
func WithWorkers(n int) ScreenerOption {
	return func(s *Screener) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewScreener builds a screener for the active criteria document.
func NewScreener(client Completer, doc criteria.Document, logger *slog.Logger, opts ...ScreenerOption) *Screener {
	s := &Screener{
		client: client,
		criteria: promptCriteria{
			Inclusion: doc.InclusionText(),
			Exclusion: doc.ExclusionText(),
		},
		logger:  logging.NewComponentLogger(logger, "review"),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScreenBatch reviews every paper and returns one record per input, in input
// order. Review calls run concurrently across papers; a failure on one paper
// is captured in its record and never blocks siblings. An empty batch returns
// an empty result without touching the LLM.
func (s *Screener) ScreenBatch(ctx context.Context, papers []Paper) []Record {
	records := make([]Record, len(papers))
	if len(papers) == 0 {
		return records
	}

	workers := s.workers
	if workers > len(papers) {
		workers = len(papers)
	}

	type job struct{ idx int }
	jobs := make(chan job)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				records[j.idx] = s.screenOne(ctx, papers[j.idx])
			}
		}()
	}
	for i := range papers {
		select {
		case <-ctx.Done():
		case jobs <- job{idx: i}:
		}
	}
	close(jobs)
	wg.Wait()
	return records
}

// screenOne runs the full escalation protocol for a single paper.
func (s *Screener) screenOne(ctx context.Context, paper Paper) Record {
	record := Record{
		Title:    paper.Title,
		Abstract: paper.Abstract,
		Metadata: paper.Metadata,
	}
	if ctx.Err() != nil {
		record.Verdict = Verdict{Decision: DecisionNoScore, Source: SourceNone}
		record.Error = ctx.Err().Error()
		return record
	}

	userPrompt := juniorUserPrompt(s.criteria, paper)
	var failures []error

	juniorA, err := s.invoke(ctx, juniorSystemPrompt, userPrompt)
	if err != nil {
		failures = append(failures, fmt.Errorf("junior a: %w", err))
	}
	record.JuniorA = juniorA

	juniorB, err := s.invoke(ctx, juniorSystemPrompt, userPrompt)
	if err != nil {
		failures = append(failures, fmt.Errorf("junior b: %w", err))
	}
	record.JuniorB = juniorB

	scoreA, scoreB := juniorA.Score(), juniorB.Score()
	if NeedsSenior(scoreA, scoreB) {
		senior, err := s.invoke(ctx, seniorSystemPrompt, seniorUserPrompt(s.criteria, paper, juniorA, juniorB))
		if err != nil {
			// A failed escalation falls back to the junior average rather
			// than discarding two good scores.
			failures = append(failures, fmt.Errorf("senior: %w", err))
		}
		record.Senior = senior
	}

	record.Verdict = Derive(record.Senior.Score(), scoreA, scoreB)
	if record.Verdict.Decision != DecisionNoScore && s.isDiscard(record) {
		record.Verdict.Decision = DecisionDiscard
	}
	if len(failures) > 0 {
		record.Error = joinErrors(failures)
		s.logger.Warn("reviewer call failed",
			logging.String(logging.FieldPaperTitle, paper.Title),
			logging.String("detail", record.Error))
	}
	return record
}

// isDiscard reports whether the deciding tier flagged an outright exclusion
// violation. The senior's flag wins when a senior reviewed; otherwise both
// juniors must agree on the discard.
func (s *Screener) isDiscard(record Record) bool {
	if record.Senior != nil && record.Senior.Score() != 0 {
		return record.Senior.Discard
	}
	return record.JuniorA != nil && record.JuniorA.Discard &&
		record.JuniorB != nil && record.JuniorB.Discard
}

func (s *Screener) invoke(ctx context.Context, systemPrompt, userPrompt string) (*ReviewerOutput, error) {
	content, err := s.client.CompleteJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	var out ReviewerOutput
	if err := llm.DecodeJSON(content, &out); err != nil {
		return nil, fmt.Errorf("parse reviewer payload: %w", err)
	}
	return &out, nil
}

func joinErrors(errs []error) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d reviewer calls failed: %v", len(errs), parts)
}
