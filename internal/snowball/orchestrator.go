package snowball

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"litsieve/internal/keywords"
	"litsieve/internal/logging"
	"litsieve/internal/registry"
	"litsieve/internal/review"
	"litsieve/internal/services"
	"litsieve/internal/sources"
	"litsieve/internal/workspace"
)

const (
	sourceBaseReview = "base_review"
	sourceSnowball   = "snowball"
)

// Reviewer screens a candidate batch. Satisfied by *review.Screener.
type Reviewer interface {
	ScreenBatch(ctx context.Context, papers []review.Paper) []review.Record
}

// Enricher fills metadata gaps on candidates before screening. Satisfied by
// *sources.MetadataEnricher.
type Enricher interface {
	Enrich(ctx context.Context, batch []sources.Candidate) []sources.Candidate
}

// Orchestrator runs the round loop against one workspace.
type Orchestrator struct {
	registry     *registry.Registry
	expander     sources.Expander
	reviewer     Reviewer
	ws           *workspace.Workspace
	criteriaHash string
	policy       StopPolicy
	window       DateWindow
	enricher     Enricher
	logger       *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithStopPolicy overrides the default fixed-round policy.
func WithStopPolicy(policy StopPolicy) Option {
	return func(o *Orchestrator) { o.policy = policy }
}

// WithDateWindow filters expansion candidates by publication date.
func WithDateWindow(window DateWindow) Option {
	return func(o *Orchestrator) { o.window = window }
}

// WithEnricher fills candidate metadata gaps before screening.
func WithEnricher(enricher Enricher) Option {
	return func(o *Orchestrator) { o.enricher = enricher }
}

// New assembles an orchestrator over an already-opened workspace.
func New(reg *registry.Registry, expander sources.Expander, reviewer Reviewer, ws *workspace.Workspace, criteriaHash string, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:     reg,
		expander:     expander,
		reviewer:     reviewer,
		ws:           ws,
		criteriaHash: criteriaHash,
		policy:       DefaultStopPolicy(),
		logger:       logging.NewComponentLogger(logger, "snowball"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Summary reports what a completed run did.
type Summary struct {
	RunID      string          `json:"run_id"`
	Rounds     []RoundMetadata `json:"rounds"`
	StopReason string          `json:"stop_reason"`
	Included   int             `json:"included"`
}

// Run executes rounds until a stop condition holds. The base review artifact
// is required; everything else degrades per round.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: o.ws.RunID()}

	baseRecords, err := o.ws.LoadBaseReview()
	if err != nil {
		return summary, err
	}
	o.registry.SetCriteriaHash(o.criteriaHash)
	seeds := o.foldRecords(baseRecords, 0, sourceBaseReview)
	if err := o.registry.Save(o.ws.RegistryPath()); err != nil {
		return summary, services.Wrap(services.ErrFatal, "snowball", "persist registry", "after base review fold", err)
	}
	o.logger.Info("base review folded",
		logging.Int("records", len(baseRecords)),
		logging.Int("seeds", len(seeds)))

	rawTotal := 0
	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if len(seeds) == 0 {
			summary.StopReason = "seed set exhausted"
			o.logger.Info("no seeds remain, run complete", logging.Int(logging.FieldRound, round-1))
			break
		}

		meta, nextSeeds, err := o.runRound(ctx, round, seeds)
		if err != nil {
			return summary, err
		}
		rawTotal += meta.RawCount

		stop, reason := o.policy.ShouldStop(round, rawTotal, meta.CumulativeIncluded)
		if stop {
			meta.StopReason = reason
			summary.StopReason = reason
		}
		if err := o.persistRound(meta); err != nil {
			return summary, err
		}
		summary.Rounds = append(summary.Rounds, *meta)
		if stop {
			break
		}
		seeds = nextSeeds
	}

	summary.Included = o.registry.StatusCounts()[registry.StatusInclude]
	return summary, nil
}

// runRound walks one round through expand, dedup, review, and registry
// update. Expansion failures degrade to an empty batch; the round still
// completes and records its counts.
func (o *Orchestrator) runRound(ctx context.Context, round int, seeds []sources.Seed) (*RoundMetadata, []sources.Seed, error) {
	meta := newRoundMetadata(round, o.ws.RunID(), o.criteriaHash)
	meta.SeedCount = len(seeds)
	logger := o.logger.With(logging.Int(logging.FieldRound, round))
	logger.Info("round started", logging.Int("seeds", len(seeds)))

	batch, err := o.expander.Expand(ctx, seeds)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		meta.ExpandError = err.Error()
		logger.Warn("expansion degraded", logging.Error(err))
	}
	meta.RawCount = len(batch)

	windowed := filterByWindow(batch, o.window)
	meta.FilteredCount = len(batch) - len(windowed)

	deduped, intraRemoved := dedupBatch(windowed)
	meta.recordRemovals(intraRemoved)
	deduped, echoRemoved := dropSeedEchoes(deduped, seeds)
	meta.recordRemovals(echoRemoved)
	fresh, crossRemoved := dropSeen(o.registry, deduped, o.criteriaHash)
	meta.recordRemovals(crossRemoved)
	meta.ForReview = len(fresh)

	if o.enricher != nil && len(fresh) > 0 {
		fresh = o.enricher.Enrich(ctx, fresh)
	}

	var records []review.Record
	if len(fresh) > 0 {
		records = o.reviewer.ScreenBatch(ctx, toPapers(fresh))
	} else {
		logger.Info("no candidates left after dedup, review skipped")
	}
	for _, record := range records {
		meta.Outcomes[string(record.Verdict.Decision)]++
	}
	meta.TopTerms = topIncludedTerms(records)

	nextSeeds := o.foldRecords(records, round, sourceSnowball)
	meta.CumulativeIncluded = o.registry.StatusCounts()[registry.StatusInclude]
	meta.CompletedAt = time.Now().UTC()

	if len(records) > 0 {
		if err := o.ws.SaveRoundRecords(round, records); err != nil {
			logger.Warn("round record dump failed", logging.Error(err))
		}
	}
	logger.Info("round completed",
		logging.Int("raw", meta.RawCount),
		logging.Int("filtered", meta.FilteredCount),
		logging.Int("dedup_removed", meta.RemovedTotal()),
		logging.Int("reviewed", meta.ForReview),
		logging.Int("included_total", meta.CumulativeIncluded))
	return meta, nextSeeds, nil
}

// foldRecords applies review outcomes to the registry sequentially and
// returns the seeds for the next round: the records this fold included.
func (o *Orchestrator) foldRecords(records []review.Record, round int, source string) []sources.Seed {
	now := time.Now().UTC()
	var seeds []sources.Seed
	for _, record := range records {
		entry := registry.Entry{
			Status:       record.Verdict.Status(),
			Title:        record.Title,
			DOI:          record.Metadata.DOI,
			OpenAlexID:   record.Metadata.OpenAlexID,
			ArxivID:      record.Metadata.ArxivID,
			CriteriaHash: o.criteriaHash,
			Source:       source,
			Round:        round,
			UpdatedAt:    now,
		}
		if outcome := o.registry.Upsert(entry); outcome == registry.OutcomeSkipped {
			continue
		}
		if record.Verdict.Decision == review.DecisionInclude {
			seeds = append(seeds, sources.Seed{
				Title:      record.Title,
				DOI:        record.Metadata.DOI,
				OpenAlexID: record.Metadata.OpenAlexID,
				ArxivID:    record.Metadata.ArxivID,
			})
		}
	}
	return seeds
}

// persistRound writes the metadata document and the registry. Both are
// whole-document replaces; a failure here is fatal since round accounting
// would otherwise silently diverge from registry state.
func (o *Orchestrator) persistRound(meta *RoundMetadata) error {
	if err := workspace.WriteJSON(o.ws.RoundMetadataPath(meta.Round), meta); err != nil {
		return services.Wrap(services.ErrFatal, "snowball", "persist round metadata",
			fmt.Sprintf("round %d", meta.Round), err)
	}
	if err := o.registry.Save(o.ws.RegistryPath()); err != nil {
		return services.Wrap(services.ErrFatal, "snowball", "persist registry",
			fmt.Sprintf("round %d", meta.Round), err)
	}
	return nil
}

// topIncludedTerms extracts the strongest vocabulary from a round's included
// papers. Drift in these terms across rounds is the first sign the snowball
// is wandering off topic.
func topIncludedTerms(records []review.Record) []string {
	corpus := keywords.NewCorpus()
	for _, record := range records {
		if record.Verdict.Decision != review.DecisionInclude {
			continue
		}
		corpus.Add(record.Title + " " + record.Abstract)
	}
	top := corpus.Top(8)
	if len(top) == 0 {
		return nil
	}
	terms := make([]string, len(top))
	for i, term := range top {
		terms[i] = term.Text
	}
	return terms
}

func toPapers(batch []sources.Candidate) []review.Paper {
	papers := make([]review.Paper, len(batch))
	for i, candidate := range batch {
		papers[i] = review.Paper{
			Title:    candidate.Title,
			Abstract: candidate.Abstract,
			Metadata: review.Metadata{
				DOI:             candidate.DOI,
				OpenAlexID:      candidate.OpenAlexID,
				ArxivID:         candidate.ArxivID,
				PublicationDate: candidate.PublicationDate,
			},
		}
	}
	return papers
}
