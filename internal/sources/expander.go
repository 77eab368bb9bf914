package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"litsieve/internal/logging"
	"litsieve/internal/services"
)

// CitationExpander walks the citation neighborhood of each seed: works the
// seed references (backward) and works citing the seed (forward). OpenAlex is
// the primary graph; Semantic Scholar covers seeds OpenAlex cannot resolve.
type CitationExpander struct {
	openAlex    *OpenAlex
	sem         *SemanticScholar
	cache       *HarvestCache
	logger      *slog.Logger
	perSeedEdge int
}

// ExpanderOption customizes CitationExpander construction.
type ExpanderOption func(*CitationExpander)

// WithPerSeedLimit caps the number of works fetched per citation direction
// per seed.
func WithPerSeedLimit(limit int) ExpanderOption {
	return func(e *CitationExpander) {
		if limit > 0 {
			e.perSeedEdge = limit
		}
	}
}

// NewCitationExpander wires the expander. cache may be nil, in which case
// every expansion hits the network.
func NewCitationExpander(openAlex *OpenAlex, sem *SemanticScholar, cache *HarvestCache, logger *slog.Logger, opts ...ExpanderOption) *CitationExpander {
	e := &CitationExpander{
		openAlex:    openAlex,
		sem:         sem,
		cache:       cache,
		logger:      logging.NewComponentLogger(logger, "expander"),
		perSeedEdge: 200,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand gathers the raw candidate batch for the given seeds. Individual seed
// failures are logged and skipped; the error is non-nil only when every seed
// failed, so a partially reachable upstream still yields a usable batch.
func (e *CitationExpander) Expand(ctx context.Context, seeds []Seed) ([]Candidate, error) {
	var out []Candidate
	var failures []error
	succeeded := 0
	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		batch, err := e.expandSeed(ctx, seed)
		if err != nil {
			e.logger.Warn("seed expansion failed",
				logging.String(logging.FieldPaperTitle, seed.Title),
				logging.Error(err))
			failures = append(failures, err)
			continue
		}
		succeeded++
		out = append(out, batch...)
	}
	if succeeded == 0 && len(failures) > 0 {
		return out, services.Wrap(services.ErrTransient, "expander", "expand",
			"all seed expansions failed", errors.Join(failures...))
	}
	return out, nil
}

func (e *CitationExpander) expandSeed(ctx context.Context, seed Seed) ([]Candidate, error) {
	if id := e.openAlexSeedID(seed); id != "" {
		return e.expandViaOpenAlex(ctx, id)
	}
	if id := semanticScholarSeedID(seed); id != "" {
		return e.expandViaSemanticScholar(ctx, id)
	}
	return nil, fmt.Errorf("seed %q carries no resolvable identifier", seed.Title)
}

func (e *CitationExpander) openAlexSeedID(seed Seed) string {
	if id := strings.TrimSpace(seed.OpenAlexID); id != "" {
		return id
	}
	if doi := strings.TrimSpace(seed.DOI); doi != "" {
		return "https://doi.org/" + strings.TrimPrefix(strings.TrimPrefix(doi, "https://doi.org/"), "http://doi.org/")
	}
	return ""
}

func semanticScholarSeedID(seed Seed) string {
	if doi := strings.TrimSpace(seed.DOI); doi != "" {
		return "DOI:" + doi
	}
	if arxiv := strings.TrimSpace(seed.ArxivID); arxiv != "" {
		return "ARXIV:" + arxiv
	}
	return ""
}

func (e *CitationExpander) expandViaOpenAlex(ctx context.Context, seedID string) ([]Candidate, error) {
	if cached, ok := e.cacheGet(ctx, "openalex", seedID); ok {
		return cached, nil
	}

	work, referenced, err := e.openAlex.WorkByID(ctx, seedID)
	if err != nil {
		return nil, err
	}
	workID := work.OpenAlexID

	backward, err := e.openAlex.WorksByIDs(ctx, referenced)
	if err != nil {
		return nil, err
	}
	forward, err := e.openAlex.CitedBy(ctx, workID, e.perSeedEdge)
	if err != nil {
		return nil, err
	}

	batch := append(backward, forward...)
	e.cachePut(ctx, "openalex", seedID, batch)
	return batch, nil
}

func (e *CitationExpander) expandViaSemanticScholar(ctx context.Context, seedID string) ([]Candidate, error) {
	if cached, ok := e.cacheGet(ctx, "semanticscholar", seedID); ok {
		return cached, nil
	}

	backward, err := e.sem.References(ctx, seedID, e.perSeedEdge)
	if err != nil {
		return nil, err
	}
	forward, err := e.sem.Citations(ctx, seedID, e.perSeedEdge)
	if err != nil {
		return nil, err
	}

	batch := append(backward, forward...)
	e.cachePut(ctx, "semanticscholar", seedID, batch)
	return batch, nil
}

func (e *CitationExpander) cacheGet(ctx context.Context, source, id string) ([]Candidate, bool) {
	if e.cache == nil {
		return nil, false
	}
	return e.cache.Get(ctx, source, "expand:"+id)
}

func (e *CitationExpander) cachePut(ctx context.Context, source, id string, batch []Candidate) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Put(ctx, source, "expand:"+id, batch); err != nil {
		e.logger.Warn("harvest cache write failed",
			logging.String(logging.FieldSource, source),
			logging.Error(err))
	}
}
