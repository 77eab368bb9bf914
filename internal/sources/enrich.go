package sources

import (
	"context"
	"log/slog"
	"strings"

	"litsieve/internal/identity"
	"litsieve/internal/keywords"
	"litsieve/internal/logging"
)

// aclDOIPrefix is the DOI prefix the ACL Anthology registers its papers
// under; the anthology ID follows it.
const aclDOIPrefix = "10.18653/v1/"

// MetadataEnricher fills metadata gaps left by expansion. Citation graphs
// frequently hand back bare titles or a DOI without an abstract, and the
// screeners cannot score a paper they cannot read.
type MetadataEnricher struct {
	crossref *Crossref
	arxiv    *Arxiv
	dblp     *DBLP
	acl      *ACLAnthology
	cache    *HarvestCache
	logger   *slog.Logger
}

// NewMetadataEnricher wires the enricher. cache may be nil.
func NewMetadataEnricher(clients *Clients, cache *HarvestCache, logger *slog.Logger) *MetadataEnricher {
	return &MetadataEnricher{
		crossref: clients.Crossref,
		arxiv:    clients.Arxiv,
		dblp:     clients.DBLP,
		acl:      clients.ACLAnthology,
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "enricher"),
	}
}

// Enrich returns the batch with gaps filled where an upstream source could
// resolve them. Lookup failures leave the candidate exactly as it arrived.
func (e *MetadataEnricher) Enrich(ctx context.Context, batch []Candidate) []Candidate {
	out := make([]Candidate, len(batch))
	for i, candidate := range batch {
		if ctx.Err() != nil {
			copy(out[i:], batch[i:])
			break
		}
		out[i] = e.enrichOne(ctx, candidate)
	}
	return out
}

func (e *MetadataEnricher) enrichOne(ctx context.Context, candidate Candidate) Candidate {
	if candidate.Abstract != "" && candidate.PublicationDate != "" {
		return candidate
	}
	cacheID := enrichCacheID(candidate)
	if cacheID == "" {
		return candidate
	}
	if cached, ok := e.cacheGet(ctx, cacheID); ok {
		return mergeCandidate(candidate, cached)
	}

	found, err := e.lookup(ctx, candidate)
	if err != nil {
		e.logger.Debug("enrichment lookup failed",
			logging.String("identifier", cacheID),
			logging.Error(err))
		return candidate
	}
	if found.Title == "" {
		return candidate
	}
	e.cachePut(ctx, cacheID, found)
	return mergeCandidate(candidate, found)
}

// lookup picks the source that can say the most about this candidate: the
// anthology page for ACL DOIs, Crossref for any other DOI, the arXiv feed for
// arXiv IDs, and a DBLP title search as the last resort.
func (e *MetadataEnricher) lookup(ctx context.Context, candidate Candidate) (Candidate, error) {
	if anthologyID, ok := strings.CutPrefix(candidate.DOI, aclDOIPrefix); ok {
		return e.acl.Paper(ctx, anthologyID)
	}
	if candidate.DOI != "" {
		return e.crossref.WorkByDOI(ctx, candidate.DOI)
	}
	if candidate.ArxivID != "" {
		found, err := e.arxiv.ByIDs(ctx, []string{candidate.ArxivID})
		if err != nil {
			return Candidate{}, err
		}
		if len(found) == 0 {
			return Candidate{}, nil
		}
		return found[0], nil
	}
	if candidate.Title != "" {
		return e.byTitle(ctx, candidate.Title)
	}
	return Candidate{}, nil
}

// byTitle resolves a bare title. arXiv goes first because its feed carries
// abstracts while DBLP records never do. Both searches return loosely related
// papers, so a hit only counts when its title matches under the loose fold.
func (e *MetadataEnricher) byTitle(ctx context.Context, title string) (Candidate, error) {
	hits, err := e.arxiv.Search(ctx, title, 5)
	if err == nil {
		if found, ok := matchTitle(hits, title); ok {
			return found, nil
		}
	} else {
		e.logger.Debug("arxiv title search failed", logging.Error(err))
	}

	hits, err = e.dblp.Search(ctx, title, 5)
	if err != nil {
		return Candidate{}, err
	}
	if found, ok := matchTitle(hits, title); ok {
		return found, nil
	}
	return Candidate{}, nil
}

func matchTitle(hits []Candidate, title string) (Candidate, bool) {
	for _, hit := range hits {
		if keywords.SimilarTitles(hit.Title, title) {
			return hit, true
		}
	}
	return Candidate{}, false
}

// mergeCandidate fills base's empty fields from found, never overwriting what
// the expansion source already reported.
func mergeCandidate(base, found Candidate) Candidate {
	if base.Abstract == "" {
		base.Abstract = found.Abstract
	}
	if base.PublicationDate == "" {
		base.PublicationDate = found.PublicationDate
	}
	if base.DOI == "" {
		base.DOI = found.DOI
	}
	if base.ArxivID == "" {
		base.ArxivID = found.ArxivID
	}
	return base
}

func enrichCacheID(candidate Candidate) string {
	return firstNonEmpty(candidate.DOI, candidate.ArxivID, identity.NormalizeTitle(candidate.Title))
}

func (e *MetadataEnricher) cacheGet(ctx context.Context, id string) (Candidate, bool) {
	if e.cache == nil {
		return Candidate{}, false
	}
	cached, ok := e.cache.Get(ctx, "enrich", id)
	if !ok || len(cached) == 0 {
		return Candidate{}, false
	}
	return cached[0], true
}

func (e *MetadataEnricher) cachePut(ctx context.Context, id string, found Candidate) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Put(ctx, "enrich", id, []Candidate{found}); err != nil {
		e.logger.Warn("harvest cache write failed", logging.Error(err))
	}
}
