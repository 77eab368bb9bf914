package registry

import (
	"log/slog"
	"sync"
	"time"

	"litsieve/internal/identity"
	"litsieve/internal/logging"
)

// Registry is the in-memory working form of the paper registry.
//
// All mutation happens through Upsert, which keeps the reverse index
// consistent with the entry list. Upserts must be applied sequentially:
// merge correctness depends on each call seeing the index updates of the
// previous one.
type Registry struct {
	mu           sync.RWMutex
	logger       *slog.Logger
	criteriaHash string
	updatedAt    time.Time
	entries      []Entry
	index        map[identity.KeyType]map[string]int
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logging.NewComponentLogger(logger, "registry"),
		index:  newIndex(),
	}
}

func newIndex() map[identity.KeyType]map[string]int {
	idx := make(map[identity.KeyType]map[string]int, len(identity.KeyOrder))
	for _, kt := range identity.KeyOrder {
		idx[kt] = make(map[string]int)
	}
	return idx
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// CriteriaHash returns the hash recorded at document level.
func (r *Registry) CriteriaHash() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.criteriaHash
}

// SetCriteriaHash records the active criteria fingerprint on the document.
func (r *Registry) SetCriteriaHash(hash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.criteriaHash = hash
}

// Entries returns a copy of all entries in insertion order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make([]Entry, len(r.entries))
	copy(cp, r.entries)
	return cp
}

// EntriesWithStatus returns copies of the entries currently holding status.
func (r *Registry) EntriesWithStatus(status Status) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// StatusCounts tallies entries per status.
func (r *Registry) StatusCounts() map[Status]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[Status]int, len(allStatuses))
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts
}

// Lookup resolves the ordered candidates against the reverse index and
// returns the position of the first hit. The order is the fixed key priority,
// not "first key present on the matched entry": when different candidate keys
// point at different entries, the earliest candidate decides and the entries
// are not merged.
func (r *Registry) Lookup(keys []identity.Key) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(keys)
}

func (r *Registry) lookupLocked(keys []identity.Key) (int, bool) {
	for _, key := range keys {
		byValue, ok := r.index[key.Type]
		if !ok {
			continue
		}
		if idx, ok := byValue[key.Value]; ok {
			return idx, true
		}
	}
	return 0, false
}

// Get returns a copy of the entry matching the candidates.
func (r *Registry) Get(keys []identity.Key) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.lookupLocked(keys)
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Upsert folds one sighting into the registry.
//
// A record with no usable key is skipped. A record with no prior match is
// appended and indexed. A matched record merges: status is overwritten only
// when the incoming status ranks strictly higher, except that a hard_exclude
// stored under a different criteria hash yields to any fresh verdict;
// identifier and title fields
// fill in only where the stored entry is empty (first-seen identifier wins);
// criteria hash, round, source, and updated_at always refresh to the incoming
// values.
func (r *Registry) Upsert(incoming Entry) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	incoming = canonicalize(incoming)
	keys := incoming.Keys()
	if len(keys) == 0 {
		r.logger.Debug("skipping record with no usable identifier or title",
			logging.String("source", incoming.Source))
		return OutcomeSkipped
	}
	if incoming.UpdatedAt.IsZero() {
		incoming.UpdatedAt = time.Now().UTC()
	}
	r.updatedAt = incoming.UpdatedAt

	idx, ok := r.lookupLocked(keys)
	if !ok {
		r.entries = append(r.entries, incoming)
		r.indexEntry(len(r.entries) - 1)
		return OutcomeAdded
	}

	entry := &r.entries[idx]
	if staleHardExclude(*entry, incoming) {
		entry.Status = incoming.Status
	} else if Priority(incoming.Status) > Priority(entry.Status) {
		entry.Status = incoming.Status
	}
	if entry.Title == "" {
		entry.Title = incoming.Title
	}
	if entry.NormalizedTitle == "" {
		entry.NormalizedTitle = incoming.NormalizedTitle
	}
	r.fillKeyField(idx, &entry.OpenAlexID, incoming.OpenAlexID, identity.KeyOpenAlex)
	r.fillKeyField(idx, &entry.DOI, incoming.DOI, identity.KeyDOI)
	r.fillKeyField(idx, &entry.ArxivID, incoming.ArxivID, identity.KeyArxiv)
	entry.CriteriaHash = incoming.CriteriaHash
	entry.Round = incoming.Round
	entry.Source = incoming.Source
	entry.UpdatedAt = incoming.UpdatedAt
	r.indexEntry(idx)
	return OutcomeUpdated
}

// staleHardExclude reports whether a stored hard_exclude was issued under a
// different criteria set than the incoming sighting. Such an entry has been
// re-admitted by IsSeen, so its status must not outrank the fresh verdict.
func staleHardExclude(stored, incoming Entry) bool {
	return stored.Status == StatusHardExclude &&
		stored.CriteriaHash != "" && incoming.CriteriaHash != "" &&
		stored.CriteriaHash != incoming.CriteriaHash
}

// fillKeyField fills an empty identifier on a stored entry, unless the value
// is already claimed by a different entry (one entry per key value).
func (r *Registry) fillKeyField(idx int, field *string, value string, kt identity.KeyType) {
	if *field != "" || value == "" {
		return
	}
	if owner, taken := r.index[kt][value]; taken && owner != idx {
		r.logger.Debug("identifier already claimed by another entry",
			logging.String(logging.FieldKeyType, string(kt)),
			logging.String("key_value", value))
		return
	}
	*field = value
}

// IsSeen reports whether the candidates match an entry whose screening is
// final. Matches with a status in exclude are ignored. A hard_exclude match
// only counts when its stored criteria hash equals activeHash, or either hash
// is empty; a changed criteria set re-admits previously hard-excluded papers.
func (r *Registry) IsSeen(keys []identity.Key, activeHash string, exclude ...Status) (identity.KeyType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	excluded := make(map[Status]struct{}, len(exclude))
	for _, s := range exclude {
		excluded[s] = struct{}{}
	}

	for _, key := range keys {
		idx, ok := r.index[key.Type][key.Value]
		if !ok {
			continue
		}
		entry := r.entries[idx]
		if _, skip := excluded[entry.Status]; skip {
			continue
		}
		if !entry.Status.IsFinal() {
			continue
		}
		if entry.Status == StatusHardExclude {
			if entry.CriteriaHash != "" && activeHash != "" && entry.CriteriaHash != activeHash {
				continue
			}
		}
		return key.Type, true
	}
	return "", false
}

func (r *Registry) indexEntry(idx int) {
	for _, key := range r.entries[idx].Keys() {
		byValue := r.index[key.Type]
		if _, taken := byValue[key.Value]; !taken {
			byValue[key.Value] = idx
		}
	}
}

// canonicalize normalizes identifier fields and derives the normalized title.
func canonicalize(e Entry) Entry {
	e.OpenAlexID = identity.NormalizeOpenAlex(e.OpenAlexID)
	e.DOI = identity.NormalizeDOI(e.DOI)
	e.ArxivID = identity.NormalizeArxiv(e.ArxivID)
	if e.NormalizedTitle == "" {
		e.NormalizedTitle = identity.NormalizeTitle(e.Title)
	} else {
		e.NormalizedTitle = identity.NormalizeTitle(e.NormalizedTitle)
	}
	return e
}
