package snowball

import (
	"litsieve/internal/identity"
	"litsieve/internal/keywords"
	"litsieve/internal/registry"
	"litsieve/internal/sources"
)

// dedupBatch removes intra-batch duplicates, first seen wins. A candidate is
// a duplicate when any of its keys, checked in the fixed priority order, was
// already claimed by an earlier candidate; the removal is attributed to the
// key type that matched. Keyless candidates are dropped and counted under
// their own bucket since they can never reach the registry.
func dedupBatch(batch []sources.Candidate) ([]sources.Candidate, map[identity.KeyType]int) {
	claimed := make(map[identity.KeyType]map[string]struct{}, len(identity.KeyOrder))
	for _, kt := range identity.KeyOrder {
		claimed[kt] = make(map[string]struct{})
	}
	removed := make(map[identity.KeyType]int)

	kept := batch[:0:0]
	for _, candidate := range batch {
		if !candidate.Usable() {
			removed[keyTypeUnkeyed]++
			continue
		}
		keys := identity.Candidates(candidate.Fields())
		if kt, dup := firstClaimed(claimed, keys); dup {
			removed[kt]++
			continue
		}
		for _, key := range keys {
			claimed[key.Type][key.Value] = struct{}{}
		}
		kept = append(kept, candidate)
	}
	return kept, removed
}

// keyTypeUnkeyed tags removals of candidates that produced no match key at
// all.
const keyTypeUnkeyed identity.KeyType = "unkeyed"

func firstClaimed(claimed map[identity.KeyType]map[string]struct{}, keys []identity.Key) (identity.KeyType, bool) {
	for _, key := range keys {
		if _, ok := claimed[key.Type][key.Value]; ok {
			return key.Type, true
		}
	}
	return "", false
}

// keyTypeLooseTitle tags removals of candidates whose title loosely matches
// a seed title.
const keyTypeLooseTitle identity.KeyType = "loose_title"

// dropSeedEchoes removes candidates that are the seeds themselves coming back
// through the citation graph under a punctuation or diacritic title variant
// the strict title key does not catch. Expansion APIs return these constantly.
func dropSeedEchoes(batch []sources.Candidate, seeds []sources.Seed) ([]sources.Candidate, map[identity.KeyType]int) {
	folded := make(map[string]struct{}, len(seeds))
	for _, seed := range seeds {
		if f := keywords.Fold(seed.Title); f != "" {
			folded[f] = struct{}{}
		}
	}
	removed := make(map[identity.KeyType]int)
	kept := batch[:0:0]
	for _, candidate := range batch {
		if f := keywords.Fold(candidate.Title); f != "" {
			if _, echo := folded[f]; echo {
				removed[keyTypeLooseTitle]++
				continue
			}
		}
		kept = append(kept, candidate)
	}
	return kept, removed
}

// dropSeen removes candidates already finally screened in the registry.
// Removals are attributed to the key type that matched.
func dropSeen(reg *registry.Registry, batch []sources.Candidate, activeHash string) ([]sources.Candidate, map[identity.KeyType]int) {
	removed := make(map[identity.KeyType]int)
	kept := batch[:0:0]
	for _, candidate := range batch {
		keys := identity.Candidates(candidate.Fields())
		if kt, seen := reg.IsSeen(keys, activeHash); seen {
			removed[kt]++
			continue
		}
		kept = append(kept, candidate)
	}
	return kept, removed
}
