// Package registry maintains the deduplicated paper registry that snowball
// rounds read and write.
//
// Every real-world paper is represented by exactly one Entry regardless of how
// many source records describe it. Identity is resolved through the ordered
// key scheme in internal/identity; a reverse index from (key type, value) to
// entry position backs both lookup and the seen-check used for cross-round
// dedup. Upsert merges new sightings into existing entries using the status
// priority ladder, never deleting and never allowing two entries to share a
// non-empty key of the same type.
//
// The registry persists as a single JSON document rewritten atomically in
// full. A payload that fails to parse is treated as an empty registry rather
// than an error, so a corrupt file degrades to a rebuild instead of blocking
// a run.
package registry
