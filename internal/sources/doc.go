// Package sources talks to the bibliographic registries that feed candidate
// papers into snowball rounds.
//
// Clients exist for OpenAlex, Semantic Scholar, Crossref, arXiv, DBLP, and
// the ACL Anthology. All of them share one fetch path with per-call timeouts,
// exponential backoff on rate limits and server errors, an in-process
// response memo, and a SQLite harvest cache that survives across runs so
// repeated rounds do not re-hit upstreams for the same identifier.
//
// Every client degrades per record: a failed lookup for one paper is logged
// and skipped, never escalated into a round-level failure.
package sources
