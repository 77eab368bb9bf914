// Package identity canonicalizes paper identifiers and builds the ordered
// match-key candidates used for deduplication.
//
// Bibliographic sources disagree about how they spell the same identifier:
// DOIs arrive with or without the resolver URL, arXiv IDs with or without the
// "arXiv:" prefix, titles with arbitrary casing and whitespace. The
// normalizers here collapse those variants into a single comparable form, and
// Candidates turns a record into the fixed-priority key list
// (openalex_id, doi, arxiv_id, title) that the registry matches on.
//
// All normalizers fail soft: empty or unusable input yields an empty string,
// and empty strings never become match keys.
package identity
