// Command litsieve runs snowball-based systematic literature reviews: seed
// papers expand through citation graphs, an LLM reviewer panel screens the
// candidates against a criteria document, and a deduplicated registry
// accumulates the verdicts across rounds.
package main
