// Package review runs the two-tier screening protocol and derives inclusion
// verdicts from reviewer scores.
//
// Two junior reviewers score each paper independently on a 1-5 scale. When
// the scores fall into the disagreement zone, a senior reviewer is invoked
// with both junior outputs in its context and its score overrides theirs.
// Verdicts are structured values carrying the decision, the deciding score,
// and which tier produced it; the string form exists only for audit logs.
package review
