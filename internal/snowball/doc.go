// Package snowball drives the round loop of a review run. Each round selects
// the previous round's included papers as seeds, expands their citation
// neighborhood, drops duplicates within the batch and against the registry,
// screens what remains, folds verdicts back into the registry, and then
// decides whether another round should run.
//
// Rounds execute strictly sequentially. Per-round failures degrade counts and
// never abort the run; only a missing base review artifact is fatal. Every
// executed round leaves a metadata document behind, including rounds that net
// zero progress.
package snowball
