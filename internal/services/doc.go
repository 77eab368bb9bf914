// Package services defines shared utilities consumed by the round
// orchestrator and the external integrations it drives.
//
// It provides structured error markers plus the Wrap helper that translate
// upstream failures into consistent per-record outcomes: fatal errors abort a
// run, validation and not-found errors skip a record, and transient errors
// are retried before being downgraded to a record-level error status.
package services
