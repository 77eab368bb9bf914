// Package logging builds the slog loggers used across litsieve.
//
// It provides console and JSON handlers, standardized field keys so rounds,
// sources, and registry events stay greppable, attribute helper functions,
// and a no-op logger for tests. Console output colorizes only when stdout is
// a terminal.
package logging
