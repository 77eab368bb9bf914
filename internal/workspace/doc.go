// Package workspace manages the on-disk layout of a review run: the registry
// document, per-round metadata directories, the harvest cache database, the
// criteria document, and the lock that keeps concurrent runs out of the same
// state. One workspace maps to one review project.
package workspace
