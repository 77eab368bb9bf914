package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"litsieve/internal/logging"
)

// DocumentVersion is the current persisted schema version.
const DocumentVersion = 1

// Document is the on-disk form of the registry.
type Document struct {
	Version      int       `json:"version"`
	CriteriaHash string    `json:"criteria_hash"`
	UpdatedAt    time.Time `json:"updated_at"`
	Entries      []Entry   `json:"entries"`
}

// Load reads a registry from path. A missing file or a payload that fails to
// parse yields an empty registry, never an error: the registry is
// reconstructible from round artifacts, so fail-open beats blocking a run on
// a corrupt file.
func Load(path string, logger *slog.Logger) *Registry {
	r := New(logger)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("registry file unreadable, starting empty",
				logging.String("path", path),
				logging.Error(err))
		}
		return r
	}
	if len(data) == 0 {
		return r
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		r.logger.Warn("registry file malformed, starting empty",
			logging.String("path", path),
			logging.Error(err))
		return r
	}
	return FromDocument(doc, logger)
}

// FromDocument rebuilds the in-memory registry, including the reverse index,
// from a persisted document. Missing entries and criteria hash default to
// empty.
func FromDocument(doc Document, logger *slog.Logger) *Registry {
	r := New(logger)
	r.criteriaHash = doc.CriteriaHash
	r.updatedAt = doc.UpdatedAt
	r.entries = make([]Entry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		e = canonicalize(e)
		if len(e.Keys()) == 0 {
			continue
		}
		r.entries = append(r.entries, e)
		r.indexEntry(len(r.entries) - 1)
	}
	return r
}

// Document renders the registry into its persisted form.
func (r *Registry) Document() Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	updated := r.updatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	return Document{
		Version:      DocumentVersion,
		CriteriaHash: r.criteriaHash,
		UpdatedAt:    updated,
		Entries:      entries,
	}
}

// Save writes the registry to path as a whole-document atomic replace.
func (r *Registry) Save(path string) error {
	doc := r.Document()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp registry: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace registry: %w", err)
	}
	return nil
}
