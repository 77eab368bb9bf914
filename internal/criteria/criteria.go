// Package criteria loads the inclusion/exclusion rule document that drives
// screening, and fingerprints it so stale hard-exclusions can be detected.
package criteria

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the active rule set for one review.
type Document struct {
	Inclusion []string `yaml:"inclusion"`
	Exclusion []string `yaml:"exclusion"`
}

// Load reads and parses a criteria document. A missing or malformed document
// is fatal: screening cannot run without knowing what to screen for.
func Load(path string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read criteria document: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse criteria document: %w", err)
	}
	doc.Inclusion = cleanRules(doc.Inclusion)
	doc.Exclusion = cleanRules(doc.Exclusion)
	if len(doc.Inclusion) == 0 && len(doc.Exclusion) == 0 {
		return doc, errors.New("criteria document defines no rules")
	}
	return doc, nil
}

func cleanRules(rules []string) []string {
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		if trimmed := strings.TrimSpace(rule); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Hash fingerprints the rule content. The digest is stable across YAML
// formatting changes: only rule text and order feed the hash. Downstream code
// relies solely on equality of hashes.
func (d Document) Hash() string {
	h := sha256.New()
	for _, rule := range d.Inclusion {
		h.Write([]byte("inclusion\x00" + rule + "\x00"))
	}
	for _, rule := range d.Exclusion {
		h.Write([]byte("exclusion\x00" + rule + "\x00"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// InclusionText renders the inclusion rules as prompt-ready text.
func (d Document) InclusionText() string {
	return renderRules(d.Inclusion)
}

// ExclusionText renders the exclusion rules as prompt-ready text.
func (d Document) ExclusionText() string {
	return renderRules(d.Exclusion)
}

func renderRules(rules []string) string {
	var b strings.Builder
	for i, rule := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}
	return b.String()
}
