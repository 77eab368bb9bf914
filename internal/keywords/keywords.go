// Package keywords extracts search terms from seed papers and provides the
// loose text matching used where exact title keys are too strict.
//
// Terms are weighted with TF-IDF over the seed corpus so registry-specific
// boilerplate ("paper", "results", "approach") sinks below the vocabulary
// that actually characterizes the review topic. The loose fold lowercases,
// strips diacritics, and collapses punctuation, which is intentionally weaker
// than the whitespace-insensitive title identity in internal/identity.
package keywords

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "are": {}, "was": {}, "were": {}, "our": {}, "can": {},
	"has": {}, "have": {}, "been": {}, "which": {}, "these": {}, "their": {},
	"paper": {}, "study": {}, "results": {}, "approach": {}, "propose": {},
	"proposed": {}, "present": {}, "show": {}, "using": {}, "based": {},
	"method": {}, "methods": {}, "model": {}, "models": {}, "data": {},
}

// looseFolder strips diacritics after canonical decomposition.
var looseFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold reduces free text to its loose comparison form: diacritics stripped,
// lowercased, punctuation collapsed to single spaces.
func Fold(s string) string {
	folded, _, err := transform.String(looseFolder, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = tokenSplitPattern.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// Tokenize splits text into lowercase terms, dropping stopwords and tokens
// shorter than 3 characters.
func Tokenize(text string) []string {
	parts := strings.Fields(Fold(text))
	terms := make([]string, 0, len(parts))
	for _, token := range parts {
		if len(token) < 3 {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// Corpus collects document frequency statistics over seed papers.
type Corpus struct {
	docCount int
	docFreq  map[string]int
	termFreq map[string]int
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docFreq: make(map[string]int), termFreq: make(map[string]int)}
}

// Add registers one document's text in the corpus.
func (c *Corpus) Add(text string) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return
	}
	c.docCount++
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		c.termFreq[token]++
		if _, dup := seen[token]; !dup {
			c.docFreq[token]++
			seen[token] = struct{}{}
		}
	}
}

// Term is one extracted keyword with its weight.
type Term struct {
	Text   string
	Weight float64
}

// Top returns the n highest-weighted terms by TF-IDF. Terms appearing in
// every document score zero and drop out.
func (c *Corpus) Top(n int) []Term {
	if c == nil || c.docCount == 0 || n <= 0 {
		return nil
	}
	terms := make([]Term, 0, len(c.termFreq))
	for token, tf := range c.termFreq {
		idf := math.Log(float64(c.docCount+1) / float64(c.docFreq[token]+1))
		if weight := float64(tf) * idf; weight > 0 {
			terms = append(terms, Term{Text: token, Weight: weight})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Text < terms[j].Text
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

// SimilarTitles reports whether two titles match under the loose fold.
func SimilarTitles(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	return fa != "" && fa == fb
}
