package identity

import (
	"strings"
	"unicode"
)

const (
	doiPrefixHTTPS = "https://doi.org/"
	doiPrefixHTTP  = "http://doi.org/"
	arxivPrefix    = "arxiv:"
)

// NormalizeTitle lowercases a title and strips all whitespace, producing the
// "soft" title identity key. This is intentionally stricter than the loose
// tokenization used for free-text similarity elsewhere: two titles match only
// when every non-space character agrees case-insensitively.
func NormalizeTitle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeDOI strips doi.org resolver prefixes and lowercases.
func NormalizeDOI(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lowered := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lowered, doiPrefixHTTPS):
		lowered = lowered[len(doiPrefixHTTPS):]
	case strings.HasPrefix(lowered, doiPrefixHTTP):
		lowered = lowered[len(doiPrefixHTTP):]
	}
	return strings.TrimSpace(lowered)
}

// NormalizeOpenAlex lowercases an OpenAlex work ID. Both the bare form
// ("w2741809807") and the URL form are accepted; the URL host is kept as part
// of the key since OpenAlex serves IDs consistently either way per source.
func NormalizeOpenAlex(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeArxiv strips a case-insensitive "arXiv:" prefix, removes
// whitespace, and lowercases.
func NormalizeArxiv(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lowered := strings.ToLower(s)
	lowered = strings.TrimPrefix(lowered, arxivPrefix)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
