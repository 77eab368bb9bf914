package identity

// KeyType names one of the identifier classes a paper can be matched on.
type KeyType string

const (
	KeyOpenAlex KeyType = "openalex_id"
	KeyDOI      KeyType = "doi"
	KeyArxiv    KeyType = "arxiv_id"
	KeyTitle    KeyType = "title"
)

// KeyOrder is the fixed match priority. When a record matches the registry on
// several keys at once, the earliest key type wins; a record with a valid
// OpenAlex ID resolves by that ID even if its DOI points at a different entry.
var KeyOrder = []KeyType{KeyOpenAlex, KeyDOI, KeyArxiv, KeyTitle}

// Key is one (key type, normalized value) match candidate.
type Key struct {
	Type  KeyType
	Value string
}

// Fields carries the raw identifier fields of any paper-shaped record.
// NormalizedTitle, when set, is used as-is; otherwise Title is normalized.
type Fields struct {
	OpenAlexID      string
	DOI             string
	ArxivID         string
	Title           string
	NormalizedTitle string
}

// Candidates builds the ordered key list for a record. Only non-empty
// normalized values produce a candidate; a record with no usable field yields
// an empty slice.
func Candidates(f Fields) []Key {
	keys := make([]Key, 0, len(KeyOrder))
	if v := NormalizeOpenAlex(f.OpenAlexID); v != "" {
		keys = append(keys, Key{Type: KeyOpenAlex, Value: v})
	}
	if v := NormalizeDOI(f.DOI); v != "" {
		keys = append(keys, Key{Type: KeyDOI, Value: v})
	}
	if v := NormalizeArxiv(f.ArxivID); v != "" {
		keys = append(keys, Key{Type: KeyArxiv, Value: v})
	}
	title := f.NormalizedTitle
	if title == "" {
		title = NormalizeTitle(f.Title)
	} else {
		title = NormalizeTitle(title)
	}
	if title != "" {
		keys = append(keys, Key{Type: KeyTitle, Value: title})
	}
	return keys
}
