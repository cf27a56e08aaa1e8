package domain

import "strings"

// Normalize builds the searchable text for keyword matching: the lowercase
// message body and OCR text joined with a single space. Either part may be
// absent. No punctuation stripping or unicode normalization happens here;
// keywords are compared literally against this string.
func Normalize(text, ocrText string) string {
	parts := make([]string, 0, 2)
	if text != "" {
		parts = append(parts, strings.ToLower(text))
	}
	if ocrText != "" {
		parts = append(parts, strings.ToLower(ocrText))
	}
	return strings.Join(parts, " ")
}

// KeywordSet is the configured list of sensitive terms: lowercase, trimmed,
// in declaration order. It is built once at startup and read-only after,
// so it is safe to share across any number of callers.
type KeywordSet []string

// NewKeywordSet parses a comma-delimited keyword declaration. Entries are
// trimmed and lowercased; empty entries are dropped; duplicates and the
// declared order are preserved.
func NewKeywordSet(raw string) KeywordSet {
	var set KeywordSet
	for _, k := range strings.Split(raw, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set = append(set, k)
		}
	}
	return set
}

// Match returns the keywords that occur as a substring anywhere in text,
// in declaration order. Matching is literal: partial-word hits count, and
// text is expected to already be normalized (lowercase). Empty text or an
// empty set yields nil, never an error.
func (s KeywordSet) Match(text string) []string {
	if text == "" || len(s) == 0 {
		return nil
	}
	var found []string
	for _, k := range s {
		if strings.Contains(text, k) {
			found = append(found, k)
		}
	}
	return found
}
