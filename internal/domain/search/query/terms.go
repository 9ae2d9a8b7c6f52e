package query

import (
	"strings"
	"unicode/utf8"

	"github.com/lilykang127/connect-ltv/internal/domain"
)

// DefaultMinTermLength drops tokens of two characters or fewer.
const DefaultMinTermLength = 3

// Terms is an ordered list of lowercase, non-empty search tokens.
// Duplicates are kept.
type Terms []string

// Analyze normalizes a free-text query into search terms.
// Tokens shorter than minLen runes are dropped; minLen <= 0 keeps every token.
// Returns domain.ErrEmptyQuery when nothing survives.
func Analyze(raw string, minLen int) (Terms, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, domain.ErrEmptyQuery
	}

	terms := make(Terms, 0, len(fields))
	for _, f := range fields {
		tok := strings.ToLower(f)
		if utf8.RuneCountInString(tok) < minLen {
			continue
		}
		terms = append(terms, tok)
	}
	if len(terms) == 0 {
		return nil, domain.ErrEmptyQuery
	}
	return terms, nil
}

// String joins the terms with single spaces.
func (t Terms) String() string {
	return strings.Join(t, " ")
}
