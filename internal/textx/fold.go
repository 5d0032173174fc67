// Package textx provides Unicode-aware case- and accent-insensitive matching
// for names and localities.
package textx

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s case-folded with combining marks removed, so "BOGOTÁ" and
// "bogota" fold alike. Casers and transformers are stateful, so new ones
// are built per call.
func Fold(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// ContainsFold reports whether substr occurs in s ignoring case and accents.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// Matcher folds a query once and tests many candidates against it.
type Matcher struct {
	needle string
}

func NewMatcher(query string) Matcher {
	return Matcher{needle: Fold(strings.TrimSpace(query))}
}

// Empty reports whether the query has no content after trimming.
func (m Matcher) Empty() bool { return m.needle == "" }

// Len is the rune count of the folded query.
func (m Matcher) Len() int { return len([]rune(m.needle)) }

// Match reports whether any of the candidates contains the query.
func (m Matcher) Match(candidates ...string) bool {
	for _, c := range candidates {
		if strings.Contains(Fold(c), m.needle) {
			return true
		}
	}
	return false
}
