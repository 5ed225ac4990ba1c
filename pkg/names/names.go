// Package names normalizes raw person names into stable lookup keys.
//
// Two raw names that normalize identically are treated as the same person for
// the duration of a batch session, so normalization must be pure and
// deterministic: trim, uppercase, and fold diacritics ("José" and "JOSE"
// both normalize to "JOSE").
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize derives the canonical key for a raw person name.
// It is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ""
	}

	// Decompose, strip combining marks, recompose. This folds accented
	// vowels and Ñ without touching punctuation or inner whitespace.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, cleaned)
	if err != nil {
		folded = cleaned
	}

	return strings.ToUpper(folded)
}
