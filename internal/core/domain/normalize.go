package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a free-text name into the key used for roster matching:
// accents are stripped, case is lowered and whitespace is trimmed and
// collapsed, so "  JOÃO " and "joao" share a key.
func Normalize(text string) string {
	// transform.Chain is stateful, build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
