// Package naming holds the identifier conventions shared across the model:
// punctuation-free codenames used for case-insensitive lookups, and the
// 22-character compressed form of globally unique ids.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctuation is the ASCII punctuation set stripped from codenames.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Clean strips accents and ASCII punctuation from s, leaving case and
// spacing untouched.
func Clean(s string) string {
	if flat, _, err := transform.String(deaccent, s); err == nil {
		s = flat
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
}

// Codename folds s into the canonical lookup key: cleaned, lowercased,
// with all spaces removed. "Ground Floor" and "ground-floor" collapse to
// the same codename.
func Codename(s string) string {
	return strings.ReplaceAll(SpacedCodename(s), " ", "")
}

// SpacedCodename is Codename with interior spaces kept, the key form used
// for property set names.
func SpacedCodename(s string) string {
	return strings.ToLower(Clean(s))
}
