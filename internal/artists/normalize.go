package artists

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes to NFKD and drops combining marks, so
// "José" becomes "Jose" before the rest of normalization runs.
var diacriticStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the canonical join key for artist-name matching:
// lowercase, diacritics stripped, punctuation removed except hyphens,
// whitespace collapsed. Normalize is idempotent.
func Normalize(name string) string {
	stripped, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		stripped = name
	}
	stripped = strings.ToLower(stripped)

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
			// other punctuation is dropped: "O'Connor" -> "oconnor"
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens splits a name into its normalized tokens.
func Tokens(name string) []string {
	return strings.Fields(Normalize(name))
}
