package research

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug derives a URL-safe identifier from a title: transliterate to ASCII,
// lowercase, collapse non-alphanumeric runs to a single hyphen, trim. The
// derivation is pure; no uniqueness is guaranteed or needed.
func Slug(title string) string {
	// Decompose accented characters and strip the combining marks, then let
	// unidecode transliterate whatever non-Latin script remains.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, title)
	if err != nil {
		ascii = title
	}
	ascii = unidecode.Unidecode(ascii)

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(ascii) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
