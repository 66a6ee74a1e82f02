// Package slug turns titles into URL path segments.
package slug

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lower-cases s, folds accented letters to their base form and joins
// the remaining alphanumeric runs with '-'.
func Make(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// WithSuffix returns Make(s) followed by a short random suffix, for records
// whose slug is derived from a title that need not be unique.
func WithSuffix(s string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	base := Make(s)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// Choose returns Make(explicit) when an explicit slug was supplied and
// Make(title) otherwise.
func Choose(explicit, title string) string {
	if strings.TrimSpace(explicit) != "" {
		return Make(explicit)
	}
	return Make(title)
}
