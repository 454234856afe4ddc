package japanese

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize folds full-width ASCII to ASCII and half-width katakana to
// full-width, recomposes voiced marks and maps the ideographic space to a space.
func Normalize(s string) string {
	s = width.Fold.String(s)
	s = norm.NFC.String(s)
	return strings.ReplaceAll(s, "　", " ")
}
