// Package textnorm folds Vietnamese text into plain ASCII-compatible Latin so it can be
// rendered with the core PDF fonts and matched case-insensitively.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// đ and Đ are distinct letters rather than d plus a combining mark, so NFD leaves them alone.
var letterReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// StripDiacritics removes combining marks, e.g. "Học kỳ" becomes "Hoc ky".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return letterReplacer.Replace(out)
}

// Fold strips diacritics, lower-cases and collapses whitespace.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(StripDiacritics(s))), " ")
}

// ContainsFold reports whether needle occurs in haystack ignoring case and diacritics.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
