// Package textx provides small text utilities for user-supplied input.
package textx

import (
	"strings"
	"unicode/utf8"
)

// SanitizeText drops control characters other than tab, newline and carriage
// return, replaces invalid UTF-8 and trims surrounding whitespace.
func SanitizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
