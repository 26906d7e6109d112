// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text and drops combining marks: "é" -> "e", "ñ" -> "n".
// Chained transformers keep internal buffers, so each call builds its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
}

// Normalize folds free text into the canonical form used for matching:
// lowercase, diacritics removed, every rune outside [a-z0-9] turned into a
// space, whitespace collapsed and trimmed.
//
// Normalize is total and idempotent: Normalize(Normalize(s)) == Normalize(s).
//
//	Normalize("¿Temário  de SQL?") returns "temario de sql"
func Normalize(s string) string {
	lowered := strings.ToLower(s)
	stripped, _, err := transform.String(stripMarks(), lowered)
	if err != nil {
		stripped = lowered
	}
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, stripped)
	return strings.Join(strings.Fields(mapped), " ")
}

// ContainsAny reports whether s contains any of the substrings.
func ContainsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// HasAnyToken reports whether any whole token of tokens equals one of words.
func HasAnyToken(tokens []string, words ...string) bool {
	for _, tok := range tokens {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

// TruncateBytes cuts s to at most maxBytes without splitting a UTF-8 sequence.
// The second result reports whether anything was cut.
func TruncateBytes(s string, maxBytes int) (string, bool) {
	if maxBytes < 0 {
		maxBytes = 0
	}
	if len(s) <= maxBytes {
		return s, false
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
