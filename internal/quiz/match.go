package quiz

import (
	"strconv"
	"strings"
	"unicode"
)

// circled holds the circled-numeral glyphs for option positions 0-9.
var circled = []string{"①", "②", "③", "④", "⑤", "⑥", "⑦", "⑧", "⑨", "⑩"}

// CircledNumeral returns the circled glyph for a 0-based option index, or
// "" when the index has no glyph.
func CircledNumeral(index int) string {
	if index < 0 || index >= len(circled) {
		return ""
	}
	return circled[index]
}

// Normalize prepares a string for answer comparison: all whitespace is
// removed, one trailing period or comma is stripped, and the result is
// lower-cased.
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") {
		s = s[:len(s)-1]
	}
	return strings.ToLower(s)
}

// Matches reports whether candidate, the option at candidateIndex, satisfies
// the canonical answer. Content equality always wins. When the canonical
// answer equals the content of any option, it is treated as content-addressed
// and positional interpretation is suppressed. Otherwise the canonical answer
// may name the option by its 1-based index ("3", "3.", "3)", "(3)") or by its
// circled numeral.
//
// candidateIndex may be -1 when no positional context exists; the index
// arithmetic is applied unchanged in that case.
func Matches(candidate, canonical string, candidateIndex int, options []string) bool {
	cand := Normalize(candidate)
	canon := Normalize(canonical)

	if cand == canon {
		return true
	}

	for _, opt := range options {
		if Normalize(opt) == canon {
			return false
		}
	}

	n := strconv.Itoa(candidateIndex + 1)
	glyph := CircledNumeral(candidateIndex)

	switch {
	case canon == n:
		return true
	case glyph != "" && canon == glyph:
		return true
	case strings.HasPrefix(canon, n+"."), strings.HasPrefix(canon, n+")"):
		return true
	case strings.HasPrefix(canon, "("+n+")"):
		return true
	case glyph != "" && strings.Contains(canon, glyph):
		return true
	}
	return false
}

// indexOf returns the position of answer in options by exact text, or -1.
func indexOf(options []string, answer string) int {
	for i, opt := range options {
		if opt == answer {
			return i
		}
	}
	return -1
}
