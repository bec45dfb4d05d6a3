// Package vocab holds the rules that turn bulk-write payloads into rows and
// rows back into the grouped dictionary served to the front-end.
package vocab

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize title-cases the first rune and lowercases the rest, so
// "cASA bianca" becomes "Casa bianca". Mapping is rune-based, which keeps
// accented initials intact ("èrba" -> "Èrba").
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

// NormalizeWord trims surrounding whitespace and capitalizes the word.
func NormalizeWord(s string) string {
	return Capitalize(strings.TrimSpace(s))
}

// GroupKey returns the uppercased first rune of word. ok is false for an
// empty word.
func GroupKey(word string) (key string, ok bool) {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return "", false
	}
	return string(unicode.ToUpper(r)), true
}
