// Package search scores documents against each other by content and by
// layout.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits text into lowercase word tokens. A word is a run of
// letters, digits or underscores at least two runes long.
func Tokenize(text string) []string {
	f := func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c) && c != '_'
	}
	fields := strings.FieldsFunc(strings.ToLower(text), f)
	tokens := fields[:0]
	for _, field := range fields {
		if utf8.RuneCountInString(field) >= 2 {
			tokens = append(tokens, field)
		}
	}
	return tokens
}
