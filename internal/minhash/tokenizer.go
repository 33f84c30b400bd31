package minhash

import (
	"regexp"
	"strings"
)

// tokenSplitter matches runs of characters that are NOT a Cyrillic letter,
// Latin letter, digit, or underscore; tokens are the non-empty maximal
// substrings between such runs.
var tokenSplitter = regexp.MustCompile(`[^А-Яа-яёЁA-Za-z_0-9]+`)

// tokenize lowercases text (Unicode-aware, so Cyrillic and Latin uppercase
// fold to their lowercase counterparts) and splits it into tokens,
// discarding empties.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	parts := tokenSplitter.Split(lower, -1)

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
