// Package text provides the shared tokenizer used by query parsing and
// lexical ranking. Both sides must tokenize identically or Jaccard overlap
// becomes meaningless.
package text

import "strings"

// stopWords are filtered out before any lexical comparison.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true, "my": true, "me": true, "i": true,
	"we": true, "our": true, "show": true, "find": true, "need": true,
	"want": true, "looking": true, "some": true, "any": true,
}

// Tokenize lowercases the input, strips non-alphanumeric runes, and drops
// stop words. Token order follows the input.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isAlnum(r)
	})
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if w == "" || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TokenSet returns the distinct tokens of s.
func TokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range Tokenize(s) {
		set[w] = true
	}
	return set
}

// IsStopWord reports whether w is in the stop-word list.
func IsStopWord(w string) bool { return stopWords[w] }

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
}
