package features

import (
	"encoding/json"
	"sort"
	"strings"
)

// KeywordSet is the set of distinct whitespace-delimited tokens of a text
type KeywordSet map[string]struct{}

// ExtractKeywords splits text on whitespace. Tokens are kept as they are,
// with no case folding or punctuation stripping.
func ExtractKeywords(text string) KeywordSet {
	set := make(KeywordSet)
	for _, token := range strings.Fields(text) {
		set[token] = struct{}{}
	}
	return set
}

func (s KeywordSet) Len() int {
	return len(s)
}

func (s KeywordSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Intersect returns the tokens present in both sets
func (s KeywordSet) Intersect(other KeywordSet) KeywordSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(KeywordSet)
	for token := range small {
		if large.Contains(token) {
			out[token] = struct{}{}
		}
	}
	return out
}

// Sorted returns the tokens in lexical order
func (s KeywordSet) Sorted() []string {
	tokens := make([]string, 0, len(s))
	for token := range s {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

func (s KeywordSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *KeywordSet) UnmarshalJSON(data []byte) error {
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return err
	}
	set := make(KeywordSet, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	*s = set
	return nil
}
