package textproc

import (
	_ "embed"
	"strings"

	"github.com/samber/lo"
)

//go:embed stopwords_en.txt
var englishStopWords string

// StopWords is a read-only set of tokens excluded after lemmatization.
type StopWords map[string]struct{}

// DefaultStopWords returns the built-in English list merged with extra words.
func DefaultStopWords(extra ...string) StopWords {
	words, _ := LoadWordList(strings.NewReader(englishStopWords))
	return NewStopWords(append(words, extra...)...)
}

// NewStopWords builds a set from exactly the given words.
func NewStopWords(words ...string) StopWords {
	return lo.SliceToMap(words, func(w string) (string, struct{}) { return w, struct{}{} })
}

// Contains reports whether token is a stop word.
func (s StopWords) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// FilterStopWords removes every token present in the set, preserving relative order.
func FilterStopWords(tokens []string, stopWords StopWords) []string {
	return lo.Reject(tokens, func(token string, _ int) bool { return stopWords.Contains(token) })
}
