// Package textproc holds the word-level stages applied after normalization:
// tokenization, lemmatization and stop-word filtering.
package textproc

import (
	"github.com/blugelabs/bluge/analysis/tokenizer"
)

// Tokenizer splits text on Unicode (UAX #29) word boundaries.
type Tokenizer struct {
	unicode *tokenizer.UnicodeTokenizer
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{unicode: tokenizer.NewUnicodeTokenizer()}
}

// Tokenize returns the words of s in order. Segments that are not words
// (spaces, punctuation, a lone underscore) are dropped.
func (t *Tokenizer) Tokenize(s string) []string {
	stream := t.unicode.Tokenize([]byte(s))
	tokens := make([]string, 0, len(stream))
	for _, token := range stream {
		tokens = append(tokens, string(token.Term))
	}
	return tokens
}
