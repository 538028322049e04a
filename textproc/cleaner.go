package textproc

import (
	"sentiment-lab/domain"
	"sentiment-lab/normalizer"
	"strings"
)

// Cleaner chains normalization, tokenization, lemmatization and stop-word
// filtering. It never returns an empty string: a comment with no surviving
// token becomes domain.InsignificantComment.
type Cleaner struct {
	normalizer *normalizer.Normalizer
	tokenizer  *Tokenizer
	lemmatizer *Lemmatizer
	stopWords  StopWords
}

func NewCleaner(n *normalizer.Normalizer, lemmatizer *Lemmatizer, stopWords StopWords) *Cleaner {
	return &Cleaner{
		normalizer: n,
		tokenizer:  NewTokenizer(),
		lemmatizer: lemmatizer,
		stopWords:  stopWords,
	}
}

// Clean turns a raw comment into lemmatized, stop-word-free tokens joined by single spaces.
func (c *Cleaner) Clean(raw string) string {
	tokens := c.tokenizer.Tokenize(c.normalizer.Normalize(raw))
	tokens = FilterStopWords(c.lemmatizer.Lemmatize(tokens), c.stopWords)
	if len(tokens) == 0 {
		tokens = []string{domain.InsignificantComment}
	}
	return strings.Join(tokens, " ")
}

// CleanAll cleans every comment, keeping input order.
func (c *Cleaner) CleanAll(raws []string) []string {
	cleaned := make([]string, len(raws))
	for i, raw := range raws {
		cleaned[i] = c.Clean(raw)
	}
	return cleaned
}
