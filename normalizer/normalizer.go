// Package normalizer turns a raw comment into a cleaned lowercase string.
// The normalizer is immutable once built and safe for concurrent use.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const (
	// MentionPlaceholder replaces @username mentions.
	MentionPlaceholder = "at_user"
	// URLPlaceholder replaces http(s) links.
	URLPlaceholder = "url"
)

var (
	mentionPattern    = regexp.MustCompile(`@\w+`)
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	hashtagPattern    = regexp.MustCompile(`#(\S+)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	nonWordPattern    = regexp.MustCompile(`[^a-zA-Z_ ]`)
)

// Normalizer applies the cleaning rules in a fixed order: lowercase,
// contractions, emoticons, abbreviations, mentions, URLs, hashtags,
// whitespace, non-letters, then repeated characters.
type Normalizer struct {
	contractions  *Contractions
	emoticons     map[string]string
	abbreviations map[string]string
}

// Option customizes the dictionaries of a Normalizer.
type Option func(*options)

type options struct {
	emoticons     map[string]string
	abbreviations map[string]string
	contractions  map[string]string
}

// WithEmoticons adds entries to the emoticon dictionary, overriding built-in ones.
func WithEmoticons(dict map[string]string) Option {
	return func(o *options) { o.emoticons = lo.Assign(o.emoticons, lowerKeys(dict)) }
}

// WithAbbreviations adds entries to the abbreviation dictionary, overriding built-in ones.
func WithAbbreviations(dict map[string]string) Option {
	return func(o *options) { o.abbreviations = lo.Assign(o.abbreviations, lowerKeys(dict)) }
}

// WithContractions adds entries to the contraction table.
func WithContractions(dict map[string]string) Option {
	return func(o *options) { o.contractions = lo.Assign(o.contractions, dict) }
}

// New builds a Normalizer from the built-in dictionaries merged with opts.
// It fails only when the contraction table cannot be compiled.
func New(opts ...Option) (*Normalizer, error) {
	o := &options{
		emoticons:     DefaultEmoticons(),
		abbreviations: DefaultAbbreviations(),
	}
	for _, opt := range opts {
		opt(o)
	}
	contractions, err := NewContractions(o.contractions)
	if err != nil {
		return nil, err
	}
	return &Normalizer{
		contractions:  contractions,
		emoticons:     o.emoticons,
		abbreviations: o.abbreviations,
	}, nil
}

// Normalize applies the cleaning rules in order. Each step relies on the
// shape produced by the previous one. The result only holds lowercase ASCII
// letters, underscores and single spaces, and may be empty.
func (n *Normalizer) Normalize(raw string) string {
	comment := strings.ToLower(raw)
	comment = n.contractions.Expand(comment)
	comment = replaceTokens(comment, n.emoticons)
	comment = replaceTokens(comment, n.abbreviations)
	comment = mentionPattern.ReplaceAllString(comment, MentionPlaceholder)
	comment = urlPattern.ReplaceAllString(comment, URLPlaceholder)
	comment = hashtagPattern.ReplaceAllString(comment, "$1")
	comment = whitespacePattern.ReplaceAllString(comment, " ")
	// Replaced by a space, not deleted, so "2024!x" never glues words together.
	comment = nonWordPattern.ReplaceAllString(comment, " ")
	comment = collapseRepeats(comment)
	return strings.Join(strings.Fields(comment), " ")
}

// replaceTokens swaps every whitespace-delimited token found in dict.
func replaceTokens(comment string, dict map[string]string) string {
	words := strings.Fields(comment)
	for i, word := range words {
		if replacement, ok := dict[word]; ok {
			words[i] = replacement
		}
	}
	return strings.Join(words, " ")
}

// collapseRepeats shortens runs of 3 or more identical runes to exactly 2.
func collapseRepeats(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	var prev rune
	run := 0
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		prev = r
		if run <= 2 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func lowerKeys(dict map[string]string) map[string]string {
	return lo.MapKeys(dict, func(_ string, k string) string { return strings.ToLower(k) })
}
