package normalizer

import (
	"sort"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// contractionTable maps a contracted form to its full form. Keys are lowercase
// and use the ASCII apostrophe; typographic apostrophes are folded before matching.
var contractionTable = map[string]string{
	"ain't":     "am not",
	"aren't":    "are not",
	"can't":     "can not",
	"can't've":  "can not have",
	"'cause":    "because",
	"could've":  "could have",
	"couldn't":  "could not",
	"didn't":    "did not",
	"doesn't":   "does not",
	"don't":     "do not",
	"hadn't":    "had not",
	"hasn't":    "has not",
	"haven't":   "have not",
	"he'd":      "he would",
	"he'll":     "he will",
	"he's":      "he is",
	"how'd":     "how did",
	"how'll":    "how will",
	"how's":     "how is",
	"i'd":       "i would",
	"i'll":      "i will",
	"i'm":       "i am",
	"i've":      "i have",
	"isn't":     "is not",
	"it'd":      "it would",
	"it'll":     "it will",
	"it's":      "it is",
	"let's":     "let us",
	"ma'am":     "madam",
	"mightn't":  "might not",
	"might've":  "might have",
	"mustn't":   "must not",
	"must've":   "must have",
	"needn't":   "need not",
	"shan't":    "shall not",
	"she'd":     "she would",
	"she'll":    "she will",
	"she's":     "she is",
	"should've": "should have",
	"shouldn't": "should not",
	"that'd":    "that would",
	"that's":    "that is",
	"there'd":   "there would",
	"there's":   "there is",
	"they'd":    "they would",
	"they'll":   "they will",
	"they're":   "they are",
	"they've":   "they have",
	"wasn't":    "was not",
	"we'd":      "we would",
	"we'll":     "we will",
	"we're":     "we are",
	"we've":     "we have",
	"weren't":   "were not",
	"what'll":   "what will",
	"what're":   "what are",
	"what's":    "what is",
	"what've":   "what have",
	"where'd":   "where did",
	"where's":   "where is",
	"who'll":    "who will",
	"who's":     "who is",
	"who've":    "who have",
	"why's":     "why is",
	"won't":     "will not",
	"would've":  "would have",
	"wouldn't":  "would not",
	"y'all":     "you all",
	"you'd":     "you would",
	"you'll":    "you will",
	"you're":    "you are",
	"you've":    "you have",
	"gonna":     "going to",
	"gotta":     "got to",
	"wanna":     "want to",
	"gimme":     "give me",
	"kinda":     "kind of",
	"o'clock":   "of the clock",
	"ya'll":     "you all",
}

var apostropheFolder = strings.NewReplacer("’", "'", "‘", "'", "´", "'", "`", "'")

// Contractions expands contracted word forms using an Aho-Corasick automaton
// built once over the expansion table.
type Contractions struct {
	matcher    *goahocorasick.Machine
	expansions map[string]string
}

// NewContractions builds the automaton over the built-in table merged with extra entries.
func NewContractions(extra map[string]string) (*Contractions, error) {
	expansions := make(map[string]string, len(contractionTable)+len(extra))
	for k, v := range contractionTable {
		expansions[k] = v
	}
	for k, v := range extra {
		k = apostropheFolder.Replace(strings.ToLower(strings.TrimSpace(k)))
		if k == "" {
			continue
		}
		expansions[k] = v
	}

	words := make([]string, 0, len(expansions))
	for word := range expansions {
		words = append(words, word)
	}
	sort.Strings(words)
	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = []rune(word)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Contractions{matcher: m, expansions: expansions}, nil
}

type span struct {
	start, end int
	word       string
}

// Expand replaces every whole-word contraction of a lowercase input.
// Matches inside a longer word are ignored; for overlapping matches the
// leftmost, then longest, wins.
func (c *Contractions) Expand(input string) string {
	folded := []rune(apostropheFolder.Replace(input))
	if len(folded) == 0 {
		return input
	}

	terms := c.matcher.MultiPatternSearch(folded, false)
	if len(terms) == 0 {
		return string(folded)
	}

	spans := make([]span, 0, len(terms))
	for _, term := range terms {
		start := term.Pos
		end := start + len(term.Word)
		if start < 0 || end > len(folded) {
			continue
		}
		if !isBoundary(folded, start-1) || !isBoundary(folded, end) {
			continue
		}
		spans = append(spans, span{start: start, end: end, word: string(term.Word)})
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var sb strings.Builder
	cursor := 0
	for _, s := range spans {
		if s.start < cursor {
			continue
		}
		sb.WriteString(string(folded[cursor:s.start]))
		sb.WriteString(c.expansions[s.word])
		cursor = s.end
	}
	sb.WriteString(string(folded[cursor:]))
	return sb.String()
}

// isBoundary reports whether the rune at idx does not continue a word.
// Out-of-range positions are boundaries.
func isBoundary(runes []rune, idx int) bool {
	if idx < 0 || idx >= len(runes) {
		return true
	}
	r := runes[idx]
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
