package textproc

import (
	"bufio"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
)

//go:embed invariants_en.txt
var englishInvariants string

// irregular plural forms, looked up before any suffix rule.
var defaultExceptions = map[string]string{
	"men":       "man",
	"women":     "woman",
	"children":  "child",
	"people":    "people",
	"feet":      "foot",
	"teeth":     "tooth",
	"geese":     "goose",
	"mice":      "mouse",
	"lice":      "louse",
	"oxen":      "ox",
	"dice":      "die",
	"lives":     "life",
	"wives":     "wife",
	"knives":    "knife",
	"leaves":    "leaf",
	"wolves":    "wolf",
	"halves":    "half",
	"selves":    "self",
	"shelves":   "shelf",
	"thieves":   "thief",
	"loaves":    "loaf",
	"calves":    "calf",
	"analyses":  "analysis",
	"crises":    "crisis",
	"theses":    "thesis",
	"diagnoses": "diagnosis",
	"criteria":  "criterion",
	"phenomena": "phenomenon",
	"data":      "datum",
	"media":     "medium",
	"cacti":     "cactus",
	"fungi":     "fungus",
	"buses":     "bus",
	"gases":     "gas",
	"heroes":    "hero",
	"potatoes":  "potato",
	"tomatoes":  "tomato",
	"echoes":    "echo",
	"goes":      "go",
	"does":      "does",
	"always":    "always",
	"perhaps":   "perhaps",
	"towards":   "towards",
	"sometimes": "sometimes",
	"besides":   "besides",
	"whereas":   "whereas",
	"series":    "series",
	"species":   "species",
	"news":      "news",
}

// nounRules are the WordNet noun detachment rules, most specific first.
var nounRules = []struct {
	suffix, replacement string
}{
	{"sses", "ss"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"xes", "x"},
	{"zes", "z"},
	{"ies", "y"},
	{"ves", "f"},
	{"ses", "s"},
	{"men", "man"},
	{"s", ""},
}

// keptEndings are never stripped when no lexicon is available.
var keptEndings = []string{"ss", "us", "is", "ous", "ics"}

// Lemmatizer maps a word to its base form, without part-of-speech information.
// With a lexicon it behaves like WordNet's morphy on nouns: the shortest
// candidate found in the lexicon wins. Without a lexicon it applies the
// exception table and conservative plural rules. Unknown words pass through.
type Lemmatizer struct {
	exceptions map[string]string
	lexicon    map[string]struct{}
}

type LemmatizerOption func(*Lemmatizer)

// WithLemmaDictionary adds "form -> lemma" entries to the exception table.
func WithLemmaDictionary(dict map[string]string) LemmatizerOption {
	return func(l *Lemmatizer) { l.exceptions = lo.Assign(l.exceptions, dict) }
}

// WithLexicon restricts rule-based candidates to known base forms.
func WithLexicon(words []string) LemmatizerOption {
	return func(l *Lemmatizer) {
		if len(words) == 0 {
			return
		}
		l.lexicon = lo.SliceToMap(words, func(w string) (string, struct{}) { return w, struct{}{} })
	}
}

// NewLemmatizer builds a lemmatizer from the irregular forms and the
// built-in list of singular words ending in "s", both kept as exceptions.
func NewLemmatizer(opts ...LemmatizerOption) *Lemmatizer {
	invariants, _ := LoadWordList(strings.NewReader(englishInvariants))
	l := &Lemmatizer{exceptions: lo.Assign(
		lo.SliceToMap(invariants, func(w string) (string, string) { return w, w }),
		defaultExceptions,
	)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lemma returns the base form of word, or word itself when no rule applies.
func (l *Lemmatizer) Lemma(word string) string {
	if lemma, ok := l.exceptions[word]; ok {
		return lemma
	}
	if l.lexicon != nil {
		return l.morphy(word)
	}
	return l.guess(word)
}

// Lemmatize maps every token to its lemma, keeping order and length.
func (l *Lemmatizer) Lemmatize(tokens []string) []string {
	return lo.Map(tokens, func(token string, _ int) string { return l.Lemma(token) })
}

func (l *Lemmatizer) morphy(word string) string {
	var candidates []string
	if _, ok := l.lexicon[word]; ok {
		candidates = append(candidates, word)
	}
	for _, rule := range nounRules {
		if !strings.HasSuffix(word, rule.suffix) {
			continue
		}
		base := strings.TrimSuffix(word, rule.suffix) + rule.replacement
		if _, ok := l.lexicon[base]; ok && base != "" {
			candidates = append(candidates, base)
		}
	}
	if len(candidates) == 0 {
		return word
	}
	return lo.MinBy(candidates, func(a, b string) bool { return len(a) < len(b) })
}

func (l *Lemmatizer) guess(word string) string {
	if len(word) < 4 || !isLowerWord(word) {
		return word
	}
	for _, ending := range keptEndings {
		if strings.HasSuffix(word, ending) {
			return word
		}
	}
	for _, rule := range nounRules {
		switch rule.suffix {
		case "ves", "ses", "men":
			// Too ambiguous without a lexicon ("loves", "uses", "amen").
			continue
		}
		if rule.suffix == "ies" && len(word) < 5 {
			continue
		}
		if strings.HasSuffix(word, rule.suffix) {
			return strings.TrimSuffix(word, rule.suffix) + rule.replacement
		}
	}
	return word
}

func isLowerWord(word string) bool {
	for _, r := range word {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// LoadLemmaDictionary reads "form,lemma" rows; other rows are skipped.
func LoadLemmaDictionary(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	dict := make(map[string]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read lemma dictionary: %w", err)
		}
		if len(record) == 2 && record[0] != "" && record[1] != "" {
			dict[strings.ToLower(record[0])] = strings.ToLower(record[1])
		}
	}
	return dict, nil
}

// LoadWordList reads one word per line, ignoring blank lines and # comments.
func LoadWordList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	return words, scanner.Err()
}

// LoadWordListFile is LoadWordList over a file; an empty path yields no words.
func LoadWordListFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadWordList(f)
}
