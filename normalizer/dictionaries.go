package normalizer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
)

// Keys are matched against whitespace-delimited tokens after lowercasing,
// so ":D" is looked up as ":d".
var defaultEmoticons = map[string]string{
	":)":   "smile",
	":-)":  "smile",
	"=)":   "smile",
	":]":   "smile",
	"(:":   "smile",
	":))":  "happy",
	"^^":   "happy",
	"^_^":  "happy",
	":d":   "laugh",
	":-d":  "laugh",
	"xd":   "laugh",
	":(":   "sad",
	":-(":  "sad",
	"=(":   "sad",
	":[":   "sad",
	"):":   "sad",
	":'(":  "cry",
	";(":   "cry",
	";)":   "wink",
	";-)":  "wink",
	":p":   "playful",
	":-p":  "playful",
	";p":   "playful",
	":o":   "surprise",
	":-o":  "surprise",
	"o_o":  "shock",
	":/":   "skeptical",
	":-/":  "skeptical",
	":|":   "neutral",
	":-|":  "neutral",
	"-_-":  "annoyed",
	"<3":   "love",
	"</3":  "heartbreak",
	":*":   "kiss",
	":-*":  "kiss",
	">:(":  "angry",
	">:-(": "angry",
}

var defaultAbbreviations = map[string]string{
	"u":     "you",
	"r":     "are",
	"ur":    "your",
	"y":     "why",
	"k":     "ok",
	"kk":    "ok",
	"lol":   "laughing out loud",
	"lmao":  "laughing my ass off",
	"rofl":  "rolling on the floor laughing",
	"omg":   "oh my god",
	"btw":   "by the way",
	"idk":   "i do not know",
	"imo":   "in my opinion",
	"imho":  "in my humble opinion",
	"tbh":   "to be honest",
	"smh":   "shaking my head",
	"fyi":   "for your information",
	"afaik": "as far as i know",
	"asap":  "as soon as possible",
	"brb":   "be right back",
	"nvm":   "never mind",
	"irl":   "in real life",
	"thx":   "thanks",
	"ty":    "thank you",
	"pls":   "please",
	"plz":   "please",
	"bc":    "because",
	"cuz":   "because",
	"b4":    "before",
	"gr8":   "great",
	"2day":  "today",
	"2nite": "tonight",
	"2moro": "tomorrow",
	"4u":    "for you",
	"w/":    "with",
	"w/o":   "without",
	"ppl":   "people",
	"msg":   "message",
	"dm":    "direct message",
	"rt":    "retweet",
	"bday":  "birthday",
	"gf":    "girlfriend",
	"bf":    "boyfriend",
	"wtf":   "what the fuck",
	"ikr":   "i know right",
	"np":    "no problem",
	"jk":    "just kidding",
}

// DefaultEmoticons returns a copy of the built-in emoticon dictionary.
func DefaultEmoticons() map[string]string {
	return lo.Assign(defaultEmoticons)
}

// DefaultAbbreviations returns a copy of the built-in abbreviation dictionary.
func DefaultAbbreviations() map[string]string {
	return lo.Assign(defaultAbbreviations)
}

// LoadDictionary reads "token,replacement" rows. Rows without exactly two
// fields or with an empty token are skipped. Tokens are lowercased.
func LoadDictionary(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	dict := make(map[string]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dictionary: %w", err)
		}
		if len(record) != 2 {
			continue
		}
		token := strings.ToLower(strings.TrimSpace(record[0]))
		if token == "" {
			continue
		}
		dict[token] = strings.TrimSpace(record[1])
	}
	return dict, nil
}

// LoadDictionaryFile is LoadDictionary over a file; an empty path yields an empty dictionary.
func LoadDictionaryFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDictionary(f)
}
