package search

import (
	"strconv"
	"strings"
)

const defaultLimit = 10

// Query represents the structured parameters for a prediction search.
// It decouples the raw user input from the actual index requirements.
type Query struct {
	RawInput string   // The original input from the user
	Terms    string   // The actual text to search in Bluge
	RunID    string   // Restrict to a single run
	Label    string   // "positive" or "negative"
	MinScore *float64 // Inclusive lower bound
	MaxScore *float64 // Inclusive upper bound
	Limit    int      // Number of results
}

// NewSearchQuery parses a raw string to extract command-line style arguments.
// Example: /find "refund" --min 0.8 --label positive --run 5f0c...
func NewSearchQuery(input string) *Query {
	query := &Query{
		RawInput: input,
		Limit:    defaultLimit,
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "run":
				query.RunID = val
			case "label":
				query.Label = strings.ToLower(val)
			case "limit":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					query.Limit = n
				}
			case "min":
				if score, err := strconv.ParseFloat(val, 64); err == nil {
					query.MinScore = &score
				}
			case "max":
				if score, err := strconv.ParseFloat(val, 64); err == nil {
					query.MaxScore = &score
				}
			}
			i++ // Skip the value part in next iteration
			continue
		}

		if !strings.HasPrefix(part, "/") {
			textTerms = append(textTerms, strings.Trim(part, `"`))
		}
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}
