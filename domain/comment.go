// Package domain contains core concepts of the sentiment pipeline.
// Comments are immutable inputs; every transform returns a new value.
package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// InsignificantComment replaces a cleaned comment left empty after stop-word filtering.
	InsignificantComment = "INSIGNIFICANT_COMMENT"
	// EmptyCommentToken is the reserved embedding key used when no token of a comment is in the vocabulary.
	EmptyCommentToken = "<empty_comment>"
)

// Comment is a raw social-media comment as read from the input.
type Comment struct {
	Row   int
	Text  string
	Label *int // ground truth, only when the input has a label column
}

// Label is the class assigned to a score under a threshold.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
)

// Classify returns Positive when score >= threshold.
func Classify(score, threshold float64) Label {
	if score >= threshold {
		return Positive
	}
	return Negative
}

// Prediction is the outcome of scoring a single comment.
type Prediction struct {
	ID       uuid.UUID
	RunID    uuid.UUID
	Seq      int
	Row      int
	Raw      string
	Cleaned  string
	Lang     string
	Score    float64
	Label    Label
	Expected *int
	Err      string
	At       time.Time
}

// Failed reports whether the scorer could not produce a score.
func (p Prediction) Failed() bool {
	return p.Err != ""
}
