package domain

import "github.com/samber/lo"

// Report partitions scores into positive (score >= threshold) and negative classes.
type Report struct {
	Threshold     float64
	Total         int
	Positive      int
	Negative      int
	Failed        int
	PositiveRatio float64
	NegativeRatio float64

	// Filled by WithLabels only.
	Labelled int
	Correct  int
	Accuracy float64
}

// Aggregate is a pure reduction of scores under a threshold.
// An empty input yields a report with zero proportions.
func Aggregate(scores []float64, threshold float64) Report {
	report := Report{Threshold: threshold, Total: len(scores)}
	report.Positive = lo.CountBy(scores, func(s float64) bool { return s >= threshold })
	report.Negative = report.Total - report.Positive
	if report.Total > 0 {
		report.PositiveRatio = float64(report.Positive) / float64(report.Total)
		report.NegativeRatio = float64(report.Negative) / float64(report.Total)
	}
	return report
}

// AggregatePredictions aggregates the scored predictions and counts the failed ones apart.
func AggregatePredictions(predictions []Prediction, threshold float64) Report {
	scored := lo.Reject(predictions, func(p Prediction, _ int) bool { return p.Failed() })
	report := Aggregate(lo.Map(scored, func(p Prediction, _ int) float64 { return p.Score }), threshold)
	report.Failed = len(predictions) - len(scored)
	return report.WithLabels(scored)
}

// WithLabels compares predictions carrying a ground-truth label with their predicted class.
// A label greater than zero is a positive comment.
func (r Report) WithLabels(predictions []Prediction) Report {
	labelled := lo.Filter(predictions, func(p Prediction, _ int) bool { return p.Expected != nil && !p.Failed() })
	r.Labelled = len(labelled)
	r.Correct = lo.CountBy(labelled, func(p Prediction) bool {
		expected := Negative
		if *p.Expected > 0 {
			expected = Positive
		}
		return Classify(p.Score, r.Threshold) == expected
	})
	r.Accuracy = 0
	if r.Labelled > 0 {
		r.Accuracy = float64(r.Correct) / float64(r.Labelled)
	}
	return r
}
