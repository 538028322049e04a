package errors

import "fmt"

var (
	ErrWorkerPanic           = fmt.Errorf("worker panic")
	ErrEmptyWords            = fmt.Errorf("no words have been found")
	ErrUnsupportedInput      = fmt.Errorf("input file is not a text file")
	ErrInvalidColumn         = fmt.Errorf("column index out of range")
	ErrDimensionMismatch     = fmt.Errorf("vector dimension mismatch")
	ErrUnknownDimension      = fmt.Errorf("embedding store has no dimension")
	ErrInvalidModel          = fmt.Errorf("invalid scoring model")
	ErrMissingVector         = fmt.Errorf("scorer requires a comment vector")
	ErrMissingText           = fmt.Errorf("scorer requires a cleaned comment")
	ErrUnknownScorer         = fmt.Errorf("unknown scorer kind")
	ErrSpecialistNotFound    = fmt.Errorf("specialist binary not found")
	ErrSpecialistStartFailed = fmt.Errorf("specialist failed to start")
	ErrSpecialistUnavailable = fmt.Errorf("specialist unavailable")
	ErrInvalidScoreResponse  = fmt.Errorf("invalid score response")
	ErrPredictionNotFound    = fmt.Errorf("prediction not found")
	ErrInvalidDelimiter      = fmt.Errorf("delimiter must be a single character")
)
