package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run is one classification pass over an input file.
type Run struct {
	ID       uuid.UUID
	Source   string
	Scorer   string
	Skipped  int
	Report   Report
	Started  time.Time
	Finished time.Time
}
