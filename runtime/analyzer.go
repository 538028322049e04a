package runtime

import (
	"context"
	"sentiment-lab/contract"
	"sentiment-lab/domain"
	"sentiment-lab/scoring"
	"sentiment-lab/textproc"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

var _ contract.CommentAnalyzer = (*Analyzer)(nil)

// Analyzer cleans, tags and scores a single comment.
type Analyzer struct {
	runID     uuid.UUID
	cleaner   *textproc.Cleaner
	scorer    scoring.Scorer
	threshold float64
}

func NewAnalyzer(runID uuid.UUID, cleaner *textproc.Cleaner, scorer scoring.Scorer, threshold float64) *Analyzer {
	return &Analyzer{runID: runID, cleaner: cleaner, scorer: scorer, threshold: threshold}
}

func (a *Analyzer) Analyze(ctx context.Context, seq int, c domain.Comment) domain.Prediction {
	p := domain.Prediction{
		ID:       uuid.New(),
		RunID:    a.runID,
		Seq:      seq,
		Row:      c.Row,
		Raw:      c.Text,
		Lang:     DetectLanguage(c.Text),
		Cleaned:  a.cleaner.Clean(c.Text),
		Expected: c.Label,
		At:       time.Now().UTC(),
	}
	score, err := a.scorer.Score(ctx, scoring.Input{Text: p.Cleaned})
	if err != nil {
		p.Err = err.Error()
		return p
	}
	p.Score = scoring.Clamp(score)
	p.Label = domain.Classify(p.Score, a.threshold)
	return p
}

// DetectLanguage returns the ISO 639-1 code of the raw comment, or "" when
// the text carries no usable signal.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if info.Confidence == 0 {
		return ""
	}
	return info.Lang.Iso6391()
}
