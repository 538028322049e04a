package repositories

import (
	"fmt"
	"sentiment-lab/domain"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Values are stored as protobuf-encoded google.protobuf.Struct messages.

func marshalPrediction(p domain.Prediction) ([]byte, error) {
	fields := map[string]any{
		"id":      p.ID.String(),
		"run_id":  p.RunID.String(),
		"seq":     p.Seq,
		"row":     p.Row,
		"raw":     p.Raw,
		"cleaned": p.Cleaned,
		"lang":    p.Lang,
		"score":   p.Score,
		"label":   string(p.Label),
		"err":     p.Err,
		"at":      p.At.UTC().Format(time.RFC3339Nano),
	}
	if p.Expected != nil {
		fields["expected"] = *p.Expected
	}
	return marshalStruct(fields)
}

func unmarshalPrediction(b []byte) (domain.Prediction, error) {
	s, err := unmarshalStruct(b)
	if err != nil {
		return domain.Prediction{}, err
	}
	f := s.GetFields()
	id, err := uuid.Parse(f["id"].GetStringValue())
	if err != nil {
		return domain.Prediction{}, err
	}
	runID, err := uuid.Parse(f["run_id"].GetStringValue())
	if err != nil {
		return domain.Prediction{}, err
	}
	p := domain.Prediction{
		ID:      id,
		RunID:   runID,
		Seq:     int(f["seq"].GetNumberValue()),
		Row:     int(f["row"].GetNumberValue()),
		Raw:     f["raw"].GetStringValue(),
		Cleaned: f["cleaned"].GetStringValue(),
		Lang:    f["lang"].GetStringValue(),
		Score:   f["score"].GetNumberValue(),
		Label:   domain.Label(f["label"].GetStringValue()),
		Err:     f["err"].GetStringValue(),
		At:      parseTime(f["at"]),
	}
	if expected, ok := f["expected"]; ok {
		p.Expected = lo.ToPtr(int(expected.GetNumberValue()))
	}
	return p, nil
}

func marshalRun(run domain.Run) ([]byte, error) {
	r := run.Report
	return marshalStruct(map[string]any{
		"id":       run.ID.String(),
		"source":   run.Source,
		"scorer":   run.Scorer,
		"skipped":  run.Skipped,
		"started":  run.Started.UTC().Format(time.RFC3339Nano),
		"finished": run.Finished.UTC().Format(time.RFC3339Nano),
		"report": map[string]any{
			"threshold":      r.Threshold,
			"total":          r.Total,
			"positive":       r.Positive,
			"negative":       r.Negative,
			"failed":         r.Failed,
			"positive_ratio": r.PositiveRatio,
			"negative_ratio": r.NegativeRatio,
			"labelled":       r.Labelled,
			"correct":        r.Correct,
			"accuracy":       r.Accuracy,
		},
	})
}

func unmarshalRun(b []byte) (domain.Run, error) {
	s, err := unmarshalStruct(b)
	if err != nil {
		return domain.Run{}, err
	}
	f := s.GetFields()
	id, err := uuid.Parse(f["id"].GetStringValue())
	if err != nil {
		return domain.Run{}, err
	}
	r := f["report"].GetStructValue().GetFields()
	number := func(key string) float64 { return r[key].GetNumberValue() }
	return domain.Run{
		ID:       id,
		Source:   f["source"].GetStringValue(),
		Scorer:   f["scorer"].GetStringValue(),
		Skipped:  int(f["skipped"].GetNumberValue()),
		Started:  parseTime(f["started"]),
		Finished: parseTime(f["finished"]),
		Report: domain.Report{
			Threshold:     number("threshold"),
			Total:         int(number("total")),
			Positive:      int(number("positive")),
			Negative:      int(number("negative")),
			Failed:        int(number("failed")),
			PositiveRatio: number("positive_ratio"),
			NegativeRatio: number("negative_ratio"),
			Labelled:      int(number("labelled")),
			Correct:       int(number("correct")),
			Accuracy:      number("accuracy"),
		},
	}, nil
}

// Times are kept as RFC 3339 strings: struct numbers are float64 and would
// round nanosecond timestamps.
func parseTime(v *structpb.Value) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v.GetStringValue())
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func marshalStruct(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return proto.Marshal(s)
}

func unmarshalStruct(b []byte) (*structpb.Struct, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return &s, nil
}

// Describe summarizes a stored value for inspection tools. kind is "RUN",
// "PREDICTION" or "UNKNOWN".
func Describe(key string, value []byte) (kind, detail, scores string, err error) {
	switch {
	case strings.HasPrefix(key, runPrefix):
		run, err := unmarshalRun(value)
		if err != nil {
			return "", "", "", err
		}
		return "RUN", fmt.Sprintf("%s (%s, %d comments)", run.Source, run.Scorer, run.Report.Total),
			fmt.Sprintf("positive:%.2f negative:%.2f", run.Report.PositiveRatio, run.Report.NegativeRatio), nil
	case strings.HasPrefix(key, predictionPrefix):
		p, err := unmarshalPrediction(value)
		if err != nil {
			return "", "", "", err
		}
		if p.Failed() {
			return "PREDICTION", p.Raw, "error:" + p.Err, nil
		}
		return "PREDICTION", p.Raw, fmt.Sprintf("%s:%.2f", p.Label, p.Score), nil
	default:
		return "UNKNOWN", "", "", nil
	}
}
