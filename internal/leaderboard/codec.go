package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/victornm/quizboard/internal/domain"
)

// ParseError reports a persisted value that is not a well-formed list of results.
type ParseError struct {
	err error
}

func (e *ParseError) Error() string { return "leaderboard: malformed value: " + e.err.Error() }
func (e *ParseError) Unwrap() error { return e.err }

// record is the persisted layout of a result. Pointers tell a missing field from a zero one.
type record struct {
	Name       *string `json:"name"`
	Score      *int    `json:"score"`
	Percentage *int    `json:"percentage"`
	Date       *string `json:"date"`
}

func encode(rs []domain.Result) ([]byte, error) {
	recs := make([]record, 0, len(rs))
	for _, r := range rs {
		r := r
		recs = append(recs, record{
			Name:       &r.Name,
			Score:      &r.Score,
			Percentage: &r.Percentage,
			Date:       &r.Date,
		})
	}

	return json.Marshal(recs)
}

// decode parses a persisted value. An absent or null value decodes to an empty list.
func decode(b []byte) ([]domain.Result, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	var recs []record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, &ParseError{err: err}
	}
	if recs == nil {
		return nil, nil
	}

	rs := make([]domain.Result, 0, len(recs))
	for i, rec := range recs {
		if err := rec.validate(); err != nil {
			return nil, &ParseError{err: fmt.Errorf("record %d: %w", i, err)}
		}

		rs = append(rs, domain.Result{
			Name:       *rec.Name,
			Score:      *rec.Score,
			Percentage: *rec.Percentage,
			Date:       *rec.Date,
		})
	}

	return rs, nil
}

func (r record) validate() error {
	switch {
	case r.Name == nil:
		return fmt.Errorf("name is missing")
	case r.Score == nil:
		return fmt.Errorf("score is missing")
	case r.Percentage == nil:
		return fmt.Errorf("percentage is missing")
	case r.Date == nil:
		return fmt.Errorf("date is missing")
	case *r.Score < 0:
		return fmt.Errorf("score is negative: %d", *r.Score)
	case *r.Percentage < 0 || *r.Percentage > 100:
		return fmt.Errorf("percentage out of range: %d", *r.Percentage)
	}

	return nil
}

// decodeOrEmpty is the recovery boundary: malformed data is logged and read as an empty leaderboard.
func decodeOrEmpty(ctx context.Context, b []byte) []domain.Result {
	rs, err := decode(b)
	if err != nil {
		slog.WarnContext(ctx, "leaderboard: discarding malformed value", "error", err)
		return nil
	}

	return rs
}
