package quiz

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/victornm/quizboard/internal/domain"
	"github.com/victornm/quizboard/internal/errors"
)

// DateLayout renders the completion time of a result.
const DateLayout = "1/2/2006, 3:04:05 PM"

var hundred = decimal.NewFromInt(100)

// Runner advances a Session one answer at a time.
type Runner struct {
	s   *Session
	now func() time.Time
}

type RunnerOption func(*Runner)

// WithClock sets the clock used to date the result.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

func NewRunner(s *Session, opts ...RunnerOption) *Runner {
	r := &Runner{
		s:   s,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Runner) Session() *Session { return r.s }

// SubmitAnswer records choice against the current question. A complete session
// is left untouched and OutOfRange is returned.
func (r *Runner) SubmitAnswer(choice string) (domain.Answer, error) {
	s := r.s

	if s.index >= len(s.questions) {
		return domain.Answer{}, errors.OutOfRange("all %d questions are already answered", len(s.questions))
	}

	q := s.questions[s.index]
	a := domain.Answer{
		QuestionID: q.QuestionID,
		Choice:     choice,
		Correct:    choice == q.CorrectOptionID,
	}

	if a.Correct {
		s.score++
	}
	s.answers = append(s.answers, a)
	s.index++

	return a, nil
}

// Finalize derives the result of a complete session. It succeeds once per session.
func (r *Runner) Finalize() (domain.Result, error) {
	s := r.s

	if s.State() != StateComplete {
		return domain.Result{}, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session is not complete: %d of %d answered", s.index, len(s.questions)))
	}

	if s.finalized {
		return domain.Result{}, errors.New(errors.CodeFailedPrecondition,
			errors.WithMessagef("session is already finalized"))
	}
	s.finalized = true

	return domain.Result{
		Name:       s.PlayerName,
		Score:      s.score,
		Percentage: Percentage(s.score, len(s.questions)),
		Date:       r.now().Format(DateLayout),
	}, nil
}

// Percentage returns round(score / total * 100), rounding halves up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}

	return int(decimal.NewFromInt(int64(score)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart())
}
