package quiz

import (
	"strings"

	"github.com/victornm/quizboard/internal/domain"
	"github.com/victornm/quizboard/internal/errors"
)

type State int

const (
	StateInProgress State = iota
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ErrSessionComplete is returned when there is no question left to answer.
var ErrSessionComplete = errors.OutOfRange("session is complete")

// Session is the state of one play-through. It is owned by a single caller and
// is not safe for concurrent use.
//
// len(answers) == index and score <= len(answers) hold after every operation.
type Session struct {
	ID         string
	PlayerName string
	// Seed the question order was shuffled with, 0 when the bank order is kept.
	Seed int64

	questions []domain.Question
	index     int
	score     int
	answers   []domain.Answer
	finalized bool
}

// Start begins a play-through for name over the given questions.
func Start(name string, questions []domain.Question) (*Session, error) {
	// Results are stored as JSON, which cannot carry invalid UTF-8.
	name = strings.ToValidUTF8(strings.TrimSpace(name), "\uFFFD")
	if name == "" {
		return nil, errors.Validation("please enter your name")
	}

	if len(questions) == 0 {
		return nil, errors.Validation("quiz has no questions")
	}

	qs := make([]domain.Question, len(questions))
	copy(qs, questions)

	return &Session{
		PlayerName: name,
		questions:  qs,
		answers:    make([]domain.Answer, 0, len(qs)),
	}, nil
}

// CurrentQuestion returns the question to answer next, or ErrSessionComplete.
func (s *Session) CurrentQuestion() (domain.Question, error) {
	if s.index >= len(s.questions) {
		return domain.Question{}, ErrSessionComplete
	}

	return s.questions[s.index], nil
}

func (s *Session) State() State {
	if s.index >= len(s.questions) {
		return StateComplete
	}

	return StateInProgress
}

func (s *Session) CurrentIndex() int   { return s.index }
func (s *Session) Score() int          { return s.score }
func (s *Session) TotalQuestions() int { return len(s.questions) }

// Answers returns a copy of the answer history.
func (s *Session) Answers() []domain.Answer {
	out := make([]domain.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}
