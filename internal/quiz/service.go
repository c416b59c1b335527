package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/victornm/quizboard/internal/domain"
	"github.com/victornm/quizboard/internal/errors"
	"github.com/victornm/quizboard/internal/question"
	"github.com/victornm/quizboard/internal/telemetry"
)

// Recorder persists finalized results.
type Recorder interface {
	Record(ctx context.Context, r domain.Result) error
}

type Config struct {
	Bank     *question.Bank
	Recorder Recorder
	// Shuffle draws a new question order for every session.
	Shuffle bool
	// Limit caps the number of questions per session, 0 means all.
	Limit int

	Clock   func() time.Time
	NewSeed func() int64
}

type entry struct {
	mu     sync.Mutex
	runner *Runner
	// touched is read without mu by SweepIdle, which holds Service.mu.
	touched atomic.Int64
}

func (e *entry) touch(t time.Time) { e.touched.Store(t.UnixNano()) }

// Service keeps the in-progress sessions of all clients, keyed by session ID.
type Service struct {
	bank     *question.Bank
	recorder Recorder
	shuffle  bool
	limit    int
	now      func() time.Time
	newSeed  func() int64

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewService(c Config) *Service {
	s := &Service{
		bank:     c.Bank,
		recorder: c.Recorder,
		shuffle:  c.Shuffle,
		limit:    c.Limit,
		now:      c.Clock,
		newSeed:  c.NewSeed,
		sessions: make(map[string]*entry),
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.newSeed == nil {
		s.newSeed = func() int64 {
			// 0 means "no shuffle", keep drawing until we get something else.
			for {
				if n := rand.Int63(); n != 0 {
					return n
				}
			}
		}
	}

	return s
}

// SessionView is a snapshot of a session. Question is nil once the session is complete.
type SessionView struct {
	SessionID      string
	PlayerName     string
	State          State
	CurrentIndex   int
	TotalQuestions int
	Score          int
	Question       *domain.Question
}

func view(s *Session) *SessionView {
	v := &SessionView{
		SessionID:      s.ID,
		PlayerName:     s.PlayerName,
		State:          s.State(),
		CurrentIndex:   s.CurrentIndex(),
		TotalQuestions: s.TotalQuestions(),
		Score:          s.Score(),
	}

	if q, err := s.CurrentQuestion(); err == nil {
		v.Question = &q
	}

	return v
}

type StartSessionRequest struct {
	Name string
}

// StartSession creates a session for the given player.
func (s *Service) StartSession(ctx context.Context, req StartSessionRequest) (*SessionView, error) {
	var seed int64
	if s.shuffle {
		seed = s.newSeed()
	}

	ss, err := Start(req.Name, s.bank.Order(seed, s.limit))
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}
	ss.ID = id.String()
	ss.Seed = seed

	e := &entry{runner: NewRunner(ss, WithClock(s.now))}
	e.touch(s.now())

	s.mu.Lock()
	s.sessions[ss.ID] = e
	s.mu.Unlock()

	telemetry.SessionStarted()
	slog.InfoContext(ctx, "quiz: session started", "session", ss.ID, "player", ss.PlayerName, "seed", seed)

	return view(ss), nil
}

type GetSessionRequest struct {
	SessionID string
}

func (s *Service) GetSession(_ context.Context, req GetSessionRequest) (*SessionView, error) {
	e, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return view(e.runner.Session()), nil
}

type SubmitAnswerRequest struct {
	SessionID string
	Choice    string
}

type SubmitAnswerResponse struct {
	Answer  domain.Answer
	Session *SessionView
	// Result is set on the answer that completes the session.
	Result *domain.Result
}

// SubmitAnswer answers the current question. The answer that completes the session
// finalizes it, records the result and removes the session. If recording fails the
// error is returned together with a response holding the Result.
func (s *Service) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*SubmitAnswerResponse, error) {
	e, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.runner.SubmitAnswer(req.Choice)
	if err != nil {
		return nil, err
	}
	e.touch(s.now())
	telemetry.AnswerSubmitted(a.Correct)

	ss := e.runner.Session()
	resp := &SubmitAnswerResponse{
		Answer:  a,
		Session: view(ss),
	}

	if ss.State() != StateComplete {
		return resp, nil
	}

	r, err := e.runner.Finalize()
	if err != nil {
		return nil, err
	}
	s.discard(ss.ID)
	telemetry.SessionCompleted()

	slog.InfoContext(ctx, "quiz: session completed",
		"session", ss.ID,
		"player", r.Name,
		"score", r.Score,
		"percentage", r.Percentage,
	)

	// The session is gone at this point, so the response carries the Result even when recording fails.
	resp.Result = &r
	if err := s.recorder.Record(ctx, r); err != nil {
		return resp, fmt.Errorf("record result: session=%s: %w", ss.ID, err)
	}

	return resp, nil
}

// SweepIdle drops sessions nobody touched for longer than idle and returns how many were dropped.
func (s *Service) SweepIdle(ctx context.Context, idle time.Duration) int {
	deadline := s.now().Add(-idle).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for id, e := range s.sessions {
		if e.touched.Load() < deadline {
			delete(s.sessions, id)
			n++
		}
	}

	if n > 0 {
		telemetry.SessionsDiscarded(n)
		slog.InfoContext(ctx, "quiz: idle sessions dropped", "count", n)
	}

	return n
}

func (s *Service) lookup(id string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, errors.New(errors.CodeNotFound, errors.WithMessagef("session not found: session=%s", id))
	}

	return e, nil
}

func (s *Service) discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		telemetry.SessionsDiscarded(1)
	}
}
