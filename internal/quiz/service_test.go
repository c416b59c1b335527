package quiz_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/quizboard/internal/domain"
	"github.com/victornm/quizboard/internal/errors"
	"github.com/victornm/quizboard/internal/leaderboard"
	"github.com/victornm/quizboard/internal/quiz"
)

type recorder struct {
	mu      sync.Mutex
	results []domain.Result
	err     error
}

func (r *recorder) Record(_ context.Context, res domain.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.results = append(r.results, res)
	return nil
}

func TestService_PlayThrough(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s := makeService(t, withRecorder(rec))

	v, err := s.StartSession(ctx, quiz.StartSessionRequest{Name: " Ada "})
	require.NoError(t, err)
	require.NotEmpty(t, v.SessionID)
	require.Equal(t, "Ada", v.PlayerName)
	require.Equal(t, 5, v.TotalQuestions)
	require.NotNil(t, v.Question)

	choices := []string{"a", "a", "b", "a", "b"}
	var last *quiz.SubmitAnswerResponse
	for i, c := range choices {
		last, err = s.SubmitAnswer(ctx, quiz.SubmitAnswerRequest{SessionID: v.SessionID, Choice: c})
		require.NoError(t, err)
		require.Equal(t, i+1, last.Session.CurrentIndex)

		if i < len(choices)-1 {
			require.Nil(t, last.Result)
		}
	}

	require.Equal(t, quiz.StateComplete, last.Session.State)
	require.Nil(t, last.Session.Question)
	require.Equal(t, &domain.Result{
		Name:       "Ada",
		Score:      3,
		Percentage: 60,
		Date:       completedAt.Format(quiz.DateLayout),
	}, last.Result)
	require.Equal(t, []domain.Result{*last.Result}, rec.results)

	_, err = s.GetSession(ctx, quiz.GetSessionRequest{SessionID: v.SessionID})
	requireCode(t, err, errors.CodeNotFound)

	_, err = s.SubmitAnswer(ctx, quiz.SubmitAnswerRequest{SessionID: v.SessionID, Choice: "a"})
	requireCode(t, err, errors.CodeNotFound)
}

func TestService_StartSession_InvalidName(t *testing.T) {
	s := makeService(t)

	_, err := s.StartSession(context.Background(), quiz.StartSessionRequest{Name: "  "})
	requireCode(t, err, errors.CodeInvalidArgument)
}

func TestService_GetSession(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)

	v, err := s.StartSession(ctx, quiz.StartSessionRequest{Name: "Ada"})
	require.NoError(t, err)

	_, err = s.SubmitAnswer(ctx, quiz.SubmitAnswerRequest{SessionID: v.SessionID, Choice: "a"})
	require.NoError(t, err)

	got, err := s.GetSession(ctx, quiz.GetSessionRequest{SessionID: v.SessionID})
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentIndex)
	assert.Equal(t, 1, got.Score)
	assert.Equal(t, quiz.StateInProgress, got.State)
	assert.Equal(t, "B", got.Question.QuestionID)

	_, err = s.GetSession(ctx, quiz.GetSessionRequest{SessionID: "unknown"})
	requireCode(t, err, errors.CodeNotFound)
}

func TestService_Shuffle(t *testing.T) {
	ctx := context.Background()

	order := func(s *quiz.Service) []string {
		v, err := s.StartSession(ctx, quiz.StartSessionRequest{Name: "Ada"})
		require.NoError(t, err)

		var ids []string
		for {
			ids = append(ids, v.Question.QuestionID)
			resp, err := s.SubmitAnswer(ctx, quiz.SubmitAnswerRequest{SessionID: v.SessionID, Choice: "a"})
			require.NoError(t, err)
			if resp.Result != nil {
				return ids
			}
			v = resp.Session
		}
	}

	seed := func() int64 { return 99 }
	a := order(makeService(t, withShuffle(seed)))
	b := order(makeService(t, withShuffle(seed)))

	assert.Equal(t, a, b, "the same seed should give the same order")
	assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E"}, a)
}

func TestService_Limit(t *testing.T) {
	s := makeService(t, func(c *quiz.Config) { c.Limit = 2 })

	v, err := s.StartSession(context.Background(), quiz.StartSessionRequest{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, 2, v.TotalQuestions)
}

func TestService_RecordFailure(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("store unavailable")
	s := makeService(t, withRecorder(&recorder{err: boom}), func(c *quiz.Config) { c.Limit = 1 })

	v, err := s.StartSession(ctx, quiz.StartSessionRequest{Name: "Ada"})
	require.NoError(t, err)

	resp, err := s.SubmitAnswer(ctx, quiz.SubmitAnswerRequest{SessionID: v.SessionID, Choice: "a"})
	require.ErrorIs(t, err, boom)
	require.NotNil(t, resp)
	assert.Equal(t, &domain.Result{
		Name:       "Ada",
		Score:      1,
		Percentage: 100,
		Date:       completedAt.Format(quiz.DateLayout),
	}, resp.Result)
	assert.Equal(t, quiz.StateComplete, resp.Session.State)
}

func TestService_RecordedResultLoadsBackUnchanged(t *testing.T) {
	ctx := context.Background()
	store := leaderboard.NewMemoryStore()
	s := makeService(t, withRecorder(leaderboard.NewService(leaderboard.Config{Store: store})), func(c *quiz.Config) { c.Limit = 1 })

	v, err := s.StartSession(ctx, quiz.StartSessionRequest{Name: "Ad\xffa"})
	require.NoError(t, err)

	resp, err := s.SubmitAnswer(ctx, quiz.SubmitAnswerRequest{SessionID: v.SessionID, Choice: "a"})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *resp.Result, got[0])
	assert.Equal(t, v.PlayerName, got[0].Name)
}

func TestService_SweepIdle(t *testing.T) {
	ctx := context.Background()
	now := completedAt
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	s := makeService(t, func(c *quiz.Config) { c.Clock = clock })

	idle, err := s.StartSession(ctx, quiz.StartSessionRequest{Name: "Idle"})
	require.NoError(t, err)

	advance(20 * time.Minute)

	active, err := s.StartSession(ctx, quiz.StartSessionRequest{Name: "Active"})
	require.NoError(t, err)

	advance(15 * time.Minute)

	require.Equal(t, 1, s.SweepIdle(ctx, 30*time.Minute))

	_, err = s.GetSession(ctx, quiz.GetSessionRequest{SessionID: idle.SessionID})
	requireCode(t, err, errors.CodeNotFound)

	_, err = s.GetSession(ctx, quiz.GetSessionRequest{SessionID: active.SessionID})
	require.NoError(t, err)
}

func TestService_ConcurrentSubmissions(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s := makeService(t, withRecorder(rec))

	v, err := s.StartSession(ctx, quiz.StartSessionRequest{Name: "Ada"})
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.SubmitAnswer(ctx, quiz.SubmitAnswerRequest{SessionID: v.SessionID, Choice: "a"})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, accepted)
	require.Len(t, rec.results, 1)
	assert.Equal(t, 5, rec.results[0].Score)
}

func makeService(t *testing.T, opts ...option) *quiz.Service {
	c := quiz.Config{
		Bank:     bank(t, 5),
		Recorder: &recorder{},
		Clock:    fixedClock,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return quiz.NewService(c)
}

type option func(c *quiz.Config)

func withRecorder(r quiz.Recorder) option {
	return func(c *quiz.Config) {
		c.Recorder = r
	}
}

func withShuffle(seed func() int64) option {
	return func(c *quiz.Config) {
		c.Shuffle = true
		c.NewSeed = seed
	}
}
