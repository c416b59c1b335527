package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/quizboard/internal/domain"
	"github.com/victornm/quizboard/internal/errors"
	"github.com/victornm/quizboard/internal/quiz"
)

func TestRunner_PlayThrough(t *testing.T) {
	type (
		inputs struct {
			total   int
			choices []string
		}
	)

	tests := map[string]struct {
		arrange func() inputs
		assert  func(t *testing.T, r domain.Result)
	}{
		"3 of 5 correct scores 60%": {
			arrange: func() inputs {
				return inputs{total: 5, choices: []string{"a", "b", "a", "a", "b"}}
			},

			assert: func(t *testing.T, r domain.Result) {
				assert.Equal(t, domain.Result{
					Name:       "Ada",
					Score:      3,
					Percentage: 60,
					Date:       "3/4/2026, 3:07:09 PM",
				}, r)
			},
		},

		"all wrong scores 0%": {
			arrange: func() inputs {
				return inputs{total: 2, choices: []string{"b", "b"}}
			},

			assert: func(t *testing.T, r domain.Result) {
				assert.Equal(t, 0, r.Score)
				assert.Equal(t, 0, r.Percentage)
			},
		},

		"all correct scores 100%": {
			arrange: func() inputs {
				return inputs{total: 3, choices: []string{"a", "a", "a"}}
			},

			assert: func(t *testing.T, r domain.Result) {
				assert.Equal(t, 3, r.Score)
				assert.Equal(t, 100, r.Percentage)
			},
		},

		"2 of 3 rounds to 67%": {
			arrange: func() inputs {
				return inputs{total: 3, choices: []string{"a", "b", "a"}}
			},

			assert: func(t *testing.T, r domain.Result) {
				assert.Equal(t, 67, r.Percentage)
			},
		},

		"choice comparison is exact": {
			arrange: func() inputs {
				return inputs{total: 2, choices: []string{"A", " a"}}
			},

			assert: func(t *testing.T, r domain.Result) {
				assert.Equal(t, 0, r.Score)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			in := tt.arrange()

			s, err := quiz.Start("Ada", questions(t, in.total))
			require.NoError(t, err)
			r := quiz.NewRunner(s, quiz.WithClock(fixedClock))

			for i, c := range in.choices {
				_, err := r.SubmitAnswer(c)
				require.NoError(t, err)

				assert.Equal(t, i+1, s.CurrentIndex())
				assert.Len(t, s.Answers(), s.CurrentIndex())
				assert.LessOrEqual(t, s.Score(), len(s.Answers()))
			}

			require.Equal(t, in.total, s.CurrentIndex())

			res, err := r.Finalize()
			require.NoError(t, err)
			tt.assert(t, res)
		})
	}
}

func TestRunner_SubmitAnswerAfterComplete(t *testing.T) {
	s, err := quiz.Start("Ada", questions(t, 2))
	require.NoError(t, err)
	r := quiz.NewRunner(s)

	for _, c := range []string{"a", "b"} {
		_, err := r.SubmitAnswer(c)
		require.NoError(t, err)
	}

	before := s.Answers()

	_, err = r.SubmitAnswer("a")
	requireCode(t, err, errors.CodeOutOfRange)

	assert.Equal(t, 1, s.Score())
	assert.Equal(t, 2, s.CurrentIndex())
	assert.Equal(t, before, s.Answers())
}

func TestRunner_SubmitAnswerRecordsOutcome(t *testing.T) {
	s, err := quiz.Start("Ada", questions(t, 2))
	require.NoError(t, err)
	r := quiz.NewRunner(s)

	a, err := r.SubmitAnswer("a")
	require.NoError(t, err)
	assert.Equal(t, domain.Answer{QuestionID: "A", Choice: "a", Correct: true}, a)

	a, err = r.SubmitAnswer("b")
	require.NoError(t, err)
	assert.Equal(t, domain.Answer{QuestionID: "B", Choice: "b", Correct: false}, a)
}

func TestRunner_Finalize(t *testing.T) {
	s, err := quiz.Start("Ada", questions(t, 1))
	require.NoError(t, err)
	r := quiz.NewRunner(s, quiz.WithClock(fixedClock))

	_, err = r.Finalize()
	requireCode(t, err, errors.CodeFailedPrecondition)

	_, err = r.SubmitAnswer("a")
	require.NoError(t, err)

	_, err = r.Finalize()
	require.NoError(t, err)

	_, err = r.Finalize()
	requireCode(t, err, errors.CodeFailedPrecondition)
}

func TestPercentage(t *testing.T) {
	tests := map[string]struct {
		score, total, want int
	}{
		"zero":           {0, 5, 0},
		"full":           {5, 5, 100},
		"exact":          {3, 5, 60},
		"round down":     {1, 3, 33},
		"round up":       {2, 3, 67},
		"half rounds up": {1, 8, 13},
		"no questions":   {0, 0, 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := quiz.Percentage(tt.score, tt.total)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}
