package quiz_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/victornm/quizboard/internal/domain"
	"github.com/victornm/quizboard/internal/errors"
	"github.com/victornm/quizboard/internal/question"
)

var completedAt = time.Date(2026, time.March, 4, 15, 7, 9, 0, time.UTC)

func fixedClock() time.Time { return completedAt }

// questions returns n two-option questions whose correct option is always "a".
func questions(t *testing.T, n int) []domain.Question {
	t.Helper()

	qs := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, domain.Question{
			QuestionID:   string(rune('A' + i)),
			QuestionText: "question",
			Options: []domain.Option{
				{OptionID: "a", OptionText: "right"},
				{OptionID: "b", OptionText: "wrong"},
			},
			CorrectOptionID: "a",
		})
	}

	return qs
}

func bank(t *testing.T, n int) *question.Bank {
	t.Helper()

	b, err := question.New(questions(t, n))
	require.NoError(t, err)
	return b
}

func requireCode(t *testing.T, err error, code errors.Code) {
	t.Helper()

	require.Error(t, err)
	require.True(t, errors.Is(err, code), "want code %d, got %v", code, err)
}
