package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/victornm/quizboard/internal/errors"
)

func TestError_HTTPStatusCode(t *testing.T) {
	tests := map[string]struct {
		err  *errors.Error
		want int
	}{
		"validation maps to bad request": {
			err:  errors.Validation("player name is required"),
			want: http.StatusBadRequest,
		},
		"out of range maps to bad request": {
			err:  errors.OutOfRange("quiz is complete"),
			want: http.StatusBadRequest,
		},
		"failed precondition maps to conflict": {
			err:  errors.New(errors.CodeFailedPrecondition),
			want: http.StatusConflict,
		},
		"not found maps to not found": {
			err:  errors.New(errors.CodeNotFound),
			want: http.StatusNotFound,
		},
		"unmapped code falls back to internal server error": {
			err:  errors.New(errors.Code(codes.DataLoss)),
			want: http.StatusInternalServerError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatusCode())
		})
	}
}

func TestConvert(t *testing.T) {
	cause := stderrors.New("boom")

	e := errors.Convert(fmt.Errorf("wrapped: %w", cause))
	require.Equal(t, errors.CodeInternal, e.Code)
	require.ErrorIs(t, e, cause)

	v := errors.Validation("bad %s", "name")
	e = errors.Convert(fmt.Errorf("start: %w", v))
	require.Same(t, v, e)
	require.Equal(t, "bad name", e.Message)
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("submit: %w", errors.OutOfRange("done"))

	assert.True(t, errors.Is(err, errors.CodeOutOfRange))
	assert.False(t, errors.Is(err, errors.CodeInvalidArgument))
	assert.False(t, errors.Is(stderrors.New("plain"), errors.CodeOutOfRange))
}

func TestError_GRPCStatus(t *testing.T) {
	s, ok := status.FromError(errors.Validation("player name is required"))
	require.True(t, ok)
	require.Equal(t, codes.InvalidArgument, s.Code())
	require.Equal(t, "player name is required", s.Message())
}
