package leaderboard

import (
	"context"

	"github.com/victornm/quizboard/internal/domain"
)

// Key names the single persisted entry holding the leaderboard.
const Key = "leaderboard"

// Store persists the leaderboard as one ordered collection of results.
//
// Load never fails on malformed data: a value that can't be decoded is treated
// as an empty leaderboard. Append is a read-modify-write of the whole
// collection and must not leave a partially written value behind.
type Store interface {
	Load(ctx context.Context) ([]domain.Result, error)
	Append(ctx context.Context, r domain.Result) error
	Clear(ctx context.Context) error
}

func prefixedKey(prefix string) string {
	if prefix == "" {
		return Key
	}

	return prefix + ":" + Key
}
