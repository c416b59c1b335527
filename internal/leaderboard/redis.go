package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/victornm/quizboard/internal/domain"
)

const maxTxRetries = 5

// RedisStore keeps the leaderboard as a JSON string under a single Redis key.
type RedisStore struct {
	redis redis.UniversalClient
	key   string
}

func NewRedisStore(r redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		redis: r,
		key:   prefixedKey(prefix),
	}
}

func (s *RedisStore) Load(ctx context.Context) ([]domain.Result, error) {
	b, err := s.redis.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	return decodeOrEmpty(ctx, b), nil
}

// Append writes the extended list back inside WATCH/MULTI, retrying when another
// writer changed the key in between.
func (s *RedisStore) Append(ctx context.Context, r domain.Result) error {
	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, s.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		nb, err := encode(append(decodeOrEmpty(ctx, b), r))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, s.key, nb, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.redis.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("append leaderboard: %w", err)
		}

		return nil
	}

	return fmt.Errorf("append leaderboard: gave up after %d attempts: %w", maxTxRetries, redis.TxFailedErr)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}

	return nil
}
