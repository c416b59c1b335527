package leaderboard

import (
	"context"
	"sync"

	"github.com/victornm/quizboard/internal/domain"
)

// MemoryStore keeps the encoded leaderboard in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	value []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return decodeOrEmpty(ctx, s.value), nil
}

func (s *MemoryStore) Append(ctx context.Context, r domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := encode(append(decodeOrEmpty(ctx, s.value), r))
	if err != nil {
		return err
	}
	s.value = b

	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = nil
	return nil
}

// Set overwrites the raw persisted value.
func (s *MemoryStore) Set(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = b
}
