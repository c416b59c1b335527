package leaderboard

import (
	"context"
	"fmt"

	"github.com/victornm/quizboard/internal/domain"
	"github.com/victornm/quizboard/internal/event"
)

type Config struct {
	Store Store
	// EventBus is optional. When set, changes are published as leaderboard events.
	EventBus *event.Bus
}

type Service struct {
	store Store
	eb    *event.Bus
}

func NewService(c Config) *Service {
	return &Service{
		store: c.Store,
		eb:    c.EventBus,
	}
}

// Record appends a finalized result to the leaderboard.
func (s *Service) Record(ctx context.Context, r domain.Result) error {
	if err := s.store.Append(ctx, r); err != nil {
		return fmt.Errorf("record result: player=%s: %w", r.Name, err)
	}

	s.publish(ctx, domain.EventLeaderboardUpdated{Result: r})
	return nil
}

// Standings returns every recorded result ranked by position, oldest first.
func (s *Service) Standings(ctx context.Context) ([]domain.Standing, error) {
	rs, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Standing, 0, len(rs))
	for i, r := range rs {
		out = append(out, domain.Standing{Rank: i + 1, Result: r})
	}

	return out, nil
}

// Clear removes all recorded results.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}

	s.publish(ctx, domain.EventLeaderboardCleared{})
	return nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if s.eb == nil {
		return
	}

	s.eb.Publish(ctx, e)
}
