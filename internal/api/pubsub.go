package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/victornm/quizboard/internal/domain"
)

type (
	Notification struct {
		Event string `json:"event"`
		Data  any    `json:"data,omitempty"`
	}
)

// PublishLeaderboardUpdated notifies subscribers of the newly recorded result.
func (a *API) PublishLeaderboardUpdated(ctx context.Context, e domain.EventLeaderboardUpdated) error {
	return a.publishNotification(ctx, e.Name(), toResult(e.Result))
}

func (a *API) PublishLeaderboardCleared(ctx context.Context, e domain.EventLeaderboardCleared) error {
	return a.publishNotification(ctx, e.Name(), nil)
}

// LeaderboardChannel is the Redis channel leaderboard notifications are published to.
func (a *API) LeaderboardChannel() string {
	if a.prefix == "" {
		return "leaderboard"
	}

	return fmt.Sprintf("%s:leaderboard", a.prefix)
}

func (a *API) publishNotification(ctx context.Context, event string, data any) error {
	n := Notification{
		Event: event,
		Data:  data,
	}

	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("pubsub: marshal %s: %v", event, err)
	}

	return a.redis.Publish(ctx, a.LeaderboardChannel(), b).Err()
}
