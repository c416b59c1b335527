package domain

const (
	EventNameLeaderboardUpdated = "leaderboard.updated"
	EventNameLeaderboardCleared = "leaderboard.cleared"
)

type EventLeaderboardUpdated struct {
	Result Result
}

func (EventLeaderboardUpdated) Name() string { return EventNameLeaderboardUpdated }

type EventLeaderboardCleared struct{}

func (EventLeaderboardCleared) Name() string { return EventNameLeaderboardCleared }
