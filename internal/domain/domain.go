package domain

// Question is one entry of the quiz dataset.
type Question struct {
	QuestionID      string
	QuestionText    string
	Options         []Option
	CorrectOptionID string
}

type Option struct {
	OptionID   string
	OptionText string
}

// Answer is the outcome of a single submitted answer.
type Answer struct {
	QuestionID string
	Choice     string
	Correct    bool
}

// Result is the immutable outcome of a completed session, as persisted on the leaderboard.
type Result struct {
	Name       string
	Score      int
	Percentage int
	Date       string
}

// Standing is a leaderboard row. Rank is the 1-based position in insertion order.
type Standing struct {
	Rank   int
	Result Result
}
