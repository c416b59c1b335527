package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/victornm/quizboard/internal/domain"
	"github.com/victornm/quizboard/internal/errors"
	"github.com/victornm/quizboard/internal/event"
	"github.com/victornm/quizboard/internal/leaderboard"
	"github.com/victornm/quizboard/internal/quiz"
)

type Config struct {
	Router      gin.IRouter
	EventBus    *event.Bus
	Quiz        *quiz.Service
	Leaderboard *leaderboard.Service
	// Redis receives leaderboard notifications. Notifications are off when nil.
	Redis        Redis
	PubsubPrefix string
}

type Redis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type API struct {
	qs *quiz.Service
	ls *leaderboard.Service

	redis  Redis
	prefix string
}

func New(c Config) *API {
	a := &API{
		qs:     c.Quiz,
		ls:     c.Leaderboard,
		redis:  c.Redis,
		prefix: c.PubsubPrefix,
	}

	// HTTP APIs
	g := c.Router.Group("/api/v1")
	g.POST("/sessions", a.StartSession)
	g.GET("/sessions/:id", a.GetSession)
	g.POST("/sessions/:id/answers", a.SubmitAnswer)
	g.GET("/leaderboard", a.GetLeaderboard)
	g.DELETE("/leaderboard", a.ClearLeaderboard)

	// Register event handlers
	if a.redis != nil && c.EventBus != nil {
		c.EventBus.Subscribe(domain.EventNameLeaderboardUpdated, func(ctx context.Context, e event.Event) error {
			return a.PublishLeaderboardUpdated(ctx, e.(domain.EventLeaderboardUpdated))
		})
		c.EventBus.Subscribe(domain.EventNameLeaderboardCleared, func(ctx context.Context, e event.Event) error {
			return a.PublishLeaderboardCleared(ctx, e.(domain.EventLeaderboardCleared))
		})
	}

	return a
}

type (
	StartSessionRequest struct {
		Name string `json:"name"`
	}

	SubmitAnswerRequest struct {
		Choice string `json:"choice"`
	}

	Session struct {
		SessionID      string    `json:"session_id"`
		PlayerName     string    `json:"player_name"`
		State          string    `json:"state"`
		CurrentIndex   int       `json:"current_index"`
		TotalQuestions int       `json:"total_questions"`
		Score          int       `json:"score"`
		Question       *Question `json:"question,omitempty"`
	}

	Question struct {
		QuestionID string   `json:"question_id"`
		Text       string   `json:"text"`
		Options    []Option `json:"options"`
	}

	Option struct {
		OptionID string `json:"option_id"`
		Text     string `json:"text"`
	}

	Answer struct {
		QuestionID string `json:"question_id"`
		Choice     string `json:"choice"`
		Correct    bool   `json:"correct"`
	}

	SubmitAnswerResponse struct {
		Answer  Answer  `json:"answer"`
		Session Session `json:"session"`
		Result  *Result `json:"result,omitempty"`
	}

	Result struct {
		Name       string `json:"name"`
		Score      int    `json:"score"`
		Percentage int    `json:"percentage"`
		Date       string `json:"date"`
	}

	Standing struct {
		Rank int `json:"rank"`
		Result
	}

	LeaderboardResponse struct {
		Entries []Standing `json:"entries"`
	}
)

func (a *API) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("invalid request body"), errors.WithCause(err)))
		return
	}

	v, err := a.qs.StartSession(c.Request.Context(), quiz.StartSessionRequest{Name: req.Name})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSession(v))
}

func (a *API) GetSession(c *gin.Context) {
	v, err := a.qs.GetSession(c.Request.Context(), quiz.GetSessionRequest{SessionID: c.Param("id")})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toSession(v))
}

func (a *API) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("invalid request body"), errors.WithCause(err)))
		return
	}

	resp, err := a.qs.SubmitAnswer(c.Request.Context(), quiz.SubmitAnswerRequest{
		SessionID: c.Param("id"),
		Choice:    req.Choice,
	})
	if err != nil {
		fail(c, err)
		return
	}

	out := SubmitAnswerResponse{
		Answer: Answer{
			QuestionID: resp.Answer.QuestionID,
			Choice:     resp.Answer.Choice,
			Correct:    resp.Answer.Correct,
		},
		Session: toSession(resp.Session),
	}
	if resp.Result != nil {
		r := toResult(*resp.Result)
		out.Result = &r
	}

	c.JSON(http.StatusOK, out)
}

func (a *API) GetLeaderboard(c *gin.Context) {
	st, err := a.ls.Standings(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	resp := LeaderboardResponse{Entries: make([]Standing, 0, len(st))}
	for _, s := range st {
		resp.Entries = append(resp.Entries, Standing{Rank: s.Rank, Result: toResult(s.Result)})
	}

	c.JSON(http.StatusOK, resp)
}

func (a *API) ClearLeaderboard(c *gin.Context) {
	if err := a.ls.Clear(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func fail(c *gin.Context, err error) {
	e := errors.Convert(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(e.HTTPStatusCode(), e)
}

func toSession(v *quiz.SessionView) Session {
	s := Session{
		SessionID:      v.SessionID,
		PlayerName:     v.PlayerName,
		State:          v.State.String(),
		CurrentIndex:   v.CurrentIndex,
		TotalQuestions: v.TotalQuestions,
		Score:          v.Score,
	}

	if q := v.Question; q != nil {
		s.Question = &Question{
			QuestionID: q.QuestionID,
			Text:       q.QuestionText,
			Options:    make([]Option, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			s.Question.Options = append(s.Question.Options, Option{OptionID: o.OptionID, Text: o.OptionText})
		}
	}

	return s
}

func toResult(r domain.Result) Result {
	return Result{
		Name:       r.Name,
		Score:      r.Score,
		Percentage: r.Percentage,
		Date:       r.Date,
	}
}
