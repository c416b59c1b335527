package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/victornm/quizboard/internal/domain"
	"github.com/victornm/quizboard/internal/errors"
	"github.com/victornm/quizboard/internal/leaderboard"
	"github.com/victornm/quizboard/internal/question"
	"github.com/victornm/quizboard/internal/quiz"
)

type Config struct {
	In          io.Reader
	Out         io.Writer
	Bank        *question.Bank
	Leaderboard *leaderboard.Service
	// Seed shuffles the questions when non-zero.
	Seed  int64
	Limit int
	Clock func() time.Time
}

// Console is a terminal front end: one play-through at a time over In and Out.
type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	bank  *question.Bank
	ls    *leaderboard.Service
	seed  int64
	limit int
	now   func() time.Time
}

func New(c Config) *Console {
	con := &Console{
		in:    bufio.NewScanner(c.In),
		out:   c.Out,
		bank:  c.Bank,
		ls:    c.Leaderboard,
		seed:  c.Seed,
		limit: c.Limit,
		now:   c.Clock,
	}

	if con.now == nil {
		con.now = time.Now
	}

	return con
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// Play runs one full play-through and records the result.
func (c *Console) Play(ctx context.Context) error {
	c.printf("%s\n\n", titleStyle.Render("Quiz Challenge"))

	s, err := c.startSession(ctx)
	if err != nil {
		return err
	}

	r := quiz.NewRunner(s, quiz.WithClock(c.now))
	for {
		q, err := s.CurrentQuestion()
		if err != nil {
			break
		}

		choice, err := c.ask(ctx, s, q)
		if err != nil {
			return err
		}

		a, err := r.SubmitAnswer(choice)
		if err != nil {
			return err
		}

		if a.Correct {
			c.printf("%s\n\n", correctStyle.Render("Correct!"))
		} else {
			c.printf("%s\n\n", wrongStyle.Render("Wrong, the answer was "+optionText(q, q.CorrectOptionID)+"."))
		}
	}

	res, err := r.Finalize()
	if err != nil {
		return err
	}

	c.printf("%s, you scored %d/%d (%d%%)\n\n", res.Name, res.Score, s.TotalQuestions(), res.Percentage)

	if err := c.ls.Record(ctx, res); err != nil {
		return fmt.Errorf("console: %w", err)
	}

	return c.Board(ctx)
}

// Board renders the leaderboard.
func (c *Console) Board(ctx context.Context) error {
	st, err := c.ls.Standings(ctx)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}

	c.printf("%s\n", titleStyle.Render("Leaderboard"))

	if len(st) == 0 {
		c.printf("%s\n", mutedStyle.Render("No entries yet. Play the game to see your score here!"))
		return nil
	}

	c.printf("%s\n", renderStandings(st))
	return nil
}

// Clear empties the leaderboard.
func (c *Console) Clear(ctx context.Context) error {
	if err := c.ls.Clear(ctx); err != nil {
		return fmt.Errorf("console: %w", err)
	}

	c.printf("Leaderboard cleared.\n")
	return nil
}

func renderStandings(st []domain.Standing) string {
	rows := make([][]string, 0, len(st))
	for _, s := range st {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			s.Result.Name,
			strconv.Itoa(s.Result.Score),
			strconv.Itoa(s.Result.Percentage) + "%",
			s.Result.Date,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Name", "Score", "Percentage", "Date").
		Rows(rows...).
		String()
}

func (c *Console) startSession(ctx context.Context) (*quiz.Session, error) {
	for {
		name, err := c.readLine(ctx, "Enter your name: ")
		if err != nil {
			return nil, err
		}

		s, err := quiz.Start(name, c.bank.Order(c.seed, c.limit))
		if errors.Is(err, errors.CodeInvalidArgument) {
			c.printf("%s\n", wrongStyle.Render(errors.Convert(err).Message))
			continue
		}
		if err != nil {
			return nil, err
		}
		s.Seed = c.seed

		return s, nil
	}
}

// ask shows q and reads a choice until it names one of the options, by number or ID.
func (c *Console) ask(ctx context.Context, s *quiz.Session, q domain.Question) (string, error) {
	c.printf("%s\n", titleStyle.Render(fmt.Sprintf("Question %d of %d", s.CurrentIndex()+1, s.TotalQuestions())))
	c.printf("%s\n", q.QuestionText)
	for i, o := range q.Options {
		c.printf("  %d) %s\n", i+1, o.OptionText)
	}
	c.printf("%s\n", mutedStyle.Render(fmt.Sprintf("Score: %d", s.Score())))

	for {
		in, err := c.readLine(ctx, "> ")
		if err != nil {
			return "", err
		}

		if id, ok := resolveChoice(q, in); ok {
			return id, nil
		}

		c.printf("Please choose 1-%d.\n", len(q.Options))
	}
}

func resolveChoice(q domain.Question, in string) (string, bool) {
	in = strings.TrimSpace(in)

	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1].OptionID, true
	}

	for _, o := range q.Options {
		if o.OptionID == in {
			return o.OptionID, true
		}
	}

	return "", false
}

func optionText(q domain.Question, id string) string {
	for _, o := range q.Options {
		if o.OptionID == id {
			return o.OptionText
		}
	}

	return id
}

func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("console: read input: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}

	return c.in.Text(), nil
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
