// Command play runs the quiz in the terminal.
//
//	play          play one round and show the leaderboard
//	play board    show the leaderboard
//	play clear    clear the leaderboard
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/victornm/quizboard/internal/config"
	"github.com/victornm/quizboard/internal/console"
	"github.com/victornm/quizboard/internal/leaderboard"
	"github.com/victornm/quizboard/internal/question"
	"github.com/victornm/quizboard/internal/telemetry"
)

type Config struct {
	Log telemetry.LogConfig

	Quiz struct {
		QuestionsFile string `mapstructure:"questions_file"`
		Shuffle       bool
		Limit         int
	}

	Leaderboard struct {
		// Driver is file or redis.
		Driver string
		File   string
	}

	Redis struct {
		Addrs  []string
		Pass   string
		Prefix string
	}
}

func main() {
	var c Config
	c.Log.Level = "warn"
	c.Log.Format = "text"
	c.Leaderboard.Driver = "file"
	c.Leaderboard.File = "leaderboard.json"

	if err := config.Load(os.Getenv("CONFIG_PATH"), &c); err != nil {
		log.Fatalf("Load config failed: %v", err)
	}

	logs, err := telemetry.SetupLogger(c.Log)
	if err != nil {
		log.Fatalf("Setup logger failed: %v", err)
	}
	defer logs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, c, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, c Config, args []string) error {
	bank := question.Default()
	if f := c.Quiz.QuestionsFile; f != "" {
		var err error
		if bank, err = question.Load(f); err != nil {
			return err
		}
	}

	store, closeStore, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	cc := console.Config{
		In:          os.Stdin,
		Out:         os.Stdout,
		Bank:        bank,
		Leaderboard: leaderboard.NewService(leaderboard.Config{Store: store}),
		Limit:       c.Quiz.Limit,
	}
	if c.Quiz.Shuffle {
		cc.Seed = time.Now().UnixNano()
	}
	con := console.New(cc)

	cmd := "play"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "play":
		return con.Play(ctx)
	case "board":
		return con.Board(ctx)
	case "clear":
		return con.Clear(ctx)
	default:
		return fmt.Errorf("unknown command %q, want play, board or clear", cmd)
	}
}

func openStore(ctx context.Context, c Config) (leaderboard.Store, func(), error) {
	switch c.Leaderboard.Driver {
	case "file":
		return leaderboard.NewFileStore(c.Leaderboard.File), func() {}, nil
	case "redis":
		r := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    c.Redis.Addrs,
			Password: c.Redis.Pass,
		})
		if err := telemetry.MonitorRedis(r); err != nil {
			return nil, nil, err
		}
		if err := r.Ping(ctx).Err(); err != nil {
			_ = r.Close()
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return leaderboard.NewRedisStore(r, c.Redis.Prefix), func() { _ = r.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown leaderboard driver %q, want file or redis", c.Leaderboard.Driver)
	}
}
