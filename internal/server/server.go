package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/victornm/quizboard/internal/api"
	"github.com/victornm/quizboard/internal/event"
	"github.com/victornm/quizboard/internal/leaderboard"
	"github.com/victornm/quizboard/internal/question"
	"github.com/victornm/quizboard/internal/quiz"
	"github.com/victornm/quizboard/internal/telemetry"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTP struct {
		Port int32
	}

	Log telemetry.LogConfig

	Quiz struct {
		QuestionsFile string `mapstructure:"questions_file"`
		Shuffle       bool
		Limit         int
		// IdleTimeout drops sessions nobody answered for that long.
		IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	}

	Leaderboard struct {
		Driver string
		File   string
	}

	Redis struct {
		Addrs  []string
		Pass   string
		Prefix string
	}

	Postgres struct {
		Addr string
		User string
		Pass string
		Name string
	}
}

// DefaultConfig is the configuration used for keys missing from the config file.
func DefaultConfig() Config {
	var c Config
	c.HTTP.Port = 8080
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Log.MaxSizeMB = 10
	c.Log.MaxBackups = 3
	c.Log.MaxAgeDays = 7
	c.Quiz.IdleTimeout = 30 * time.Minute
	c.Leaderboard.Driver = DriverFile
	c.Leaderboard.File = "data/leaderboard.json"
	c.Redis.Prefix = "quizboard"
	return c
}

type Server struct {
	c Config

	eb *event.Bus

	infra struct {
		redis    redis.UniversalClient
		postgres *pgxpool.Pool
		store    leaderboard.Store
	}

	service struct {
		quiz        *quiz.Service
		leaderboard *leaderboard.Service
	}

	http *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func Init(c Config) (*Server, error) {
	s := &Server{c: c}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.eb = event.NewBus()

	if err := s.initInfra(); err != nil {
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	if err := s.initService(); err != nil {
		return nil, fmt.Errorf("server: init service: %w", err)
	}

	s.initAPI()
	return s, nil
}

func (s *Server) initInfra() error {
	// Redis also carries leaderboard notifications, so connect whenever it is configured.
	if s.c.Leaderboard.Driver == DriverRedis || len(s.c.Redis.Addrs) > 0 {
		if err := s.initRedis(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}

	switch s.c.Leaderboard.Driver {
	case DriverMemory:
		s.infra.store = leaderboard.NewMemoryStore()
	case DriverFile:
		s.infra.store = leaderboard.NewFileStore(s.c.Leaderboard.File)
	case DriverRedis:
		s.infra.store = leaderboard.NewRedisStore(s.infra.redis, s.c.Redis.Prefix)
	case DriverPostgres:
		if err := s.initPostgres(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}

		ps := leaderboard.NewPostgresStore(s.infra.postgres, s.c.Redis.Prefix)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ps.Migrate(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		s.infra.store = ps
	default:
		return fmt.Errorf("unknown leaderboard driver %q", s.c.Leaderboard.Driver)
	}

	slog.Info("server: leaderboard store ready", "driver", s.c.Leaderboard.Driver)
	return nil
}

func (s *Server) initRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if len(s.c.Redis.Addrs) == 0 {
		return fmt.Errorf("no address configured")
	}

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    s.c.Redis.Addrs,
		Password: s.c.Redis.Pass,
	})

	if err := telemetry.MonitorRedis(r); err != nil {
		return err
	}

	if err := r.Ping(ctx).Err(); err != nil {
		return err
	}

	s.infra.redis = r
	return nil
}

func (s *Server) initPostgres() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p := s.c.Postgres
	cc, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s/%s", p.User, p.Pass, p.Addr, p.Name))
	if err != nil {
		return err
	}

	db, err := pgxpool.NewWithConfig(ctx, cc)
	if err != nil {
		return err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return err
	}

	s.infra.postgres = db
	return nil
}

func (s *Server) initService() error {
	bank := question.Default()
	if f := s.c.Quiz.QuestionsFile; f != "" {
		var err error
		if bank, err = question.Load(f); err != nil {
			return err
		}
	}
	slog.Info("server: question bank loaded", "questions", bank.Len(), "file", s.c.Quiz.QuestionsFile)

	s.service.leaderboard = leaderboard.NewService(leaderboard.Config{
		Store:    s.infra.store,
		EventBus: s.eb,
	})

	s.service.quiz = quiz.NewService(quiz.Config{
		Bank:     bank,
		Recorder: s.service.leaderboard,
		Shuffle:  s.c.Quiz.Shuffle,
		Limit:    s.c.Quiz.Limit,
	})

	return nil
}

func (s *Server) initAPI() {
	e := gin.New()
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(e, "/debug/pprof")
	e.Use(gin.Recovery(), telemetry.GinLogger())

	c := api.Config{
		Router:       e,
		EventBus:     s.eb,
		Quiz:         s.service.quiz,
		Leaderboard:  s.service.leaderboard,
		PubsubPrefix: s.c.Redis.Prefix,
	}
	if s.infra.redis != nil {
		c.Redis = s.infra.redis
	}
	api.New(c)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.HTTP.Port),
		Handler:           e,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start runs the HTTP server and the idle sweeper until Shutdown is called
// or one of them fails, for example when the port is already taken.
func (s *Server) Start() error {
	eg, ctx := errgroup.WithContext(s.ctx)
	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: HTTP listening on port %d", s.c.HTTP.Port))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		s.sweepIdleSessions(ctx)
		return nil
	})

	if err := eg.Wait(); err != nil {
		slog.ErrorContext(s.ctx, "server: shutdown with error", "error", err)
		return err
	}

	return nil
}

func (s *Server) sweepIdleSessions(ctx context.Context) {
	idle := s.c.Quiz.IdleTimeout
	if idle <= 0 {
		return
	}

	t := time.NewTicker(idle / 2)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.service.quiz.SweepIdle(ctx, idle)
		}
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}

	s.eb.Stop()

	if s.infra.redis != nil {
		if err := s.infra.redis.Close(); err != nil {
			slog.ErrorContext(ctx, "server: close redis failed", "error", err)
		}
	}
	if s.infra.postgres != nil {
		s.infra.postgres.Close()
	}

	slog.InfoContext(ctx, "server: shutdown completed")
}
