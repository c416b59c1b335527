package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// MonitorRedis instruments r with OpenTelemetry tracing/metrics and slog debug logs.
func MonitorRedis(r redis.UniversalClient) error {
	if err := redisotel.InstrumentTracing(r); err != nil {
		return fmt.Errorf("instrument tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(r); err != nil {
		return fmt.Errorf("instrument metrics: %w", err)
	}
	r.AddHook(redisLog{l: slog.Default()})
	return nil
}

type redisLog struct {
	l *slog.Logger
}

func (h redisLog) DialHook(hook redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := hook(ctx, network, addr)
		h.done(ctx, "redis: dial", start, err, "network", network, "addr", addr)
		return conn, err
	}
}

func (h redisLog) ProcessHook(hook redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := hook(ctx, cmd)
		h.done(ctx, "redis: command", start, err, "cmd", cmd.FullName())
		return err
	}
}

func (h redisLog) ProcessPipelineHook(hook redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := hook(ctx, cmds)

		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, c.FullName())
		}
		h.done(ctx, "redis: pipeline", start, err, "cmds", names)
		return err
	}
}

func (h redisLog) done(ctx context.Context, msg string, start time.Time, err error, args ...any) {
	args = append(args, "elapsed", time.Since(start))

	// redis.Nil only means the key is absent.
	if err != nil && !errors.Is(err, redis.Nil) {
		h.l.WarnContext(ctx, msg+" failed", append(args, "error", err)...)
		return
	}

	h.l.DebugContext(ctx, msg, args...)
}
