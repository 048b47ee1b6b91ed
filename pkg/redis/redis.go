// Package redis opens the instrumented connection used by the run recorder.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

const (
	connectTimeout = 2 * time.Second
	ioTimeout      = 2 * time.Second

	// One entry per call, written sequentially.
	poolSize = 2
)

type Config struct {
	// Typically "localhost:6379"
	Addr     string
	Password string
	DB       int
}

func (c Config) options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  connectTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
		PoolTimeout:  connectTimeout,
		PoolSize:     poolSize,
		MinIdleConns: 1,
	}
}

// NewClient builds a client with tracing and metrics attached. It does not
// dial; see Open.
func NewClient(c Config, logger *slog.Logger) *redis.Client {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "redis"),
		slog.String("addr", c.Addr),
		slog.Int("db", c.DB),
	)

	rdb := redis.NewClient(c.options())

	if err := errors.Join(
		redisotel.InstrumentTracing(rdb),
		redisotel.InstrumentMetrics(rdb),
	); err != nil {
		logger.Warn("redis instrumentation incomplete", slog.Any("error", err))
	}

	logger.Debug("redis client ready")
	return rdb
}

// Open is NewClient followed by a PING. On failure the client is closed.
func Open(ctx context.Context, c Config, logger *slog.Logger) (*redis.Client, error) {
	rdb := NewClient(c, logger)

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping redis at %s: %w", c.Addr, err), rdb.Close())
	}
	return rdb, nil
}
