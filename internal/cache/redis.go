// Package cache holds the Redis client setup and the subject-to-user cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autonation/internal/observability"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned by Connect when no Redis address is set.
var ErrNotConfigured = errors.New("redis address not configured")

const pingTimeout = 5 * time.Second

// Connect dials addr, a redis:// URL or a bare host:port, and pings it.
// On any error the caller is expected to run without Redis.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	opts, err := options(addr)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	client.AddHook(errorCounter{})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func options(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	switch {
	case addr == "":
		return nil, ErrNotConfigured
	case strings.Contains(addr, "://"):
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return opts, nil
	default:
		return &redis.Options{Addr: addr}, nil
	}
}

// errorCounter feeds RedisErrorRate. Cache misses are not errors.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		return count(cmd.Name(), next(ctx, cmd))
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return count("pipeline", next(ctx, cmds))
	}
}

func count(op string, err error) error {
	if err != nil && !errors.Is(err, redis.Nil) {
		observability.RedisErrorRate.WithLabelValues(op).Inc()
	}
	return err
}
