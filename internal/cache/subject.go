package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"autonation/internal/observability"

	"github.com/redis/go-redis/v9"
)

// SubjectCache maps identity-provider subject ids to internal user ids with
// Redis cache-aside. A nil client turns every lookup into a pass-through.
type SubjectCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubjectCache returns a cache storing entries for ttl, or SubjectTTL when ttl <= 0.
func NewSubjectCache(client *redis.Client, ttl time.Duration) *SubjectCache {
	if ttl <= 0 {
		ttl = SubjectTTL
	}
	return &SubjectCache{client: client, ttl: ttl}
}

// Resolve returns the cached user id for subject, calling fetch on a miss and
// storing its result. Errors from fetch are returned as-is and never cached.
// Redis failures degrade to calling fetch.
func (c *SubjectCache) Resolve(ctx context.Context, subject string, fetch func(context.Context) (string, error)) (string, error) {
	if c == nil || c.client == nil {
		return fetch(ctx)
	}

	key := SubjectKey(subject)
	rctx, span := observability.TraceRedisOperation(ctx, "subject.get")
	userID, err := c.client.Get(rctx, key).Result()
	span.End()

	switch {
	case err == nil && userID != "":
		observability.SubjectCacheLookups.WithLabelValues("hit").Inc()
		return userID, nil
	case err != nil && !errors.Is(err, redis.Nil):
		observability.SubjectCacheLookups.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "subject cache read failed", "error", err)
	default:
		observability.SubjectCacheLookups.WithLabelValues("miss").Inc()
	}

	userID, err = fetch(ctx)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, userID, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "subject cache write failed", "error", err)
	}
	return userID, nil
}

// Forget drops the cached mapping for subject.
func (c *SubjectCache) Forget(ctx context.Context, subject string) {
	if c == nil {
		return
	}
	Invalidate(ctx, c.client, SubjectKey(subject))
}
