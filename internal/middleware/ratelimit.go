package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"autonation/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Quota is a fixed-window request budget for one named resource.
type Quota struct {
	Resource string
	Limit    int
	Window   time.Duration
	// FailClosed rejects requests with 503 when Redis cannot be reached.
	// The default lets them through.
	FailClosed bool
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Duration
}

var errNoStore = errors.New("rate limit store unavailable")

// Limiter counts requests per caller in Redis. In the test and development
// environments every request is allowed without touching Redis.
type Limiter struct {
	rdb    *redis.Client
	bypass bool
}

// NewLimiter returns a Limiter for the given APP_ENV.
func NewLimiter(rdb *redis.Client, env string) *Limiter {
	return &Limiter{rdb: rdb, bypass: env == "" || env == "test" || env == "development"}
}

// Allow records one request by caller against q.
func (l *Limiter) Allow(ctx context.Context, q Quota, caller string) (Decision, error) {
	if l.bypass {
		return Decision{Allowed: true, Remaining: q.Limit}, nil
	}
	if l.rdb == nil {
		return Decision{}, errNoStore
	}

	ctx, span := observability.TraceRedisOperation(ctx, "ratelimit.incr")
	defer span.End()

	key := fmt.Sprintf("rl:%s:%s", q.Resource, caller)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, err
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, q.Window).Err(); err != nil {
			return Decision{}, err
		}
	}
	ttl, err := l.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = q.Window
	}

	remaining := q.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: count <= int64(q.Limit), Remaining: remaining, Reset: ttl}, nil
}

// Middleware enforces q per caller: the authenticated subject when present,
// otherwise the remote IP.
func (l *Limiter) Middleware(q Quota) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := "ip:" + c.IP()
		if sub, ok := c.Locals(LocalSubject).(string); ok && sub != "" {
			caller = "sub:" + sub
		}

		d, err := l.Allow(c.UserContext(), q, caller)
		if err != nil {
			if !q.FailClosed {
				return c.Next()
			}
			Logger.WarnContext(c.UserContext(), "rate limit store unavailable, rejecting",
				"resource", q.Resource, "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Rate limit unavailable"})
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(q.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			observability.RateLimitRejections.WithLabelValues(q.Resource).Inc()
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(d.Reset.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		}
		return c.Next()
	}
}
