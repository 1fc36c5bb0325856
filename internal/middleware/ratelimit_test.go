package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

var createQuota = Quota{Resource: "create_automation", Limit: 2, Window: time.Minute}

func TestLimiter_BypassedOutsideDeployedEnvs(t *testing.T) {
	for _, env := range []string{"", "test", "development"} {
		d, err := NewLimiter(nil, env).Allow(context.Background(), createQuota, "sub:x")
		require.NoError(t, err, env)
		assert.True(t, d.Allowed, env)
	}
}

func TestLimiter_NilRedisInProduction(t *testing.T) {
	_, err := NewLimiter(nil, "production").Allow(context.Background(), createQuota, "sub:x")
	assert.ErrorIs(t, err, errNoStore)
}

func TestLimiter_CountsWithinWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewLimiter(rdb, "production")
	ctx := context.Background()

	d, err := l.Allow(ctx, createQuota, "sub:user_1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	d, err = l.Allow(ctx, createQuota, "sub:user_1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Zero(t, d.Remaining)

	d, err = l.Allow(ctx, createQuota, "sub:user_1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.Reset)

	d, err = l.Allow(ctx, createQuota, "sub:user_2")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "callers have separate buckets")

	assert.Equal(t, time.Minute, mr.TTL("rl:create_automation:sub:user_1"))
	mr.FastForward(time.Minute + time.Second)

	d, err = l.Allow(ctx, createQuota, "sub:user_1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLimiterMiddleware(t *testing.T) {
	handler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) }
	get := func(t *testing.T, app *fiber.App, sub string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/automations", nil)
		req.Header.Set("X-Subject", sub)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp
	}
	withSubject := func(c *fiber.Ctx) error {
		c.Locals(LocalSubject, c.Get("X-Subject"))
		return c.Next()
	}

	t.Run("fail open without redis", func(t *testing.T) {
		app := fiber.New()
		app.Post("/automations", NewLimiter(nil, "production").Middleware(createQuota), handler)
		assert.Equal(t, http.StatusCreated, get(t, app, "").StatusCode)
	})

	t.Run("fail closed without redis", func(t *testing.T) {
		q := createQuota
		q.FailClosed = true
		app := fiber.New()
		app.Post("/automations", NewLimiter(nil, "production").Middleware(q), handler)
		assert.Equal(t, http.StatusServiceUnavailable, get(t, app, "").StatusCode)
	})

	t.Run("rejects over limit per subject", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		q := createQuota
		q.Limit = 1
		app := fiber.New()
		app.Post("/automations", withSubject, NewLimiter(rdb, "production").Middleware(q), handler)

		first := get(t, app, "user_a")
		assert.Equal(t, http.StatusCreated, first.StatusCode)
		assert.Equal(t, "0", first.Header.Get("X-RateLimit-Remaining"))

		second := get(t, app, "user_a")
		assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
		assert.Equal(t, "60", second.Header.Get("Retry-After"))

		assert.Equal(t, http.StatusCreated, get(t, app, "user_b").StatusCode)
	})
}
