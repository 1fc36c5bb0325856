// Package bootstrap wires the process-level dependencies shared by the
// server and the command-line tools.
package bootstrap

import (
	"context"
	"fmt"

	"autonation/internal/cache"
	"autonation/internal/config"
	"autonation/internal/database"
	"autonation/internal/middleware"
	"autonation/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Version is reported in traces and the status endpoint.
const Version = "1.0.0"

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs database.ApplySchema after connecting.
	ApplySchema bool
	// Tracing installs the OpenTelemetry provider described by the config.
	Tracing bool
}

// Runtime holds the connections opened by InitRuntime.
type Runtime struct {
	DB      *gorm.DB
	Replica *gorm.DB
	Redis   *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime connects to the primary database, the optional read replica and
// Redis. A missing replica or Redis degrades to primary-only reads and
// uncached subject lookups.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	rt := &Runtime{shutdownTracing: func(context.Context) error { return nil }}

	if opts.Tracing {
		shutdown, err := observability.InitTracing(ctx, cfg, Version)
		if err != nil {
			return nil, fmt.Errorf("tracing init failed: %w", err)
		}
		rt.shutdownTracing = shutdown
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = rt.shutdownTracing(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt.DB = db

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			rt.Close(ctx)
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	replica, err := database.ConnectReplica(cfg)
	if err != nil {
		middleware.Logger.Warn("read replica unavailable, using primary for reads", "error", err)
	}
	rt.Replica = replica

	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		middleware.Logger.Warn("continuing without redis", "error", err)
	} else {
		middleware.Logger.Info("redis connected")
	}
	rt.Redis = rdb
	return rt, nil
}

// Close releases every connection and flushes pending spans.
func (rt *Runtime) Close(ctx context.Context) {
	database.Close(rt.DB, rt.Replica)
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}
	if rt.shutdownTracing == nil {
		return
	}
	if err := rt.shutdownTracing(ctx); err != nil {
		middleware.Logger.Error("error shutting down tracer", "error", err)
	}
}
