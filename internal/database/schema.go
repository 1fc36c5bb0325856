package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"autonation/internal/config"
	"autonation/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaPlan says which schema steps ApplySchema will take.
type SchemaPlan struct {
	Mode    string
	SQL     bool
	AutoORM bool
}

// PlanSchema resolves DB_SCHEMA_MODE against APP_ENV. Hybrid runs SQL
// migrations everywhere and adds AutoMigrate outside production-like
// environments; auto is refused there.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		mode = SchemaModeHybrid
	}
	env := strings.ToLower(strings.TrimSpace(cfg.Env))
	prodLike := env == "production" || env == "prod" || env == "staging" || env == "stage"

	plan := SchemaPlan{Mode: mode}
	switch mode {
	case SchemaModeSQL:
		plan.SQL = true
	case SchemaModeAuto:
		if prodLike {
			return SchemaPlan{}, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		plan.AutoORM = true
	case SchemaModeHybrid:
		plan.SQL = true
		plan.AutoORM = !prodLike
	default:
		return SchemaPlan{}, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
	return plan, nil
}

// AutoMigrate creates or updates tables for PersistentModels.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema runs the steps chosen by PlanSchema.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.SQL {
		migrator, err := NewBuiltinMigrator(db)
		if err != nil {
			return err
		}
		if _, err := migrator.Up(ctx); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if plan.AutoORM {
		middleware.Logger.Info("running GORM AutoMigrate",
			slog.String("mode", plan.Mode), slog.String("env", cfg.Env))
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// SchemaStatus is the report printed by `migrate status`.
type SchemaStatus struct {
	Plan        SchemaPlan
	Environment string
	Applied     []int
	Pending     []Migration
}

// GetSchemaStatus reports the plan and the applied and pending migrations.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	migrator, err := NewBuiltinMigrator(db)
	if err != nil {
		return nil, err
	}
	applied, err := migrator.Applied(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := migrator.Pending(ctx)
	if err != nil {
		return nil, err
	}
	return &SchemaStatus{Plan: plan, Environment: cfg.Env, Applied: applied, Pending: pending}, nil
}
