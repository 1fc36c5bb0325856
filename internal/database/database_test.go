package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"autonation/internal/config"
	"autonation/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "db.internal",
		DBPort:     "5432",
		DBUser:     "autonation",
		DBPassword: "secret",
		DBName:     "autonation",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=autonation password=secret dbname=autonation sslmode=disable",
		primaryDSN(cfg))

	cfg.DBSSLMode = "require"
	assert.Contains(t, primaryDSN(cfg), "sslmode=require")
}

func TestConnectReplica_NotConfigured(t *testing.T) {
	db, err := ConnectReplica(&config.Config{})
	assert.NoError(t, err)
	assert.Nil(t, db)
}

func TestAutoMigrate_CreatesAllTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	for _, table := range []string{"users", "subscriptions", "integrations", "automations", "triggers", "listeners", "keywords", "posts", "dms"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestGormLogger_LogMode(t *testing.T) {
	l := NewGormLogger(middleware.Logger)
	silent := l.LogMode(logger.Silent).(*GormLogger)
	assert.Equal(t, logger.Silent, silent.Config.LogLevel)
	assert.Equal(t, logger.Warn, l.Config.LogLevel)

	// Silent loggers never invoke the SQL callback.
	silent.Trace(context.Background(), time.Now(), func() (string, int64) {
		t.Fatal("callback should not run")
		return "", 0
	}, errors.New("boom"))
}

func TestPlanSchema(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		env     string
		sql     bool
		auto    bool
		wantErr bool
	}{
		{"hybrid dev", "hybrid", "development", true, true, false},
		{"hybrid default mode", "", "development", true, true, false},
		{"hybrid prod", "hybrid", "production", true, false, false},
		{"sql", "SQL", "development", true, false, false},
		{"auto dev", "auto", "development", false, true, false},
		{"auto prod refused", "auto", "production", false, false, true},
		{"auto staging refused", "auto", "staging", false, false, true},
		{"unknown", "magic", "development", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanSchema(&config.Config{DBSchemaMode: tt.mode, Env: tt.env})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sql, plan.SQL)
			assert.Equal(t, tt.auto, plan.AutoORM)
		})
	}
}
