package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testMigrations(t *testing.T, files fstest.MapFS) []Migration {
	t.Helper()
	set, err := LoadMigrations(files, "m")
	require.NoError(t, err)
	return set
}

var twoStep = fstest.MapFS{
	"m/000001_widgets.up.sql":   {Data: []byte("CREATE TABLE widgets (id TEXT PRIMARY KEY)")},
	"m/000001_widgets.down.sql": {Data: []byte("DROP TABLE widgets")},
	"m/000002_gadgets.up.sql":   {Data: []byte("CREATE TABLE gadgets (id TEXT PRIMARY KEY)")},
	"m/000002_gadgets.down.sql": {Data: []byte("DROP TABLE gadgets")},
}

func TestLoadMigrations(t *testing.T) {
	set := testMigrations(t, twoStep)
	require.Len(t, set, 2)
	assert.Equal(t, "000001_widgets", set[0].String())
	assert.Equal(t, 2, set[1].Version)
	assert.Contains(t, set[1].Down, "DROP TABLE gadgets")
}

func TestLoadMigrations_Rejects(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"bad name":     {"m/1_x.up.sql": {Data: []byte("SELECT 1")}},
		"missing down": {"m/000001_x.up.sql": {Data: []byte("SELECT 1")}},
		"name mismatch": {
			"m/000001_x.up.sql":   {Data: []byte("SELECT 1")},
			"m/000001_y.down.sql": {Data: []byte("SELECT 1")},
		},
	}
	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadMigrations(files, "m")
			assert.Error(t, err)
		})
	}
}

func TestBuiltinMigrations(t *testing.T) {
	set, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, set)
	assert.Equal(t, "000001_init", set[0].String())
	assert.Contains(t, set[0].Up, "CREATE TABLE IF NOT EXISTS automations")
	assert.Contains(t, set[0].Down, "DROP TABLE IF EXISTS automations")
}

func TestMigrator_UpIsIdempotent(t *testing.T) {
	db := newSQLite(t)
	ctx := context.Background()
	m := NewMigrator(db, testMigrations(t, twoStep))

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	n, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, db.Migrator().HasTable("gadgets"))

	n, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	applied, err = m.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)
}

func TestMigrator_FailedStepIsNotRecorded(t *testing.T) {
	db := newSQLite(t)
	ctx := context.Background()
	files := fstest.MapFS{
		"m/000001_widgets.up.sql":   twoStep["m/000001_widgets.up.sql"],
		"m/000001_widgets.down.sql": twoStep["m/000001_widgets.down.sql"],
		"m/000002_broken.up.sql":    {Data: []byte("CREATE TABLE")},
		"m/000002_broken.down.sql":  {Data: []byte("SELECT 1")},
	}
	m := NewMigrator(db, testMigrations(t, files))

	n, err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002_broken")
	assert.Equal(t, 1, n)

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)
}

func TestMigrator_Down(t *testing.T) {
	db := newSQLite(t)
	ctx := context.Background()
	m := NewMigrator(db, testMigrations(t, twoStep))
	_, err := m.Up(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Down(ctx, 2))
	assert.False(t, db.Migrator().HasTable("gadgets"))

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Version)

	assert.Error(t, m.Down(ctx, 2), "already reverted")
	assert.Error(t, m.Down(ctx, 99), "not registered")
}

func TestMigrator_RefusesUnknownVersions(t *testing.T) {
	db := newSQLite(t)
	ctx := context.Background()
	_, err := NewMigrator(db, testMigrations(t, twoStep)).Up(ctx)
	require.NoError(t, err)

	older := NewMigrator(db, testMigrations(t, fstest.MapFS{
		"m/000001_widgets.up.sql":   twoStep["m/000001_widgets.up.sql"],
		"m/000001_widgets.down.sql": twoStep["m/000001_widgets.down.sql"],
	}))
	_, err = older.Pending(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002")
}
