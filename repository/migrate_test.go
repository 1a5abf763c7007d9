package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-jobly"
	"github.com/goliatone/go-jobly/repository"

	_ "github.com/mattn/go-sqlite3"
)

func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	db, err := repository.NewDB(context.Background(), sqldb)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func tableExists(t *testing.T, db *bun.DB, name string) bool {
	t.Helper()
	var count int
	err := db.NewRaw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).
		Scan(context.Background(), &count)
	require.NoError(t, err)
	return count == 1
}

func TestStatus_DiscoversEmbeddedMigrations(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	migrations, err := repository.Status(ctx, db, jobly.GetMigrationsFS())
	require.NoError(t, err)

	names := []string{}
	for _, m := range migrations {
		names = append(names, m.Name)
		assert.NotNil(t, m.Up, m.String())
		assert.NotNil(t, m.Down, m.String())
		assert.False(t, m.IsApplied())
	}
	assert.Equal(t, []string{"0001", "0002", "0003", "0004"}, names)
}

func TestMigrate_AppliesOnce(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	group, err := repository.Migrate(ctx, db, jobly.GetMigrationsFS())
	require.NoError(t, err)
	assert.Equal(t, int64(1), group.ID)
	assert.Len(t, group.Migrations, 4)

	for _, table := range []string{"companies", "jobs", "users", "applications", "technologies"} {
		assert.True(t, tableExists(t, db, table), table)
	}
	assert.True(t, tableExists(t, db, repository.MigrationsTable))

	group, err = repository.Migrate(ctx, db, jobly.GetMigrationsFS())
	require.NoError(t, err)
	assert.True(t, group.IsZero())

	migrations, err := repository.Status(ctx, db, jobly.GetMigrationsFS())
	require.NoError(t, err)
	assert.Len(t, migrations.Applied(), 4)
}

func TestMigrate_FailedMigrationIsNotMarked(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	fsys := fstest.MapFS{
		"0001_ok.tx.up.sql":    {Data: []byte("CREATE TABLE ok (id INTEGER);")},
		"0001_ok.tx.down.sql":  {Data: []byte("DROP TABLE ok;")},
		"0002_bad.tx.up.sql":   {Data: []byte("CREATE TABLE broken (;")},
		"0002_bad.tx.down.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := repository.Migrate(ctx, db, fsys)
	require.Error(t, err)

	migrations, err := repository.Status(ctx, db, fsys)
	require.NoError(t, err)
	require.Len(t, migrations.Applied(), 1)
	assert.Equal(t, "0001", migrations.Applied()[0].Name)
}

func TestRollback_LastGroup(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	_, err := repository.Rollback(ctx, db, jobly.GetMigrationsFS())
	assert.ErrorIs(t, err, repository.ErrNothingToRollback)

	first := fstest.MapFS{
		"0001_a.tx.up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"0001_a.tx.down.sql": {Data: []byte("DROP TABLE a;")},
	}
	_, err = repository.Migrate(ctx, db, first)
	require.NoError(t, err)

	second := fstest.MapFS{
		"0001_a.tx.up.sql":   first["0001_a.tx.up.sql"],
		"0001_a.tx.down.sql": first["0001_a.tx.down.sql"],
		"0002_b.tx.up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"0002_b.tx.down.sql": {Data: []byte("DROP TABLE b;")},
	}
	group, err := repository.Migrate(ctx, db, second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), group.ID)

	group, err = repository.Rollback(ctx, db, second)
	require.NoError(t, err)
	require.Len(t, group.Migrations, 1)
	assert.Equal(t, "0002", group.Migrations[0].Name)
	assert.False(t, tableExists(t, db, "b"))
	assert.True(t, tableExists(t, db, "a"))

	group, err = repository.Migrate(ctx, db, second)
	require.NoError(t, err)
	assert.Len(t, group.Migrations, 1)
	assert.True(t, tableExists(t, db, "b"))
}

func TestRollback_EmbeddedSchema(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	_, err := repository.Migrate(ctx, db, jobly.GetMigrationsFS())
	require.NoError(t, err)

	group, err := repository.Rollback(ctx, db, jobly.GetMigrationsFS())
	require.NoError(t, err)
	assert.Len(t, group.Migrations, 4)

	for _, table := range []string{"companies", "jobs", "users", "applications", "technologies"} {
		assert.False(t, tableExists(t, db, table), table)
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	var enabled int
	require.NoError(t, db.NewRaw("PRAGMA foreign_keys").Scan(ctx, &enabled))
	assert.Equal(t, 1, enabled)
}
