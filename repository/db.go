// Package repository opens the SQLite database and applies the schema
// migrations shipped with the service.
package repository

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// DefaultDSN is used when no DSN is configured
const DefaultDSN = "file:jobly.db?cache=shared"

// Open connects to dsn with whichever SQLite driver sqliteshim resolves
// and enables foreign keys. SQLite pragmas are per connection, so the
// pool is capped at one connection.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}

	return NewDB(ctx, sqldb)
}

// NewDB wraps an open *sql.DB with the sqlite dialect and applies the
// connection pragmas.
func NewDB(ctx context.Context, sqldb *sql.DB) (*bun.DB, error) {
	sqldb.SetMaxOpenConns(1)

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reach database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to enable foreign keys")
	}

	// journal_mode is not supported for in-memory databases
	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")

	return db, nil
}
