package repository

import (
	"context"
	"io/fs"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const (
	MigrationsTable      = "schema_migrations"
	MigrationLocksTable  = "schema_migration_locks"
	textCodeNoMigrations = "NO_MIGRATIONS"
)

// ErrNothingToRollback is returned by Rollback when no migration group
// has been applied.
var ErrNothingToRollback = goerrors.New("no migrations to roll back", goerrors.CategoryNotFound).
	WithTextCode(textCodeNoMigrations)

// NewMigrator discovers the NNNN_name[.tx].up.sql / .down.sql files at
// the root of fsys and returns a migrator that records them in
// MigrationsTable. A migration is only marked applied once it succeeds.
func NewMigrator(db *bun.DB, fsys fs.FS) (*migrate.Migrator, error) {
	migrations := migrate.NewMigrations()
	if err := migrations.Discover(fsys); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to discover migrations")
	}

	return migrate.NewMigrator(db, migrations,
		migrate.WithTableName(MigrationsTable),
		migrate.WithLocksTableName(MigrationLocksTable),
		migrate.WithMarkAppliedOnSuccess(true),
	), nil
}

// Migrate applies every pending migration as one group. The returned
// group is empty when the schema is up to date.
func Migrate(ctx context.Context, db *bun.DB, fsys fs.FS) (*migrate.MigrationGroup, error) {
	var group *migrate.MigrationGroup
	err := withMigrator(ctx, db, fsys, func(m *migrate.Migrator) error {
		var err error
		group, err = m.Migrate(ctx)
		if err != nil {
			msg := "failed to apply migrations"
			if group != nil {
				msg += " " + group.String()
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
		}
		return nil
	})
	return group, err
}

// Rollback reverts the last applied migration group, newest first.
func Rollback(ctx context.Context, db *bun.DB, fsys fs.FS) (*migrate.MigrationGroup, error) {
	var group *migrate.MigrationGroup
	err := withMigrator(ctx, db, fsys, func(m *migrate.Migrator) error {
		var err error
		group, err = m.Rollback(ctx)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to roll back migrations")
		}
		if group.IsZero() {
			return ErrNothingToRollback
		}
		return nil
	})
	return group, err
}

// Status lists every known migration. Applied ones carry a group id.
func Status(ctx context.Context, db *bun.DB, fsys fs.FS) (migrate.MigrationSlice, error) {
	var out migrate.MigrationSlice
	err := withMigrator(ctx, db, fsys, func(m *migrate.Migrator) error {
		var err error
		out, err = m.MigrationsWithStatus(ctx)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list migrations")
		}
		return nil
	})
	return out, err
}

func withMigrator(ctx context.Context, db *bun.DB, fsys fs.FS, fn func(*migrate.Migrator) error) error {
	m, err := NewMigrator(db, fsys)
	if err != nil {
		return err
	}

	if err := m.Init(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create migration tables")
	}

	if err := m.Lock(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryConflict, "migrations are locked")
	}
	defer m.Unlock(ctx) //nolint:errcheck

	return fn(m)
}
