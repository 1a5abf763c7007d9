package jobly

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-jobly/sqlpatch"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error

	Companies() Companies
	Jobs() Jobs
	Users() Users
	Applications() Applications
	Technologies() Technologies
}

type mngr struct {
	db           *bun.DB
	companies    Companies
	jobs         Jobs
	users        Users
	applications Applications
	technologies Technologies
}

// NewRepositoryManager builds every repository over db
func NewRepositoryManager(db *bun.DB, hasher PasswordAuthenticator) RepositoryManager {
	return &mngr{
		db:           db,
		companies:    NewCompaniesRepository(db),
		jobs:         NewJobsRepository(db),
		users:        NewUsersRepository(db, hasher),
		applications: NewApplicationsRepository(db),
		technologies: NewTechnologiesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository manager requires a database")
	}

	checks := map[string]any{
		"companies":    m.companies,
		"jobs":         m.jobs,
		"users":        m.users,
		"applications": m.applications,
		"technologies": m.technologies,
	}
	for name, repo := range checks {
		if repo == nil {
			return errors.New("repository " + name + " should be initialized")
		}
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Companies() Companies {
	return m.companies
}

func (m mngr) Jobs() Jobs {
	return m.jobs
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Applications() Applications {
	return m.applications
}

func (m mngr) Technologies() Technologies {
	return m.technologies
}

type sqlQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// driverConn returns the database/sql handle behind tx. bun interpolates
// its own "?" placeholders client side, so statements carrying "$n"
// placeholders have to go straight to the driver.
func driverConn(tx bun.IDB) sqlQuerier {
	switch v := tx.(type) {
	case *bun.DB:
		return v.DB
	case bun.Tx:
		return v.Tx
	case *bun.Tx:
		return v.Tx
	}
	return nil
}

// execPatch runs a sqlpatch statement and scans the returned rows into
// dest, a pointer to a slice of models. It reports whether any row
// matched.
func execPatch(ctx context.Context, db *bun.DB, tx bun.IDB, stmt sqlpatch.Statement, dest any) (bool, error) {
	conn := driverConn(tx)
	if conn == nil {
		return false, goerrors.New("unsupported database handle", goerrors.CategoryInternal)
	}

	rows, err := conn.QueryContext(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if err := db.ScanRows(ctx, rows, dest); err != nil {
		return false, err
	}

	return sliceLen(dest) > 0, nil
}

func sliceLen(dest any) int {
	switch v := dest.(type) {
	case *[]Company:
		return len(*v)
	case *[]Job:
		return len(*v)
	case *[]User:
		return len(*v)
	}
	return 0
}

// mapStoreError turns driver errors into the package error taxonomy.
// notFound is the message used when no row matched.
func mapStoreError(err error, notFound string) error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return NotFoundError("%s", notFound)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY must be unique"):
		return withMessage(ErrConflict, "%s", ErrConflict.Message).
			WithMetadata(map[string]any{"cause": msg})
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return withMessage(ErrInvalidReference, "%s", ErrInvalidReference.Message).
			WithMetadata(map[string]any{"cause": msg})
	case strings.Contains(msg, "CHECK constraint failed"):
		return withMessage(ErrValidation, "value out of range").
			WithMetadata(map[string]any{"cause": msg, "errors": []string{"value out of range"}})
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, "database operation failed").
		WithCode(goerrors.CodeInternal)
}
