package jobly_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
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

	ctx := context.Background()
	db, err := repository.NewDB(ctx, sqldb)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	_, err = repository.Migrate(ctx, db, jobly.GetMigrationsFS())
	require.NoError(t, err)

	return db
}

func setupRepo(t *testing.T) (jobly.RepositoryManager, *bun.DB) {
	t.Helper()
	db := setupDB(t)
	return jobly.NewRepositoryManager(db, jobly.NewBcryptHasher(4)), db
}

// messageOf returns the client facing message of a package error
func messageOf(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func ptr[T any](v T) *T {
	return &v
}

// seed loads two companies, three jobs and two users, one of them admin.
// Both users have the password "password1".
func seed(t *testing.T, repo jobly.RepositoryManager) []*jobly.Job {
	t.Helper()
	ctx := context.Background()

	companies := []*jobly.Company{
		{Handle: "c1", Name: "C1", NumEmployees: ptr(1), Description: ptr("Desc1"), LogoURL: ptr("http://c1.img")},
		{Handle: "c2", Name: "C2", NumEmployees: ptr(2), Description: ptr("Desc2"), LogoURL: ptr("http://c2.img")},
		{Handle: "c3", Name: "C3", NumEmployees: ptr(3), Description: ptr("Desc3")},
	}
	for _, c := range companies {
		_, err := repo.Companies().Create(ctx, c)
		require.NoError(t, err)
	}

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jobs := []*jobly.Job{
		{Title: "Engineer", Salary: 100000, Equity: 0.1, CompanyHandle: "c1", DatePosted: day},
		{Title: "Designer", Salary: 80000, Equity: 0, CompanyHandle: "c1", DatePosted: day.AddDate(0, 0, 1)},
		{Title: "Senior Engineer", Salary: 150000, Equity: 0.5, CompanyHandle: "c2", DatePosted: day.AddDate(0, 0, 2)},
	}
	for _, j := range jobs {
		_, err := repo.Jobs().Create(ctx, j)
		require.NoError(t, err)
	}

	users := []*jobly.User{
		{Username: "u1", FirstName: "U1F", LastName: "U1L", Email: "u1@email.com"},
		{Username: "admin", FirstName: "Ad", LastName: "Min", Email: "admin@email.com"},
	}
	for _, u := range users {
		_, err := repo.Users().Register(ctx, u, "password1")
		require.NoError(t, err)
	}

	_, err := repo.Users().ToggleAdmin(ctx, "admin")
	require.NoError(t, err)

	return jobs
}
