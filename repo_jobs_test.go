package jobly_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-jobly"
	"github.com/goliatone/go-jobly/sqlpatch"
)

func TestJobs_CreateDefaultsDate(t *testing.T) {
	repo, _ := setupRepo(t)
	seed(t, repo)

	job, err := repo.Jobs().Create(context.Background(), &jobly.Job{
		Title:         "New",
		Salary:        1,
		Equity:        0.2,
		CompanyHandle: "C3",
	})
	require.NoError(t, err)
	assert.NotZero(t, job.ID)
	assert.Equal(t, "c3", job.CompanyHandle)
	assert.False(t, job.DatePosted.IsZero())
}

func TestJobs_CreateRejectsBadRows(t *testing.T) {
	repo, _ := setupRepo(t)
	seed(t, repo)
	ctx := context.Background()

	_, err := repo.Jobs().Create(ctx, &jobly.Job{Title: "x", CompanyHandle: "nope"})
	assert.ErrorIs(t, err, jobly.ErrInvalidReference)

	_, err = repo.Jobs().Create(ctx, &jobly.Job{Title: "x", Equity: 1.5, CompanyHandle: "c1"})
	assert.ErrorIs(t, err, jobly.ErrValidation)
}

func TestJobs_Search(t *testing.T) {
	repo, _ := setupRepo(t)
	seed(t, repo)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter jobly.JobFilter
		want   []string
	}{
		{name: "newest first", filter: jobly.JobFilter{}, want: []string{"Senior Engineer", "Designer", "Engineer"}},
		{name: "title search", filter: jobly.JobFilter{Search: "engineer"}, want: []string{"Senior Engineer", "Engineer"}},
		{name: "min salary", filter: jobly.JobFilter{MinSalary: ptr(90000.0)}, want: []string{"Senior Engineer", "Engineer"}},
		{name: "min equity", filter: jobly.JobFilter{MinEquity: ptr(0.2)}, want: []string{"Senior Engineer"}},
		{name: "no match", filter: jobly.JobFilter{Search: "pilot"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Jobs().Search(ctx, tt.filter)
			require.NoError(t, err)

			titles := []string{}
			for _, j := range got {
				titles = append(titles, j.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestJobs_GetWithTechnologies(t *testing.T) {
	repo, _ := setupRepo(t)
	jobs := seed(t, repo)
	ctx := context.Background()

	_, err := repo.Technologies().Add(ctx, jobs[0].ID, "Go")
	require.NoError(t, err)
	_, err = repo.Technologies().Add(ctx, jobs[0].ID, "go")
	require.NoError(t, err)
	_, err = repo.Technologies().Add(ctx, jobs[0].ID, "Elixir")
	require.NoError(t, err)

	detail, err := repo.Jobs().Get(ctx, jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", detail.Job.Title)
	assert.Equal(t, []string{"elixir", "go"}, detail.Technologies)

	_, err = repo.Jobs().Get(ctx, 9999)
	assert.ErrorIs(t, err, jobly.ErrNotFound)
	assert.Equal(t, "Job not Found", messageOf(err))
}

func TestJobs_Update(t *testing.T) {
	repo, _ := setupRepo(t)
	jobs := seed(t, repo)
	ctx := context.Background()

	job, err := repo.Jobs().Update(ctx, jobs[1].ID, sqlpatch.Changes{}.
		Set("title", "Lead Designer").
		Set("salary", 90000.0))
	require.NoError(t, err)
	assert.Equal(t, jobs[1].ID, job.ID)
	assert.Equal(t, "Lead Designer", job.Title)
	assert.Equal(t, 90000.0, job.Salary)
	assert.Equal(t, "c1", job.CompanyHandle)

	_, err = repo.Jobs().Update(ctx, 9999, sqlpatch.Changes{}.Set("title", "x"))
	assert.ErrorIs(t, err, jobly.ErrNotFound)

	_, err = repo.Jobs().Update(ctx, jobs[1].ID, sqlpatch.Changes{}.Set("id", 5))
	assert.ErrorIs(t, err, sqlpatch.ErrColumnNotAllowed)

	_, err = repo.Jobs().Update(ctx, jobs[1].ID, sqlpatch.Changes{})
	assert.ErrorIs(t, err, sqlpatch.ErrInvalidUpdate)
}

func TestJobs_Delete(t *testing.T) {
	repo, _ := setupRepo(t)
	jobs := seed(t, repo)
	ctx := context.Background()

	job, err := repo.Jobs().Delete(ctx, jobs[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", job.Title)

	_, err = repo.Jobs().Delete(ctx, jobs[2].ID)
	assert.ErrorIs(t, err, jobly.ErrNotFound)
}

func TestTechnologies_MissingJob(t *testing.T) {
	repo, _ := setupRepo(t)
	seed(t, repo)

	_, err := repo.Technologies().Add(context.Background(), 9999, "go")
	assert.ErrorIs(t, err, jobly.ErrNotFound)
}
