package jobly

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-jobly/sqlpatch"
)

const msgJobNotFound = "Job not Found"

// JobColumns are the columns a job update may touch
var JobColumns = sqlpatch.NewAllowlist("title", "salary", "equity", "company_handle")

// JobFilter narrows a job search
type JobFilter struct {
	Search    string
	MinSalary *float64
	MinEquity *float64
}

type Jobs interface {
	Search(ctx context.Context, filter JobFilter) ([]JobSummary, error)
	Create(ctx context.Context, record *Job) (*Job, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Job) (*Job, error)
	GetByID(ctx context.Context, id int64) (*Job, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*Job, error)
	Get(ctx context.Context, id int64) (*JobDetail, error)
	Update(ctx context.Context, id int64, changes sqlpatch.Changes) (*Job, error)
	UpdateTx(ctx context.Context, tx bun.IDB, id int64, changes sqlpatch.Changes) (*Job, error)
	Delete(ctx context.Context, id int64) (*Job, error)
	DeleteTx(ctx context.Context, tx bun.IDB, id int64) (*Job, error)
}

type jobs struct {
	db  *bun.DB
	now func() time.Time
}

var _ Jobs = (*jobs)(nil)

func NewJobsRepository(db *bun.DB) Jobs {
	return &jobs{db: db, now: time.Now}
}

func (r *jobs) Search(ctx context.Context, filter JobFilter) ([]JobSummary, error) {
	out := []JobSummary{}
	q := r.db.NewSelect().
		Model((*Job)(nil)).
		Column("title", "company_handle").
		Order("date_posted DESC", "id DESC")

	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if filter.MinSalary != nil {
		q = q.Where("salary >= ?", *filter.MinSalary)
	}
	if filter.MinEquity != nil {
		q = q.Where("equity >= ?", *filter.MinEquity)
	}

	if err := q.Scan(ctx, &out); err != nil {
		return nil, mapStoreError(err, "")
	}

	return out, nil
}

func (r *jobs) Create(ctx context.Context, record *Job) (*Job, error) {
	return r.CreateTx(ctx, r.db, record)
}

// CreateTx inserts record, dating it today when no date is set
func (r *jobs) CreateTx(ctx context.Context, tx bun.IDB, record *Job) (*Job, error) {
	if record.DatePosted.IsZero() {
		record.DatePosted = truncateDay(r.now())
	}
	record.CompanyHandle = strings.ToLower(record.CompanyHandle)

	if _, err := tx.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, mapStoreError(err, "")
	}
	return record, nil
}

func (r *jobs) GetByID(ctx context.Context, id int64) (*Job, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

func (r *jobs) GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*Job, error) {
	record := &Job{}
	err := tx.NewSelect().
		Model(record).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapStoreError(err, msgJobNotFound)
	}
	return record, nil
}

func (r *jobs) Get(ctx context.Context, id int64) (*JobDetail, error) {
	job, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	techs := []string{}
	err = r.db.NewSelect().
		Model((*Technology)(nil)).
		Column("language_name").
		Where("job_id = ?", job.ID).
		Order("language_name ASC").
		Scan(ctx, &techs)
	if err != nil {
		return nil, mapStoreError(err, "")
	}

	return &JobDetail{Job: job, Technologies: techs}, nil
}

func (r *jobs) Update(ctx context.Context, id int64, changes sqlpatch.Changes) (*Job, error) {
	return r.UpdateTx(ctx, r.db, id, changes)
}

func (r *jobs) UpdateTx(ctx context.Context, tx bun.IDB, id int64, changes sqlpatch.Changes) (*Job, error) {
	if v, ok := changes.Get("company_handle"); ok {
		if handle, isString := v.(string); isString {
			changes = changes.Set("company_handle", strings.ToLower(handle))
		}
	}

	stmt, err := sqlpatch.BuildFrom(JobColumns, "jobs", changes, "id", id)
	if err != nil {
		return nil, err
	}

	var rows []Job
	found, err := execPatch(ctx, r.db, tx, stmt, &rows)
	if err != nil {
		return nil, mapStoreError(err, "")
	}
	if !found {
		return nil, NotFoundError("%s", msgJobNotFound)
	}

	return &rows[0], nil
}

func (r *jobs) Delete(ctx context.Context, id int64) (*Job, error) {
	var out *Job
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		out, err = r.DeleteTx(ctx, tx, id)
		return err
	})
	return out, err
}

func (r *jobs) DeleteTx(ctx context.Context, tx bun.IDB, id int64) (*Job, error) {
	record, err := r.GetByIDTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	_, err = tx.NewDelete().
		Model((*Job)(nil)).
		Where("id = ?", record.ID).
		Exec(ctx)
	if err != nil {
		return nil, mapStoreError(err, "")
	}

	return record, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
