package jobly

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-jobly/sqlpatch"
)

const (
	DefaultMinEmployees = 0
	DefaultMaxEmployees = 10000

	msgCompanyNotFound = "Handle not Found"
)

// CompanyColumns are the columns a company update may touch
var CompanyColumns = sqlpatch.NewAllowlist("name", "num_employees", "description", "logo_url")

// CompanyFilter narrows a company search. Nil bounds use the defaults.
type CompanyFilter struct {
	Search       string
	MinEmployees *int
	MaxEmployees *int
}

// Bounds returns the employee range with defaults applied, failing when
// the minimum exceeds the maximum.
func (f CompanyFilter) Bounds() (int, int, error) {
	minEmployees, maxEmployees := DefaultMinEmployees, DefaultMaxEmployees
	if f.MinEmployees != nil {
		minEmployees = *f.MinEmployees
	}
	if f.MaxEmployees != nil {
		maxEmployees = *f.MaxEmployees
	}
	if minEmployees > maxEmployees {
		return 0, 0, withMessage(ErrInvalidSearch, "Minimum employees must be less than maximum employees")
	}
	return minEmployees, maxEmployees, nil
}

type Companies interface {
	Search(ctx context.Context, filter CompanyFilter) ([]CompanySummary, error)
	Create(ctx context.Context, record *Company) (*Company, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Company) (*Company, error)
	GetByHandle(ctx context.Context, handle string) (*Company, error)
	GetByHandleTx(ctx context.Context, tx bun.IDB, handle string) (*Company, error)
	Get(ctx context.Context, handle string) (*CompanyDetail, error)
	Update(ctx context.Context, handle string, changes sqlpatch.Changes) (*Company, error)
	UpdateTx(ctx context.Context, tx bun.IDB, handle string, changes sqlpatch.Changes) (*Company, error)
	Delete(ctx context.Context, handle string) (*Company, error)
	DeleteTx(ctx context.Context, tx bun.IDB, handle string) (*Company, error)
}

type companies struct {
	db *bun.DB
}

var _ Companies = (*companies)(nil)

func NewCompaniesRepository(db *bun.DB) Companies {
	return &companies{db: db}
}

func (r *companies) Search(ctx context.Context, filter CompanyFilter) ([]CompanySummary, error) {
	minEmployees, maxEmployees, err := filter.Bounds()
	if err != nil {
		return nil, err
	}

	out := []CompanySummary{}
	q := r.db.NewSelect().
		Model((*Company)(nil)).
		Column("handle", "name").
		Order("name ASC")

	if filter.MinEmployees != nil || filter.MaxEmployees != nil {
		q = q.Where("num_employees BETWEEN ? AND ?", minEmployees, maxEmployees)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where("LOWER(handle) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := q.Scan(ctx, &out); err != nil {
		return nil, mapStoreError(err, "")
	}

	return out, nil
}

func (r *companies) Create(ctx context.Context, record *Company) (*Company, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *companies) CreateTx(ctx context.Context, tx bun.IDB, record *Company) (*Company, error) {
	record.Handle = strings.ToLower(record.Handle)

	if _, err := tx.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, mapStoreError(err, "")
	}
	return record, nil
}

func (r *companies) GetByHandle(ctx context.Context, handle string) (*Company, error) {
	return r.GetByHandleTx(ctx, r.db, handle)
}

func (r *companies) GetByHandleTx(ctx context.Context, tx bun.IDB, handle string) (*Company, error) {
	record := &Company{}
	err := tx.NewSelect().
		Model(record).
		Where("handle = ?", strings.ToLower(handle)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapStoreError(err, msgCompanyNotFound)
	}
	return record, nil
}

func (r *companies) Get(ctx context.Context, handle string) (*CompanyDetail, error) {
	company, err := r.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	jobs := []CompanyJob{}
	err = r.db.NewSelect().
		Model((*Job)(nil)).
		Column("id", "title").
		Where("company_handle = ?", company.Handle).
		Order("id ASC").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, mapStoreError(err, "")
	}

	return &CompanyDetail{Company: company, Jobs: jobs}, nil
}

func (r *companies) Update(ctx context.Context, handle string, changes sqlpatch.Changes) (*Company, error) {
	return r.UpdateTx(ctx, r.db, handle, changes)
}

// UpdateTx applies changes to the company with handle. Columns outside
// CompanyColumns are rejected before any statement is built.
func (r *companies) UpdateTx(ctx context.Context, tx bun.IDB, handle string, changes sqlpatch.Changes) (*Company, error) {
	stmt, err := sqlpatch.BuildFrom(CompanyColumns, "companies", changes, "handle", strings.ToLower(handle))
	if err != nil {
		return nil, err
	}

	var rows []Company
	found, err := execPatch(ctx, r.db, tx, stmt, &rows)
	if err != nil {
		return nil, mapStoreError(err, "")
	}
	if !found {
		return nil, NotFoundError("%s", msgCompanyNotFound)
	}

	return &rows[0], nil
}

func (r *companies) Delete(ctx context.Context, handle string) (*Company, error) {
	var out *Company
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		out, err = r.DeleteTx(ctx, tx, handle)
		return err
	})
	return out, err
}

func (r *companies) DeleteTx(ctx context.Context, tx bun.IDB, handle string) (*Company, error) {
	record, err := r.GetByHandleTx(ctx, tx, handle)
	if err != nil {
		return nil, err
	}

	_, err = tx.NewDelete().
		Model((*Company)(nil)).
		Where("handle = ?", record.Handle).
		Exec(ctx)
	if err != nil {
		return nil, mapStoreError(err, "")
	}

	return record, nil
}
