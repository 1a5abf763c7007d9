package jobly

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Applications interface {
	Apply(ctx context.Context, username string, jobID int64, state ApplicationState) (*Application, error)
	ApplyTx(ctx context.Context, tx bun.IDB, username string, jobID int64, state ApplicationState) (*Application, error)
}

type applications struct {
	db  *bun.DB
	now func() time.Time
}

var _ Applications = (*applications)(nil)

func NewApplicationsRepository(db *bun.DB) Applications {
	return &applications{db: db, now: time.Now}
}

func (r *applications) Apply(ctx context.Context, username string, jobID int64, state ApplicationState) (*Application, error) {
	var out *Application
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		out, err = r.ApplyTx(ctx, tx, username, jobID, state)
		return err
	})
	return out, err
}

// ApplyTx records state for the user on the job. Applying again replaces
// the previous state.
func (r *applications) ApplyTx(ctx context.Context, tx bun.IDB, username string, jobID int64, state ApplicationState) (*Application, error) {
	exists, err := tx.NewSelect().
		Model((*Job)(nil)).
		Where("id = ?", jobID).
		Exists(ctx)
	if err != nil {
		return nil, mapStoreError(err, "")
	}
	if !exists {
		return nil, NotFoundError("%s", msgJobNotFound)
	}

	record := &Application{
		Username:  strings.ToLower(username),
		JobID:     jobID,
		State:     NormalizeState(state),
		CreatedAt: r.now().UTC(),
	}

	_, err = tx.NewInsert().
		Model(record).
		On("CONFLICT (username, job_id) DO UPDATE").
		Set("state = EXCLUDED.state").
		Exec(ctx)
	if err != nil {
		return nil, mapStoreError(err, "")
	}

	return record, nil
}
