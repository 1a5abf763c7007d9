package jobly

import (
	"context"
	"strings"

	"github.com/uptrace/bun"
)

type Technologies interface {
	Add(ctx context.Context, jobID int64, language string) (*Technology, error)
	AddTx(ctx context.Context, tx bun.IDB, jobID int64, language string) (*Technology, error)
}

type technologies struct {
	db *bun.DB
}

var _ Technologies = (*technologies)(nil)

func NewTechnologiesRepository(db *bun.DB) Technologies {
	return &technologies{db: db}
}

func (r *technologies) Add(ctx context.Context, jobID int64, language string) (*Technology, error) {
	var out *Technology
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		out, err = r.AddTx(ctx, tx, jobID, language)
		return err
	})
	return out, err
}

// AddTx tags the job with language, stored lowercase. Adding a language
// twice is a no-op.
func (r *technologies) AddTx(ctx context.Context, tx bun.IDB, jobID int64, language string) (*Technology, error) {
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

	record := &Technology{
		JobID:        jobID,
		LanguageName: strings.ToLower(strings.TrimSpace(language)),
	}

	_, err = tx.NewInsert().
		Model(record).
		On("CONFLICT (job_id, language_name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, mapStoreError(err, "")
	}

	return record, nil
}
