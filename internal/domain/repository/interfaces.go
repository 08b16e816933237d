package repository

import (
	"context"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// DigestRunRepository stores the history of aggregation runs.
type DigestRunRepository interface {
	// Save persists a run record, overwriting any record with the same ID.
	Save(ctx context.Context, run *entity.DigestRun) error

	// FindByID returns the run with the given ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*entity.DigestRun, error)

	// ListRecent returns up to limit runs, most recently started first.
	ListRecent(ctx context.Context, limit int) ([]*entity.DigestRun, error)
}
