package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
	"github.com/daehan-lim/slack-digest/internal/domain/repository"
)

// DigestRunRepository provides an in-memory implementation of
// repository.DigestRunRepository. Thread-safe for concurrent access.
type DigestRunRepository struct {
	mu   sync.RWMutex
	runs map[string]*entity.DigestRun
}

// NewDigestRunRepository creates a new in-memory run repository.
func NewDigestRunRepository() *DigestRunRepository {
	return &DigestRunRepository{
		runs: make(map[string]*entity.DigestRun),
	}
}

// Save persists a run record, overwriting any record with the same ID.
func (r *DigestRunRepository) Save(ctx context.Context, run *entity.DigestRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external mutations
	runCopy := *run
	r.runs[run.ID] = &runCopy
	return nil
}

// FindByID retrieves a run by its unique identifier.
func (r *DigestRunRepository) FindByID(ctx context.Context, id string) (*entity.DigestRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	runCopy := *run
	return &runCopy, nil
}

// ListRecent returns up to limit runs, most recently started first.
func (r *DigestRunRepository) ListRecent(ctx context.Context, limit int) ([]*entity.DigestRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*entity.DigestRun, 0, len(r.runs))
	for _, run := range r.runs {
		runCopy := *run
		runs = append(runs, &runCopy)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
