package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
	"github.com/daehan-lim/slack-digest/internal/domain/repository"
)

// DigestRunRepository provides a SQLite implementation of
// repository.DigestRunRepository.
type DigestRunRepository struct {
	db *sql.DB
}

// NewDigestRunRepository creates a new SQLite run repository.
func NewDigestRunRepository(db *sql.DB) *DigestRunRepository {
	return &DigestRunRepository{db: db}
}

// Save persists a run record, overwriting any record with the same ID.
func (r *DigestRunRepository) Save(ctx context.Context, run *entity.DigestRun) error {
	query := `
		INSERT INTO digest_runs (id, started_at, finished_at, status, conversations, messages, threads, marked_read, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			status = excluded.status,
			conversations = excluded.conversations,
			messages = excluded.messages,
			threads = excluded.threads,
			marked_read = excluded.marked_read,
			error = excluded.error`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		string(run.Status),
		run.Conversations,
		run.Messages,
		run.Threads,
		run.MarkedRead,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("saving digest run: %w", err)
	}
	return nil
}

// FindByID retrieves a run by its unique identifier.
func (r *DigestRunRepository) FindByID(ctx context.Context, id string) (*entity.DigestRun, error) {
	query := `
		SELECT id, started_at, finished_at, status, conversations, messages, threads, marked_read, error
		FROM digest_runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding digest run: %w", err)
	}
	return run, nil
}

// ListRecent returns up to limit runs, most recently started first.
func (r *DigestRunRepository) ListRecent(ctx context.Context, limit int) ([]*entity.DigestRun, error) {
	query := `
		SELECT id, started_at, finished_at, status, conversations, messages, threads, marked_read, error
		FROM digest_runs ORDER BY started_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing digest runs: %w", err)
	}
	defer rows.Close()

	var runs []*entity.DigestRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning digest run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating digest runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*entity.DigestRun, error) {
	var run entity.DigestRun
	var startedAt, finishedAt, status string

	err := row.Scan(
		&run.ID,
		&startedAt,
		&finishedAt,
		&status,
		&run.Conversations,
		&run.Messages,
		&run.Threads,
		&run.MarkedRead,
		&run.Error,
	)
	if err != nil {
		return nil, err
	}

	run.Status = entity.RunStatus(status)
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.FinishedAt, err = parseTime(finishedAt); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	return &run, nil
}

// Times are stored as RFC 3339 strings; the zero time maps to "".
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
