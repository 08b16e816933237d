package entity

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the terminal state of a digest run.
type RunStatus string

const (
	// RunStatusCompleted means the digest was delivered.
	RunStatusCompleted RunStatus = "completed"

	// RunStatusNoUnreads means the pipeline finished with nothing to
	// report. Distinct from a failure: the "all caught up" signal was
	// delivered.
	RunStatusNoUnreads RunStatus = "no_unreads"

	// RunStatusFailed means the run hit a fatal error.
	RunStatusFailed RunStatus = "failed"
)

// DigestRun is the persisted record of one aggregation run.
type DigestRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     RunStatus

	// Conversations is the number of conversations in the delivered digest.
	Conversations int

	// Messages is the number of top-level messages across the digest.
	Messages int

	// Threads is the number of threads across the digest.
	Threads int

	// MarkedRead is the number of conversations marked as read.
	MarkedRead int

	// Error holds the fatal error text for failed runs.
	Error string
}

// NewDigestRun starts a new run record.
func NewDigestRun() *DigestRun {
	return &DigestRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
}

// Complete marks the run as delivered.
func (r *DigestRun) Complete() {
	r.Status = RunStatusCompleted
	r.FinishedAt = time.Now().UTC()
}

// CompleteEmpty marks the run as finished with zero unreads.
func (r *DigestRun) CompleteEmpty() {
	r.Status = RunStatusNoUnreads
	r.FinishedAt = time.Now().UTC()
}

// Fail marks the run as fatally failed.
func (r *DigestRun) Fail(err error) {
	r.Status = RunStatusFailed
	r.FinishedAt = time.Now().UTC()
	if err != nil {
		r.Error = err.Error()
	}
}

// Duration returns the wall time of the run.
func (r *DigestRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
