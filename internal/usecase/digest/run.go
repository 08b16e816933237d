package digest

import (
	"context"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
	"github.com/daehan-lim/slack-digest/internal/domain/repository"
)

// Runner executes one end-to-end digest run: fetch, enrich, prioritize,
// summarize, deliver, then optionally mark as read. Each run produces
// one persisted DigestRun record.
type Runner struct {
	fetcher     *Fetcher
	enricher    *Enricher
	prioritizer *Prioritizer
	summaries   *SummaryWriter
	marker      *MarkReader
	notifier    Notifier
	runs        repository.DigestRunRepository
	logger      Logger

	skipMarkAsRead bool
}

// NewRunner wires the pipeline stages together.
func NewRunner(
	fetcher *Fetcher,
	enricher *Enricher,
	prioritizer *Prioritizer,
	summaries *SummaryWriter,
	marker *MarkReader,
	notifier Notifier,
	runs repository.DigestRunRepository,
	skipMarkAsRead bool,
	logger Logger,
) *Runner {
	return &Runner{
		fetcher:        fetcher,
		enricher:       enricher,
		prioritizer:    prioritizer,
		summaries:      summaries,
		marker:         marker,
		notifier:       notifier,
		runs:           runs,
		logger:         logger,
		skipMarkAsRead: skipMarkAsRead,
	}
}

// Run executes one digest run and returns its record. The record is
// always returned, including for failed runs, so callers can report on
// it. Only fetch-stage failures are fatal; delivery of the failure
// notice and persistence of the record are best effort.
func (r *Runner) Run(ctx context.Context) (*entity.DigestRun, error) {
	run := entity.NewDigestRun()
	r.logger.Info("digest run started", "run_id", run.ID)

	raws, err := r.fetcher.FetchAll(ctx)
	if err != nil {
		run.Fail(err)
		r.save(ctx, run)
		if derr := r.notifier.DeliverError(ctx, err.Error()); derr != nil {
			r.logger.Error("failed to deliver error notice", "error", derr)
		}
		return run, err
	}

	if len(raws) == 0 {
		run.CompleteEmpty()
		r.save(ctx, run)
		if derr := r.notifier.DeliverNoUnreads(ctx); derr != nil {
			r.logger.Error("failed to deliver no-unreads notice", "error", derr)
		}
		r.logger.Info("digest run finished, nothing unread", "run_id", run.ID)
		return run, nil
	}

	conversations := r.enricher.EnrichAll(ctx, raws)
	if len(conversations) == 0 {
		// Everything unread was filtered out during enrichment.
		run.CompleteEmpty()
		r.save(ctx, run)
		if derr := r.notifier.DeliverNoUnreads(ctx); derr != nil {
			r.logger.Error("failed to deliver no-unreads notice", "error", derr)
		}
		return run, nil
	}

	r.prioritizer.Sort(conversations)
	r.summaries.WriteAll(ctx, conversations)

	if err := r.notifier.DeliverDigest(ctx, conversations); err != nil {
		run.Fail(err)
		r.save(ctx, run)
		return run, err
	}

	// Cursors advance only after the digest is in the user's hands.
	if !r.skipMarkAsRead {
		marked := r.marker.MarkAll(ctx, conversations)
		run.MarkedRead = len(marked.Marked)
	}

	run.Conversations = len(conversations)
	for _, conv := range conversations {
		run.Messages += len(conv.Messages)
		run.Threads += len(conv.Threads)
	}
	run.Complete()
	r.save(ctx, run)

	r.logger.Info("digest run finished",
		"run_id", run.ID,
		"conversations", run.Conversations,
		"messages", run.Messages,
		"threads", run.Threads,
		"marked_read", run.MarkedRead,
		"duration", run.Duration(),
	)
	return run, nil
}

// save persists the run record. History is an audit trail, never worth
// failing a run over.
func (r *Runner) save(ctx context.Context, run *entity.DigestRun) {
	if r.runs == nil {
		return
	}
	if err := r.runs.Save(ctx, run); err != nil {
		r.logger.Error("failed to persist run record", "run_id", run.ID, "error", err)
	}
}
