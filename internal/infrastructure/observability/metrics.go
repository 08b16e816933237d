package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing, so telemetry can be disabled without branching at
// every call site.
type Metrics struct {
	meter metric.Meter

	// Slack API metrics
	APICallsTotal           metric.Int64Counter
	APIRetriesTotal         metric.Int64Counter
	RateLimitExhaustedTotal metric.Int64Counter

	// Pipeline metrics
	RunsTotal               metric.Int64Counter
	RunDuration             metric.Float64Histogram
	ConversationsDigested   metric.Int64Counter
	MessagesDigested        metric.Int64Counter
	ThreadsDigested         metric.Int64Counter
	ConversationsMarkedRead metric.Int64Counter
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	m.APICallsTotal, err = meter.Int64Counter(
		"slack.api.calls.total",
		metric.WithDescription("Total number of Slack API calls attempted"),
		metric.WithUnit("{calls}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating api_calls_total: %w", err)
	}

	m.APIRetriesTotal, err = meter.Int64Counter(
		"slack.api.retries.total",
		metric.WithDescription("Total number of rate-limit retries"),
		metric.WithUnit("{retries}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating api_retries_total: %w", err)
	}

	m.RateLimitExhaustedTotal, err = meter.Int64Counter(
		"slack.api.rate_limit_exhausted.total",
		metric.WithDescription("Calls that exhausted the rate-limit retry budget"),
		metric.WithUnit("{calls}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rate_limit_exhausted_total: %w", err)
	}

	m.RunsTotal, err = meter.Int64Counter(
		"digest.runs.total",
		metric.WithDescription("Total number of digest runs by status"),
		metric.WithUnit("{runs}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs_total: %w", err)
	}

	m.RunDuration, err = meter.Float64Histogram(
		"digest.run.duration",
		metric.WithDescription("Digest run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating run_duration: %w", err)
	}

	m.ConversationsDigested, err = meter.Int64Counter(
		"digest.conversations.total",
		metric.WithDescription("Conversations included in delivered digests"),
		metric.WithUnit("{conversations}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating conversations_total: %w", err)
	}

	m.MessagesDigested, err = meter.Int64Counter(
		"digest.messages.total",
		metric.WithDescription("Top-level messages included in delivered digests"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating messages_total: %w", err)
	}

	m.ThreadsDigested, err = meter.Int64Counter(
		"digest.threads.total",
		metric.WithDescription("Threads included in delivered digests"),
		metric.WithUnit("{threads}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating threads_total: %w", err)
	}

	m.ConversationsMarkedRead, err = meter.Int64Counter(
		"digest.marked_read.total",
		metric.WithDescription("Conversations successfully marked as read"),
		metric.WithUnit("{conversations}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating marked_read_total: %w", err)
	}

	return m, nil
}

// RecordAPICall counts one attempted Slack API call.
func (m *Metrics) RecordAPICall(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.APICallsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// RecordAPIRetry counts one rate-limit retry.
func (m *Metrics) RecordAPIRetry(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.APIRetriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// RecordRateLimitExhausted counts one call that gave up on retries.
func (m *Metrics) RecordRateLimitExhausted(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.RateLimitExhaustedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// RecordRun records the outcome of one digest run.
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration, conversations, messages, threads, markedRead int) {
	if m == nil {
		return
	}
	statusAttr := metric.WithAttributes(attribute.String("status", status))
	m.RunsTotal.Add(ctx, 1, statusAttr)
	m.RunDuration.Record(ctx, duration.Seconds(), statusAttr)
	m.ConversationsDigested.Add(ctx, int64(conversations))
	m.MessagesDigested.Add(ctx, int64(messages))
	m.ThreadsDigested.Add(ctx, int64(threads))
	m.ConversationsMarkedRead.Add(ctx, int64(markedRead))
}
