package slack

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/slack-go/slack"

	domainerrors "github.com/daehan-lim/slack-digest/internal/domain/errors"
	"github.com/daehan-lim/slack-digest/internal/infrastructure/observability"
)

// RetryPolicy defines the pacing and rate-limit retry behavior applied to
// every outbound Slack call.
type RetryPolicy struct {
	// Delay is the fixed pause before every call, keeping the run under
	// the platform rate limits. This is deliberate backpressure, not an
	// optimization target.
	Delay time.Duration

	// MaxRetries bounds rate-limited attempts per call.
	MaxRetries int

	// InitialBackoff is the first wait used when the server suggests none.
	InitialBackoff time.Duration

	// BackoffMultiplier grows the fallback wait between attempts.
	BackoffMultiplier float64

	// MaxBackoff caps every wait, server-suggested or computed.
	MaxBackoff time.Duration
}

// DefaultRetryPolicy returns the standard pacing policy:
// 1s pre-call delay, 3 retries, doubling backoff from 1s capped at 5m.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Delay:             1 * time.Second,
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        5 * time.Minute,
	}
}

// RateLimitedTransport funnels every remote call through a fixed
// inter-call delay and retries rate-limited calls with exponential
// backoff. All non-rate-limit errors propagate immediately; exhausting
// the retry budget surfaces a terminal RateLimitExceededError.
type RateLimitedTransport struct {
	policy  RetryPolicy
	logger  *slog.Logger
	metrics *observability.Metrics

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimitedTransport creates a transport with the given policy.
// metrics may be nil when telemetry is disabled.
func NewRateLimitedTransport(policy RetryPolicy, logger *slog.Logger, metrics *observability.Metrics) *RateLimitedTransport {
	if policy.InitialBackoff <= 0 {
		policy.InitialBackoff = 1 * time.Second
	}
	return &RateLimitedTransport{
		policy:  policy,
		logger:  logger,
		metrics: metrics,
		sleep:   sleepCtx,
	}
}

// Do executes fn after the fixed delay, retrying on rate-limit responses.
// op names the remote operation for logs and metrics.
func (t *RateLimitedTransport) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := t.sleep(ctx, t.policy.Delay); err != nil {
		return err
	}

	backoff := t.policy.InitialBackoff
	attempts := 0

	for {
		t.metrics.RecordAPICall(ctx, op)

		err := fn(ctx)
		if err == nil {
			return nil
		}

		var rle *slack.RateLimitedError
		if !errors.As(err, &rle) {
			// Not a rate-limit signal; propagate without retry.
			return err
		}

		attempts++
		t.metrics.RecordAPIRetry(ctx, op)

		if attempts >= t.policy.MaxRetries {
			t.metrics.RecordRateLimitExhausted(ctx, op)
			t.logger.Error("rate limit retries exhausted",
				"op", op,
				"attempts", attempts,
			)
			return &domainerrors.RateLimitExceededError{Attempts: attempts, Last: err}
		}

		// Prefer the server-suggested wait, fall back to the growing
		// backoff, cap either way.
		wait := backoff
		if rle.RetryAfter > 0 {
			wait = rle.RetryAfter
		}
		if wait > t.policy.MaxBackoff {
			wait = t.policy.MaxBackoff
		}

		t.logger.Warn("rate limited, retrying",
			"op", op,
			"attempt", attempts,
			"max_retries", t.policy.MaxRetries,
			"wait", wait,
		)

		if err := t.sleep(ctx, wait); err != nil {
			return err
		}

		backoff = time.Duration(float64(backoff) * t.policy.BackoffMultiplier)
	}
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
