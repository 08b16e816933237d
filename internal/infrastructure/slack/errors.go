package slack

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/slack-go/slack"

	domainerrors "github.com/daehan-lim/slack-digest/internal/domain/errors"
)

// categorizeError maps Slack API failures onto the domain taxonomy.
// Terminal rate-limit errors pass through untouched so callers can
// distinguish them from every other kind.
func categorizeError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rle *domainerrors.RateLimitExceededError
	if errors.As(err, &rle) {
		return err
	}

	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		switch slackErr.Err {
		case "channel_not_found", "user_not_found", "thread_not_found":
			return fmt.Errorf("%s: %w", operation, domainerrors.ErrNotFound)

		case "not_in_channel", "is_archived":
			return fmt.Errorf("%s: %w", operation, domainerrors.ErrNotAMember)

		// Credential and scope problems will not heal on a later run.
		case "invalid_auth", "account_inactive", "token_revoked",
			"missing_scope", "no_permission", "not_allowed_token_type":
			return domainerrors.NewPermanentError(
				fmt.Sprintf("%s: %s", operation, slackErr.Err),
				err,
			)

		default:
			return domainerrors.NewTransientError(
				fmt.Sprintf("%s: %s", operation, slackErr.Err),
				err,
			)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: network error", operation),
			err,
		)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: context done", operation),
			err,
		)
	}

	return domainerrors.NewTransientError(
		fmt.Sprintf("%s: %v", operation, err),
		err,
	)
}
