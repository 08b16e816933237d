package digest

import (
	"context"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// MarkResult reports the outcome of a mark-as-read pass.
type MarkResult struct {
	// Marked are the conversation IDs whose cursor was advanced.
	Marked []string

	// Failed are the conversation IDs whose mark call failed.
	Failed []string
}

// MarkReader advances read cursors for digested conversations.
type MarkReader struct {
	gateway SlackGateway
	logger  Logger
}

// NewMarkReader creates a new mark reader.
func NewMarkReader(gateway SlackGateway, logger Logger) *MarkReader {
	return &MarkReader{gateway: gateway, logger: logger}
}

// MarkAll advances each conversation's cursor to the latest timestamp it
// contributed to the digest, so only content the user actually saw is
// marked. Failures are per conversation; the batch always runs to
// completion.
func (m *MarkReader) MarkAll(ctx context.Context, conversations []*entity.EnrichedConversation) *MarkResult {
	result := &MarkResult{}
	for _, conv := range conversations {
		ts := conv.LatestTimestamp()
		if ts == "" {
			m.logger.Warn("no timestamp to mark, skipping", "conversation", conv.ChannelID)
			continue
		}

		if err := m.gateway.MarkRead(ctx, conv.ChannelID, ts); err != nil {
			m.logger.Error("mark as read failed",
				"conversation", conv.ChannelID,
				"error", err,
			)
			result.Failed = append(result.Failed, conv.ChannelID)
			continue
		}
		result.Marked = append(result.Marked, conv.ChannelID)
	}

	m.logger.Info("marked conversations as read",
		"marked", len(result.Marked),
		"failed", len(result.Failed),
	)
	return result
}
