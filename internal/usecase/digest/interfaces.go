// Package digest implements the unread-aggregation pipeline: detect
// unread conversations, reconstruct their threads, enrich and prioritize
// them, and hand the result to the summarizer and notifier collaborators.
package digest

import (
	"context"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// SlackGateway is the outbound port to the messaging platform. The
// infrastructure implementation paginates and rate-limits every call.
type SlackGateway interface {
	// ListConversations returns all conversations of the given types in
	// server order. Order is not meaningful to callers.
	ListConversations(ctx context.Context, types []string) ([]*entity.Conversation, error)

	// ListMessages returns up to limit messages at or after the oldest
	// watermark.
	ListMessages(ctx context.Context, conversationID, oldest string, limit int) ([]*entity.Message, error)

	// ListThreadReplies returns up to limit replies of a thread since
	// oldest, excluding the thread parent.
	ListThreadReplies(ctx context.Context, conversationID, threadTimestamp, oldest string, limit int) ([]*entity.Message, error)

	// GetUser resolves a user, degrading to the Unknown User sentinel on
	// lookup failure.
	GetUser(ctx context.Context, userID string) (*entity.User, error)

	// GetTeamDomain resolves the workspace domain for permalinks,
	// degrading to a generic fallback on failure.
	GetTeamDomain(ctx context.Context) (string, error)

	// MarkRead moves a conversation's read cursor to the timestamp.
	MarkRead(ctx context.Context, conversationID, timestamp string) error
}

// Summarizer produces summary text for one enriched conversation. A
// failure is tolerated: the pipeline substitutes a preview.
type Summarizer interface {
	Summarize(ctx context.Context, conv *entity.EnrichedConversation) (string, error)
}

// Notifier delivers the run outcome to the user. The pipeline supplies
// the prioritized conversation list; payload construction is the
// notifier's concern.
type Notifier interface {
	DeliverDigest(ctx context.Context, conversations []*entity.EnrichedConversation) error
	DeliverNoUnreads(ctx context.Context) error
	DeliverError(ctx context.Context, message string) error
}

// Logger is the minimal logging interface used by the pipeline.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
