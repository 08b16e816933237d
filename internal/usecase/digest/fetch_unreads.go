package digest

import (
	"context"
	"fmt"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
	domainerrors "github.com/daehan-lim/slack-digest/internal/domain/errors"
)

// RawConversation is one unread conversation with its message window and
// reconstructed threads, before enrichment.
type RawConversation struct {
	Conversation *entity.Conversation
	Messages     []*entity.Message
	Threads      []*entity.Thread
}

// FetchConfig bounds the aggregation window.
type FetchConfig struct {
	// ConversationTypes are the listing type filters to scan.
	ConversationTypes []string

	// MaxMessages caps the message window fetched per conversation.
	MaxMessages int

	// MaxThreadReplies caps the replies fetched per thread.
	MaxThreadReplies int
}

// Fetcher lists conversations, detects unreads and reconstructs each
// unread conversation's message window and threads.
type Fetcher struct {
	gateway  SlackGateway
	detector *UnreadDetector
	cfg      FetchConfig
	logger   Logger
}

// NewFetcher creates a new fetcher.
func NewFetcher(gateway SlackGateway, detector *UnreadDetector, cfg FetchConfig, logger Logger) *Fetcher {
	return &Fetcher{
		gateway:  gateway,
		detector: detector,
		cfg:      cfg,
		logger:   logger,
	}
}

// FetchAll returns the raw unread content of every unread conversation.
// A listing failure is fatal: there is no meaningful partial output
// without a conversation list. Per-conversation fetch failures are
// logged and skipped; conversations with no qualifying content are
// dropped entirely.
func (f *Fetcher) FetchAll(ctx context.Context) ([]*RawConversation, error) {
	conversations, err := f.gateway.ListConversations(ctx, f.cfg.ConversationTypes)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	unread := f.detector.Filter(conversations)
	if len(unread) == 0 {
		return nil, nil
	}

	var result []*RawConversation
	for _, conv := range unread {
		if err := ctx.Err(); err != nil {
			// Cancelled: conversations not yet processed are simply
			// omitted from the aggregate.
			f.logger.Warn("fetch cancelled, returning partial aggregate",
				"processed", len(result),
				"remaining", len(unread)-len(result),
			)
			return result, nil
		}

		raw, err := f.fetchConversation(ctx, conv)
		if err != nil {
			f.logger.Error("skipping conversation after fetch failure",
				"conversation", conv.ID,
				"error", err,
			)
			continue
		}
		if len(raw.Messages) == 0 && len(raw.Threads) == 0 {
			continue
		}

		f.logger.Info("fetched unread conversation",
			"conversation", conv.ID,
			"messages", len(raw.Messages),
			"threads", len(raw.Threads),
		)
		result = append(result, raw)
	}

	return result, nil
}

// fetchConversation pulls the unread message window of one conversation
// and partitions it into top-level messages and threads.
func (f *Fetcher) fetchConversation(ctx context.Context, conv *entity.Conversation) (*RawConversation, error) {
	messages, err := f.gateway.ListMessages(ctx, conv.ID, conv.LastRead, f.cfg.MaxMessages)
	if err != nil {
		return nil, err
	}

	var topLevel []*entity.Message
	var parents []*entity.Message

	for _, msg := range messages {
		if !msg.IsSummarizable() {
			continue
		}
		if msg.IsThreadParent() {
			parents = append(parents, msg)
			continue
		}
		if msg.IsThreadReply() {
			// Surfaces through its thread, never the top-level list.
			continue
		}
		topLevel = append(topLevel, msg)
	}

	var threads []*entity.Thread
	for _, parent := range parents {
		replies, err := f.gateway.ListThreadReplies(ctx, conv.ID, parent.Timestamp, conv.LastRead, f.cfg.MaxThreadReplies)
		if err != nil {
			// Isolated to this thread; the conversation continues.
			ferr := &domainerrors.ThreadFetchError{
				ConversationID:  conv.ID,
				ThreadTimestamp: parent.Timestamp,
				Err:             err,
			}
			f.logger.Warn("dropping thread after fetch failure", "error", ferr)
			continue
		}
		if len(replies) == 0 {
			continue
		}
		threads = append(threads, &entity.Thread{Parent: parent, Replies: replies})
	}

	return &RawConversation{
		Conversation: conv,
		Messages:     topLevel,
		Threads:      threads,
	}, nil
}
