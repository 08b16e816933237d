package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// truncationMarker is appended to text cut at the length budget.
const truncationMarker = "..."

// fallbackTeamDomain substitutes when team lookup fails.
const fallbackTeamDomain = "slack"

// EnrichConfig bounds the enrichment output.
type EnrichConfig struct {
	// MaxMessageLength is the text budget per message, in characters.
	MaxMessageLength int

	// MaxThreadReplies caps the replies shown per thread.
	MaxThreadReplies int
}

// Enricher attaches display data to raw conversations: resolved author
// names, permalinks, truncated text and human-readable conversation
// names. Enrichment is deterministic for a given input and cache state.
type Enricher struct {
	gateway SlackGateway
	cache   *UserCache
	cfg     EnrichConfig
	logger  Logger
}

// NewEnricher creates an enricher owning a fresh per-run user cache.
func NewEnricher(gateway SlackGateway, cfg EnrichConfig, logger Logger) *Enricher {
	return &Enricher{
		gateway: gateway,
		cache:   NewUserCache(gateway),
		cfg:     cfg,
		logger:  logger,
	}
}

// EnrichAll enriches every raw conversation. The team domain is resolved
// once per run. Conversations left with no content after enrichment are
// dropped.
func (e *Enricher) EnrichAll(ctx context.Context, raws []*RawConversation) []*entity.EnrichedConversation {
	domain, err := e.gateway.GetTeamDomain(ctx)
	if err != nil || domain == "" {
		domain = fallbackTeamDomain
	}

	enriched := make([]*entity.EnrichedConversation, 0, len(raws))
	for _, raw := range raws {
		conv := e.enrichConversation(ctx, domain, raw)
		if conv == nil {
			continue
		}
		enriched = append(enriched, conv)
	}

	e.logger.Info("enriched conversations", "count", len(enriched))
	return enriched
}

func (e *Enricher) enrichConversation(ctx context.Context, domain string, raw *RawConversation) *entity.EnrichedConversation {
	var messages []*entity.EnrichedMessage
	for _, msg := range raw.Messages {
		if em := e.enrichMessage(ctx, domain, raw.Conversation.ID, msg); em != nil {
			messages = append(messages, em)
		}
	}

	var threads []*entity.EnrichedThread
	for _, thread := range raw.Threads {
		if et := e.enrichThread(ctx, domain, raw.Conversation.ID, thread); et != nil {
			threads = append(threads, et)
		}
	}

	if len(messages) == 0 && len(threads) == 0 {
		return nil
	}

	return &entity.EnrichedConversation{
		ChannelID:   raw.Conversation.ID,
		ChannelName: e.displayName(ctx, raw.Conversation),
		Kind:        raw.Conversation.Kind,
		IsPrivate:   raw.Conversation.IsPrivate,
		Messages:    messages,
		Threads:     threads,
		TotalCount:  len(messages) + len(threads),
		ChannelLink: fmt.Sprintf("https://%s.slack.com/archives/%s", domain, raw.Conversation.ID),
	}
}

// enrichMessage returns nil for messages with no text or no resolvable
// author, which are structural system messages.
func (e *Enricher) enrichMessage(ctx context.Context, domain, channelID string, msg *entity.Message) *entity.EnrichedMessage {
	if msg.Text == "" || msg.UserID == "" {
		return nil
	}

	user := e.cache.Get(ctx, msg.UserID)

	return &entity.EnrichedMessage{
		Text:           truncate(msg.Text, e.cfg.MaxMessageLength),
		UserID:         msg.UserID,
		UserName:       user.DisplayName(),
		Timestamp:      msg.Timestamp,
		Permalink:      permalink(domain, channelID, msg.Timestamp),
		HasAttachments: msg.HasAttachments,
		ReactionCount:  msg.ReactionCount,
	}
}

// enrichThread enriches the parent first; a parent that fails enrichment
// discards the entire thread. Replies are enriched up to the configured
// maximum, with both the fetched and shown counts recorded.
func (e *Enricher) enrichThread(ctx context.Context, domain, channelID string, thread *entity.Thread) *entity.EnrichedThread {
	parent := e.enrichMessage(ctx, domain, channelID, thread.Parent)
	if parent == nil {
		return nil
	}

	limit := len(thread.Replies)
	if limit > e.cfg.MaxThreadReplies {
		limit = e.cfg.MaxThreadReplies
	}

	var replies []*entity.EnrichedMessage
	for _, reply := range thread.Replies[:limit] {
		if er := e.enrichMessage(ctx, domain, channelID, reply); er != nil {
			replies = append(replies, er)
		}
	}

	return &entity.EnrichedThread{
		Parent:       parent,
		Replies:      replies,
		ReplyCount:   len(thread.Replies),
		ShowingCount: len(replies),
		ThreadLink:   parent.Permalink,
	}
}

// displayName computes a human-readable conversation name per kind.
func (e *Enricher) displayName(ctx context.Context, conv *entity.Conversation) string {
	switch conv.Kind {
	case entity.KindDirectMessage:
		if conv.UserID == "" {
			return "Direct Message"
		}
		user := e.cache.Get(ctx, conv.UserID)
		if user.IsUnknown() {
			return fmt.Sprintf("DM (ID: %s)", conv.ID)
		}
		return fmt.Sprintf("DM with %s", user.DisplayName())

	case entity.KindGroupDirectMessage:
		name := conv.Name
		if name == "" {
			name = "group"
		}
		// Group DM names look like "mpdm-alice--bob--carol-1"; strip the
		// prefix and trailing participants/suffix.
		if strings.HasPrefix(name, "mpdm-") {
			name = strings.SplitN(strings.TrimPrefix(name, "mpdm-"), "--", 2)[0]
		}
		return fmt.Sprintf("Group: %s", name)

	default:
		name := conv.Name
		if name == "" {
			name = "unknown"
		}
		if conv.IsPrivate {
			return "🔒 " + name
		}
		return "#" + name
	}
}

// truncate cuts text to the budget in characters, appending the marker.
func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + truncationMarker
}

// permalink builds the archive URL for a message. The timestamp
// separator is removed: "1234567890.123456" becomes "p1234567890123456".
func permalink(domain, channelID, timestamp string) string {
	return fmt.Sprintf("https://%s.slack.com/archives/%s/p%s",
		domain, channelID, strings.ReplaceAll(timestamp, ".", ""))
}
