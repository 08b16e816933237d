package slack

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// pageSize is the per-request limit for paginated listing calls.
const pageSize = 200

// Client exposes the Slack operations the pipeline needs, paginating
// cursor-based listings to completion and funneling every round trip
// through the rate-limited transport.
//
// Two API clients are held: the user client reads conversations and marks
// them read, the bot client delivers DMs.
type Client struct {
	user      *slack.Client
	bot       *slack.Client
	transport *RateLimitedTransport
	logger    *slog.Logger
}

// NewClient creates a Slack client pair behind the given transport.
// The optional apiURL overrides the API endpoint for tests.
func NewClient(userToken, botToken string, transport *RateLimitedTransport, logger *slog.Logger, apiURL ...string) *Client {
	var opts []slack.Option
	if len(apiURL) > 0 && apiURL[0] != "" {
		opts = append(opts, slack.OptionAPIURL(apiURL[0]))
	}

	return &Client{
		user:      slack.New(userToken, opts...),
		bot:       slack.New(botToken, opts...),
		transport: transport,
		logger:    logger,
	}
}

// ListConversations drains all pages of conversations.list for the given
// type filters. Order is whatever the server returned; downstream sorting
// is authoritative.
func (c *Client) ListConversations(ctx context.Context, types []string) ([]*entity.Conversation, error) {
	var conversations []*entity.Conversation
	cursor := ""

	for {
		var channels []slack.Channel
		var next string

		err := c.transport.Do(ctx, "conversations.list", func(ctx context.Context) error {
			var err error
			channels, next, err = c.user.GetConversationsContext(ctx, &slack.GetConversationsParameters{
				Types:           types,
				ExcludeArchived: true,
				Limit:           pageSize,
				Cursor:          cursor,
			})
			return err
		})
		if err != nil {
			return nil, categorizeError(err, "listing conversations")
		}

		for i := range channels {
			conversations = append(conversations, mapChannel(&channels[i]))
		}

		if next == "" {
			break
		}
		cursor = next
		c.logger.Debug("continuing conversation pagination", "fetched", len(conversations))
	}

	c.logger.Info("fetched conversations", "count", len(conversations))
	return conversations, nil
}

// ListMessages pages conversations.history until limit messages are
// collected or no cursor remains. oldest bounds results to messages at or
// after the watermark; pass "" for no bound.
func (c *Client) ListMessages(ctx context.Context, conversationID, oldest string, limit int) ([]*entity.Message, error) {
	var messages []*entity.Message
	cursor := ""

	for len(messages) < limit {
		want := limit - len(messages)
		if want > pageSize {
			want = pageSize
		}

		var resp *slack.GetConversationHistoryResponse
		err := c.transport.Do(ctx, "conversations.history", func(ctx context.Context) error {
			var err error
			resp, err = c.user.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
				ChannelID: conversationID,
				Oldest:    oldest,
				Limit:     want,
				Cursor:    cursor,
			})
			return err
		})
		if err != nil {
			return nil, categorizeError(err, "fetching history")
		}

		for i := range resp.Messages {
			messages = append(messages, mapMessage(conversationID, &resp.Messages[i]))
		}

		cursor = resp.ResponseMetaData.NextCursor
		if cursor == "" || len(resp.Messages) == 0 {
			break
		}
	}

	c.logger.Debug("fetched messages", "conversation", conversationID, "count", len(messages))
	return messages, nil
}

// ListThreadReplies fetches up to limit replies of a thread since the
// given watermark. The API places the thread parent first in its
// response; it is dropped here so callers only see replies.
func (c *Client) ListThreadReplies(ctx context.Context, conversationID, threadTimestamp, oldest string, limit int) ([]*entity.Message, error) {
	var raw []slack.Message

	err := c.transport.Do(ctx, "conversations.replies", func(ctx context.Context) error {
		var err error
		raw, _, _, err = c.user.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
			ChannelID: conversationID,
			Timestamp: threadTimestamp,
			Oldest:    oldest,
			Limit:     limit,
		})
		return err
	})
	if err != nil {
		return nil, categorizeError(err, "fetching thread replies")
	}

	if len(raw) > 0 && raw[0].Timestamp == threadTimestamp {
		raw = raw[1:]
	}

	replies := make([]*entity.Message, 0, len(raw))
	for i := range raw {
		replies = append(replies, mapMessage(conversationID, &raw[i]))
	}
	return replies, nil
}

// GetUser resolves a user by ID. Lookup failure is non-fatal: a synthetic
// Unknown User record is returned instead of an error, since name
// resolution is best-effort.
func (c *Client) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	var user *slack.User

	err := c.transport.Do(ctx, "users.info", func(ctx context.Context) error {
		var err error
		user, err = c.user.GetUserInfoContext(ctx, userID)
		return err
	})
	if err != nil {
		c.logger.Warn("user lookup failed, using placeholder",
			"user_id", userID,
			"error", err,
		)
		return entity.UnknownUser(userID), nil
	}

	return &entity.User{
		ID:       user.ID,
		Name:     user.Name,
		RealName: user.RealName,
	}, nil
}

// GetTeamDomain resolves the workspace domain used to build permalinks.
// Lookup failure degrades to the generic "slack" domain.
func (c *Client) GetTeamDomain(ctx context.Context) (string, error) {
	var team *slack.TeamInfo

	err := c.transport.Do(ctx, "team.info", func(ctx context.Context) error {
		var err error
		team, err = c.user.GetTeamInfoContext(ctx)
		return err
	})
	if err != nil {
		c.logger.Warn("team lookup failed, using fallback domain", "error", err)
		return "slack", nil
	}

	return team.Domain, nil
}

// SendDirectMessage opens (or reuses) the DM channel with the user via
// the bot client and posts text. Returns the message timestamp.
func (c *Client) SendDirectMessage(ctx context.Context, userID, text string) (string, error) {
	var channelID string

	err := c.transport.Do(ctx, "conversations.open", func(ctx context.Context) error {
		channel, _, _, err := c.bot.OpenConversationContext(ctx, &slack.OpenConversationParameters{
			Users:    []string{userID},
			ReturnIM: true,
		})
		if err != nil {
			return err
		}
		channelID = channel.ID
		return nil
	})
	if err != nil {
		return "", categorizeError(err, "opening dm channel")
	}

	var timestamp string
	err = c.transport.Do(ctx, "chat.postMessage", func(ctx context.Context) error {
		var err error
		_, timestamp, err = c.bot.PostMessageContext(ctx, channelID,
			slack.MsgOptionText(text, false),
		)
		return err
	})
	if err != nil {
		return "", categorizeError(err, "posting dm")
	}

	c.logger.Info("sent dm", "user_id", userID, "ts", timestamp)
	return timestamp, nil
}

// MarkRead moves the conversation's read cursor to the given timestamp.
func (c *Client) MarkRead(ctx context.Context, conversationID, timestamp string) error {
	err := c.transport.Do(ctx, "conversations.mark", func(ctx context.Context) error {
		return c.user.MarkConversationContext(ctx, conversationID, timestamp)
	})
	if err != nil {
		return categorizeError(err, "marking conversation read")
	}
	return nil
}

// mapChannel converts a wire channel into a domain conversation.
func mapChannel(ch *slack.Channel) *entity.Conversation {
	kind := entity.KindPublicChannel
	switch {
	case ch.IsIM:
		kind = entity.KindDirectMessage
	case ch.IsMpIM:
		kind = entity.KindGroupDirectMessage
	case ch.IsPrivate:
		kind = entity.KindPrivateChannel
	}

	name := ch.Name
	if name == "" {
		name = ch.NameNormalized
	}

	latest := ""
	if ch.Latest != nil {
		latest = ch.Latest.Timestamp
	}

	return &entity.Conversation{
		ID:              ch.ID,
		Name:            name,
		Kind:            kind,
		IsPrivate:       ch.IsPrivate,
		UserID:          ch.User,
		LastRead:        ch.LastRead,
		LatestTimestamp: latest,
		UnreadCount:     ch.UnreadCountDisplay,
	}
}

// mapMessage converts a wire message into a domain message.
func mapMessage(conversationID string, msg *slack.Message) *entity.Message {
	return &entity.Message{
		ConversationID:  conversationID,
		UserID:          msg.User,
		Text:            msg.Text,
		Timestamp:       msg.Timestamp,
		ThreadTimestamp: msg.ThreadTimestamp,
		SubType:         msg.SubType,
		ReplyCount:      msg.ReplyCount,
		HasAttachments:  len(msg.Files) > 0 || len(msg.Attachments) > 0,
		ReactionCount:   len(msg.Reactions),
	}
}
