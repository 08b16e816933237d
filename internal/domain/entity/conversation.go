package entity

// ConversationKind identifies the type of a Slack conversation.
// The kind is mutually exclusive and determines naming and priority rules.
type ConversationKind string

const (
	KindDirectMessage      ConversationKind = "direct_message"
	KindGroupDirectMessage ConversationKind = "group_direct_message"
	KindPrivateChannel     ConversationKind = "private_channel"
	KindPublicChannel      ConversationKind = "public_channel"
)

// Priority returns the delivery rank for the kind. Lower sorts first.
func (k ConversationKind) Priority() int {
	switch k {
	case KindDirectMessage:
		return 1
	case KindPrivateChannel:
		return 2
	case KindGroupDirectMessage:
		return 3
	case KindPublicChannel:
		return 4
	default:
		return 5
	}
}

// Conversation is a channel, group or DM as returned by conversations.list.
type Conversation struct {
	// ID is the opaque conversation identifier (C..., G..., D...).
	ID string

	// Name is the raw channel name. Empty for DMs.
	Name string

	// Kind classifies the conversation.
	Kind ConversationKind

	// IsPrivate reports whether the channel is private.
	IsPrivate bool

	// UserID is the peer user for direct messages, empty otherwise.
	UserID string

	// LastRead is the "read up to" watermark. Opaque lexically-ordered
	// timestamp string; may be empty.
	LastRead string

	// LatestTimestamp is the timestamp of the most recent message,
	// if the listing included one.
	LatestTimestamp string

	// UnreadCount is the unread_count_display hint. May be absent (zero)
	// for some conversation kinds even when unreads exist.
	UnreadCount int
}

// HasUnread reports whether the conversation holds unread content.
// The count hint is the primary signal; the watermark comparison is a
// required fallback because the hint is stale or absent for some DM
// states. Both signals together are a heuristic, not an oracle.
func (c *Conversation) HasUnread() bool {
	if c.UnreadCount > 0 {
		return true
	}
	return c.LastRead != "" && c.LatestTimestamp != "" && c.LastRead < c.LatestTimestamp
}
