package entity

// Message subtypes that carry no summarizable content.
const (
	SubtypeBotMessage   = "bot_message"
	SubtypeChannelJoin  = "channel_join"
	SubtypeChannelLeave = "channel_leave"
)

// Message is a raw message from conversations.history or
// conversations.replies.
type Message struct {
	// ConversationID is the parent conversation.
	ConversationID string

	// UserID is the author. Empty for structural system messages.
	UserID string

	// Text is the raw message text.
	Text string

	// Timestamp is the message timestamp, an opaque string in the same
	// lexical ordering domain as the conversation watermarks.
	Timestamp string

	// ThreadTimestamp references the thread parent when the message is
	// part of a thread. Equal to Timestamp on the parent itself.
	ThreadTimestamp string

	// SubType is the Slack message subtype, empty for plain messages.
	SubType string

	// ReplyCount is the total number of thread replies. Positive only on
	// thread parents.
	ReplyCount int

	// HasAttachments reports whether the message carries files or
	// attachments.
	HasAttachments bool

	// ReactionCount is the number of distinct emoji reactions.
	ReactionCount int
}

// IsSummarizable reports whether the message carries content worth
// surfacing. Bot and membership-change messages are excluded.
func (m *Message) IsSummarizable() bool {
	switch m.SubType {
	case SubtypeBotMessage, SubtypeChannelJoin, SubtypeChannelLeave:
		return false
	}
	return true
}

// IsThreadParent reports whether the message heads a thread.
func (m *Message) IsThreadParent() bool {
	return m.ReplyCount > 0
}

// IsThreadReply reports whether the message belongs to a thread it did
// not start. Such messages surface through their thread, never the
// top-level list.
func (m *Message) IsThreadReply() bool {
	return m.ThreadTimestamp != "" && m.ThreadTimestamp != m.Timestamp
}

// Thread is a parent message plus the replies fetched for it. Replies
// holds the window actually retrieved, which may be fewer than the
// parent's ReplyCount.
type Thread struct {
	Parent  *Message
	Replies []*Message
}

// MaxTimestamp returns the lexically greatest of the given timestamps,
// or "" when none are given. Lexical comparison matches chronological
// order because Slack timestamps are fixed-width zero-padded decimals
// with a fractional suffix.
func MaxTimestamp(timestamps ...string) string {
	var max string
	for _, ts := range timestamps {
		if ts > max {
			max = ts
		}
	}
	return max
}
