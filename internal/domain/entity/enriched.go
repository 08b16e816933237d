package entity

// EnrichedMessage is a message with resolved display data attached.
type EnrichedMessage struct {
	// Text is the message text, truncated to the configured budget.
	Text string

	// UserID is the author.
	UserID string

	// UserName is the resolved author display name.
	UserName string

	// Timestamp is the raw message timestamp.
	Timestamp string

	// Permalink is the archive URL for the message.
	Permalink string

	// HasAttachments reports whether the message carries files or
	// attachments.
	HasAttachments bool

	// ReactionCount is the number of distinct emoji reactions.
	ReactionCount int
}

// EnrichedThread is an enriched thread parent plus the replies shown.
type EnrichedThread struct {
	Parent  *EnrichedMessage
	Replies []*EnrichedMessage

	// ReplyCount is the number of replies fetched for the thread.
	ReplyCount int

	// ShowingCount is the number of replies actually enriched and shown.
	// Consumers can render "N more replies not shown" from the difference.
	ShowingCount int

	// ThreadLink is the parent's permalink.
	ThreadLink string
}

// EnrichedConversation is a conversation ready for summarization and
// delivery.
type EnrichedConversation struct {
	ChannelID   string
	ChannelName string
	Kind        ConversationKind
	IsPrivate   bool

	Messages []*EnrichedMessage
	Threads  []*EnrichedThread

	// TotalCount is messages plus threads, each thread counted once
	// regardless of reply count.
	TotalCount int

	// ChannelLink is the archive URL for the conversation.
	ChannelLink string

	// Summary is the summarizer output, or the fallback preview when
	// SummaryIsFallback is set.
	Summary           string
	SummaryIsFallback bool
}

// LatestTimestamp returns the lexical maximum timestamp across all
// retained messages, thread parents and thread replies. Returns "" when
// the conversation contributed no timestamps.
func (c *EnrichedConversation) LatestTimestamp() string {
	var all []string
	for _, m := range c.Messages {
		all = append(all, m.Timestamp)
	}
	for _, t := range c.Threads {
		all = append(all, t.Parent.Timestamp)
		for _, r := range t.Replies {
			all = append(all, r.Timestamp)
		}
	}
	return MaxTimestamp(all...)
}
