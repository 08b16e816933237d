package digest

import "github.com/daehan-lim/slack-digest/internal/domain/entity"

// UnreadDetector classifies which conversations currently hold unread
// content.
type UnreadDetector struct {
	logger Logger
}

// NewUnreadDetector creates a new detector.
func NewUnreadDetector(logger Logger) *UnreadDetector {
	return &UnreadDetector{logger: logger}
}

// Filter returns the subset of conversations with unread content, order
// preserved. A conversation qualifies when its unread-count hint is
// positive or its read watermark sorts strictly before its latest
// message; the watermark check covers kinds where the hint is absent or
// stale.
func (d *UnreadDetector) Filter(conversations []*entity.Conversation) []*entity.Conversation {
	unread := make([]*entity.Conversation, 0, len(conversations))
	for _, conv := range conversations {
		if conv.HasUnread() {
			unread = append(unread, conv)
		}
	}

	d.logger.Info("detected unread conversations",
		"total", len(conversations),
		"unread", len(unread),
	)
	return unread
}
