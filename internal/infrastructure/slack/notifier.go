package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// DMNotifier delivers digests to one user as plain-text direct messages.
type DMNotifier struct {
	client *Client
	userID string
}

// NewDMNotifier creates a notifier for the given recipient.
func NewDMNotifier(client *Client, userID string) *DMNotifier {
	return &DMNotifier{client: client, userID: userID}
}

// DeliverDigest sends the prioritized conversation list.
func (n *DMNotifier) DeliverDigest(ctx context.Context, conversations []*entity.EnrichedConversation) error {
	totalItems := 0
	for _, conv := range conversations {
		totalItems += conv.TotalCount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Unread digest: %d items across %d conversations\n",
		totalItems, len(conversations))

	for _, conv := range conversations {
		fmt.Fprintf(&b, "\n*%s* (%d unread)\n", conv.ChannelName, conv.TotalCount)
		if conv.Summary != "" {
			b.WriteString(conv.Summary)
			b.WriteString("\n")
		}
		for _, t := range conv.Threads {
			if t.ReplyCount > t.ShowingCount {
				fmt.Fprintf(&b, "Thread %s: %d more replies not shown\n",
					t.ThreadLink, t.ReplyCount-t.ShowingCount)
			}
		}
		fmt.Fprintf(&b, "%s\n", conv.ChannelLink)
	}

	_, err := n.client.SendDirectMessage(ctx, n.userID, b.String())
	return err
}

// DeliverNoUnreads sends the explicit "all caught up" signal for a run
// that found nothing. Distinct from a fetch failure.
func (n *DMNotifier) DeliverNoUnreads(ctx context.Context) error {
	_, err := n.client.SendDirectMessage(ctx, n.userID,
		"All caught up! No unread messages.")
	return err
}

// DeliverError sends a one-line failure notice. Best-effort: callers
// ignore delivery failures here.
func (n *DMNotifier) DeliverError(ctx context.Context, message string) error {
	_, err := n.client.SendDirectMessage(ctx, n.userID,
		fmt.Sprintf("Error generating unread digest: %s", message))
	return err
}
