package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// fallbackPreviewMessages is how many messages the fallback preview shows.
const fallbackPreviewMessages = 3

// SummaryWriter fills in each conversation's summary, substituting a
// plain preview when the summarizer is unavailable or fails.
type SummaryWriter struct {
	summarizer Summarizer
	logger     Logger
}

// NewSummaryWriter creates a summary writer. A nil summarizer is valid
// and means every conversation gets the fallback preview.
func NewSummaryWriter(summarizer Summarizer, logger Logger) *SummaryWriter {
	return &SummaryWriter{summarizer: summarizer, logger: logger}
}

// WriteAll sets Summary on every conversation in place. Summarizer
// failures never fail the run.
func (w *SummaryWriter) WriteAll(ctx context.Context, conversations []*entity.EnrichedConversation) {
	for _, conv := range conversations {
		if w.summarizer == nil {
			conv.Summary = fallbackPreview(conv)
			conv.SummaryIsFallback = true
			continue
		}

		summary, err := w.summarizer.Summarize(ctx, conv)
		if err != nil || strings.TrimSpace(summary) == "" {
			w.logger.Warn("summarization failed, using preview",
				"conversation", conv.ChannelID,
				"error", err,
			)
			conv.Summary = fallbackPreview(conv)
			conv.SummaryIsFallback = true
			continue
		}
		conv.Summary = strings.TrimSpace(summary)
	}
}

// fallbackPreview renders the first few messages verbatim, labeled so
// the reader knows no summarization happened.
func fallbackPreview(conv *entity.EnrichedConversation) string {
	var b strings.Builder
	b.WriteString("AI summary unavailable. Latest messages:\n")

	shown := 0
	for _, msg := range conv.Messages {
		if shown == fallbackPreviewMessages {
			break
		}
		fmt.Fprintf(&b, "- %s: %s\n", msg.UserName, msg.Text)
		shown++
	}
	for _, thread := range conv.Threads {
		if shown == fallbackPreviewMessages {
			break
		}
		fmt.Fprintf(&b, "- %s: %s (%d replies)\n",
			thread.Parent.UserName, thread.Parent.Text, thread.ReplyCount)
		shown++
	}

	remaining := conv.TotalCount - shown
	if remaining > 0 {
		fmt.Fprintf(&b, "... and %d more\n", remaining)
	}
	return strings.TrimRight(b.String(), "\n")
}
