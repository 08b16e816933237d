package digest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

func enrichedConv() *entity.EnrichedConversation {
	return &entity.EnrichedConversation{
		ChannelID: "C1",
		Messages: []*entity.EnrichedMessage{
			{UserName: "Alice", Text: "deploy is out", Timestamp: "100.1"},
			{UserName: "Bob", Text: "looks good", Timestamp: "200.1"},
		},
		TotalCount: 2,
	}
}

func TestWriteAllUsesSummarizerOutput(t *testing.T) {
	summarizer := &fakeSummarizer{summary: "Deploy shipped and verified."}
	writer := NewSummaryWriter(summarizer, nopLogger{})

	conv := enrichedConv()
	writer.WriteAll(context.Background(), []*entity.EnrichedConversation{conv})

	assert.Equal(t, "Deploy shipped and verified.", conv.Summary)
	assert.False(t, conv.SummaryIsFallback)
	assert.Equal(t, 1, summarizer.calls)
}

func TestWriteAllFallsBackOnError(t *testing.T) {
	summarizer := &fakeSummarizer{err: errors.New("model unavailable")}
	writer := NewSummaryWriter(summarizer, nopLogger{})

	conv := enrichedConv()
	writer.WriteAll(context.Background(), []*entity.EnrichedConversation{conv})

	assert.True(t, conv.SummaryIsFallback)
	assert.Contains(t, conv.Summary, "AI summary unavailable")
	assert.Contains(t, conv.Summary, "Alice: deploy is out")
}

func TestWriteAllFallsBackOnBlankSummary(t *testing.T) {
	summarizer := &fakeSummarizer{summary: "   \n"}
	writer := NewSummaryWriter(summarizer, nopLogger{})

	conv := enrichedConv()
	writer.WriteAll(context.Background(), []*entity.EnrichedConversation{conv})

	assert.True(t, conv.SummaryIsFallback)
}

func TestWriteAllNilSummarizer(t *testing.T) {
	writer := NewSummaryWriter(nil, nopLogger{})

	conv := enrichedConv()
	writer.WriteAll(context.Background(), []*entity.EnrichedConversation{conv})

	assert.True(t, conv.SummaryIsFallback)
	assert.NotEmpty(t, conv.Summary)
}

func TestFallbackPreviewCountsOverflow(t *testing.T) {
	conv := &entity.EnrichedConversation{
		Messages: []*entity.EnrichedMessage{
			{UserName: "A", Text: "1"},
			{UserName: "B", Text: "2"},
			{UserName: "C", Text: "3"},
			{UserName: "D", Text: "4"},
		},
		Threads: []*entity.EnrichedThread{
			{Parent: &entity.EnrichedMessage{UserName: "E", Text: "5"}, ReplyCount: 2},
		},
		TotalCount: 5,
	}

	preview := fallbackPreview(conv)
	assert.Contains(t, preview, "... and 2 more")
}
