package digest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

func TestMarkAllUsesLatestTimestamp(t *testing.T) {
	gateway := newFakeGateway()
	marker := NewMarkReader(gateway, nopLogger{})

	conv := &entity.EnrichedConversation{
		ChannelID: "C1",
		Messages: []*entity.EnrichedMessage{
			{Timestamp: "100.000100"},
			{Timestamp: "300.000300"},
		},
		Threads: []*entity.EnrichedThread{
			{
				Parent:  &entity.EnrichedMessage{Timestamp: "200.000200"},
				Replies: []*entity.EnrichedMessage{{Timestamp: "400.000400"}},
			},
		},
	}

	result := marker.MarkAll(context.Background(), []*entity.EnrichedConversation{conv})

	assert.Equal(t, []string{"C1"}, result.Marked)
	assert.Empty(t, result.Failed)
	assert.Equal(t, "400.000400", gateway.marked["C1"])
}

func TestMarkAllSkipsConversationsWithoutTimestamps(t *testing.T) {
	gateway := newFakeGateway()
	marker := NewMarkReader(gateway, nopLogger{})

	conv := &entity.EnrichedConversation{ChannelID: "C1"}
	result := marker.MarkAll(context.Background(), []*entity.EnrichedConversation{conv})

	assert.Empty(t, result.Marked)
	assert.Empty(t, result.Failed)
	assert.Empty(t, gateway.marked)
}

func TestMarkAllFailureDoesNotStopBatch(t *testing.T) {
	gateway := newFakeGateway()
	gateway.markReadFn = func(ctx context.Context, conversationID, timestamp string) error {
		if conversationID == "C1" {
			return errors.New("not_in_channel")
		}
		return nil
	}
	marker := NewMarkReader(gateway, nopLogger{})

	conversations := []*entity.EnrichedConversation{
		{ChannelID: "C1", Messages: []*entity.EnrichedMessage{{Timestamp: "100.1"}}},
		{ChannelID: "C2", Messages: []*entity.EnrichedMessage{{Timestamp: "200.1"}}},
	}

	result := marker.MarkAll(context.Background(), conversations)

	require.Equal(t, []string{"C2"}, result.Marked)
	assert.Equal(t, []string{"C1"}, result.Failed)
	assert.Equal(t, "200.1", gateway.marked["C2"])
}
