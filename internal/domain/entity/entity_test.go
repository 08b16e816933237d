package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasUnread(t *testing.T) {
	tests := []struct {
		name string
		conv Conversation
		want bool
	}{
		{"count hint", Conversation{UnreadCount: 2}, true},
		{"watermark behind latest", Conversation{LastRead: "100.000100", LatestTimestamp: "200.000200"}, true},
		{"watermark at latest", Conversation{LastRead: "200.000200", LatestTimestamp: "200.000200"}, false},
		{"no signals", Conversation{}, false},
		{"missing watermark", Conversation{LatestTimestamp: "200.000200"}, false},
		{"missing latest", Conversation{LastRead: "100.000100"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.conv.HasUnread())
		})
	}
}

func TestKindPriority(t *testing.T) {
	assert.Less(t, KindDirectMessage.Priority(), KindPrivateChannel.Priority())
	assert.Less(t, KindPrivateChannel.Priority(), KindGroupDirectMessage.Priority())
	assert.Less(t, KindGroupDirectMessage.Priority(), KindPublicChannel.Priority())
}

func TestMessageClassification(t *testing.T) {
	assert.False(t, (&Message{SubType: SubtypeBotMessage}).IsSummarizable())
	assert.False(t, (&Message{SubType: SubtypeChannelJoin}).IsSummarizable())
	assert.False(t, (&Message{SubType: SubtypeChannelLeave}).IsSummarizable())
	assert.True(t, (&Message{}).IsSummarizable())

	assert.True(t, (&Message{ReplyCount: 1}).IsThreadParent())
	assert.False(t, (&Message{}).IsThreadParent())

	parent := &Message{Timestamp: "100.1", ThreadTimestamp: "100.1"}
	reply := &Message{Timestamp: "110.1", ThreadTimestamp: "100.1"}
	assert.False(t, parent.IsThreadReply())
	assert.True(t, reply.IsThreadReply())
}

func TestMaxTimestamp(t *testing.T) {
	assert.Equal(t, "", MaxTimestamp())
	assert.Equal(t, "300.000300", MaxTimestamp("100.000100", "300.000300", "200.000200"))
	assert.Equal(t, "100.000200", MaxTimestamp("100.000100", "100.000200"))
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Alice Smith", (&User{Name: "alice", RealName: "Alice Smith"}).DisplayName())
	assert.Equal(t, "alice", (&User{Name: "alice"}).DisplayName())
	assert.Equal(t, UnknownUserName, (&User{}).DisplayName())
	assert.True(t, UnknownUser("U1").IsUnknown())
	assert.False(t, (&User{RealName: "Bob"}).IsUnknown())
}

func TestEnrichedConversationLatestTimestamp(t *testing.T) {
	conv := &EnrichedConversation{
		Messages: []*EnrichedMessage{{Timestamp: "100.1"}, {Timestamp: "300.1"}},
		Threads: []*EnrichedThread{
			{
				Parent:  &EnrichedMessage{Timestamp: "200.1"},
				Replies: []*EnrichedMessage{{Timestamp: "400.1"}},
			},
		},
	}
	assert.Equal(t, "400.1", conv.LatestTimestamp())

	assert.Equal(t, "", (&EnrichedConversation{}).LatestTimestamp())
}
