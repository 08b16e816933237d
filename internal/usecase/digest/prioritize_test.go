package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

func TestPrioritizerSort(t *testing.T) {
	conversations := []*entity.EnrichedConversation{
		{ChannelID: "C1", Kind: entity.KindPublicChannel, TotalCount: 10},
		{ChannelID: "D1", Kind: entity.KindDirectMessage, TotalCount: 5},
		{ChannelID: "G1", Kind: entity.KindPrivateChannel, TotalCount: 15},
	}

	NewPrioritizer().Sort(conversations)

	ids := make([]string, len(conversations))
	for i, c := range conversations {
		ids[i] = c.ChannelID
	}
	assert.Equal(t, []string{"D1", "G1", "C1"}, ids)
}

func TestPrioritizerSortByCountWithinKind(t *testing.T) {
	conversations := []*entity.EnrichedConversation{
		{ChannelID: "C1", Kind: entity.KindPublicChannel, TotalCount: 2},
		{ChannelID: "C2", Kind: entity.KindPublicChannel, TotalCount: 9},
		{ChannelID: "C3", Kind: entity.KindPublicChannel, TotalCount: 4},
	}

	NewPrioritizer().Sort(conversations)

	assert.Equal(t, "C2", conversations[0].ChannelID)
	assert.Equal(t, "C3", conversations[1].ChannelID)
	assert.Equal(t, "C1", conversations[2].ChannelID)
}

func TestPrioritizerSortIsStable(t *testing.T) {
	conversations := []*entity.EnrichedConversation{
		{ChannelID: "C1", Kind: entity.KindPublicChannel, TotalCount: 3},
		{ChannelID: "C2", Kind: entity.KindPublicChannel, TotalCount: 3},
	}

	NewPrioritizer().Sort(conversations)

	assert.Equal(t, "C1", conversations[0].ChannelID)
	assert.Equal(t, "C2", conversations[1].ChannelID)
}
