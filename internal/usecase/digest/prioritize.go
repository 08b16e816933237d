package digest

import (
	"sort"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// Prioritizer orders enriched conversations for delivery.
type Prioritizer struct{}

// NewPrioritizer creates a new prioritizer.
func NewPrioritizer() *Prioritizer {
	return &Prioritizer{}
}

// Sort orders conversations by kind priority ascending, then by total
// content count descending. The sort is stable so equal conversations
// keep their input order. Sorts in place and returns the same slice.
func (p *Prioritizer) Sort(conversations []*entity.EnrichedConversation) []*entity.EnrichedConversation {
	sort.SliceStable(conversations, func(i, j int) bool {
		pi, pj := conversations[i].Kind.Priority(), conversations[j].Kind.Priority()
		if pi != pj {
			return pi < pj
		}
		return conversations[i].TotalCount > conversations[j].TotalCount
	})
	return conversations
}
