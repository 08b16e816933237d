package digest

import (
	"context"
	"sync"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// UserCache resolves users through the gateway, caching results for the
// lifetime of one pipeline run. Entries are never invalidated mid-run;
// one run is the acceptable staleness window. Safe for concurrent use.
type UserCache struct {
	gateway SlackGateway

	mu    sync.Mutex
	users map[string]*entity.User
}

// NewUserCache creates an empty cache for one run.
func NewUserCache(gateway SlackGateway) *UserCache {
	return &UserCache{
		gateway: gateway,
		users:   make(map[string]*entity.User),
	}
}

// Get resolves a user by ID, fetching at most once per run. Lookup
// failure yields the Unknown User sentinel, which is cached too so a
// broken ID is not refetched.
func (c *UserCache) Get(ctx context.Context, userID string) *entity.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	if user, ok := c.users[userID]; ok {
		return user
	}

	user, err := c.gateway.GetUser(ctx, userID)
	if err != nil || user == nil {
		user = entity.UnknownUser(userID)
	}
	c.users[userID] = user
	return user
}
