package digest

import (
	"context"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

// fakeGateway implements SlackGateway with overridable behavior per call.
type fakeGateway struct {
	listConversationsFn func(ctx context.Context, types []string) ([]*entity.Conversation, error)
	listMessagesFn      func(ctx context.Context, conversationID, oldest string, limit int) ([]*entity.Message, error)
	listRepliesFn       func(ctx context.Context, conversationID, threadTimestamp, oldest string, limit int) ([]*entity.Message, error)
	getUserFn           func(ctx context.Context, userID string) (*entity.User, error)
	getTeamDomainFn     func(ctx context.Context) (string, error)
	markReadFn          func(ctx context.Context, conversationID, timestamp string) error

	userFetches int
	marked      map[string]string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{marked: make(map[string]string)}
}

func (g *fakeGateway) ListConversations(ctx context.Context, types []string) ([]*entity.Conversation, error) {
	if g.listConversationsFn != nil {
		return g.listConversationsFn(ctx, types)
	}
	return nil, nil
}

func (g *fakeGateway) ListMessages(ctx context.Context, conversationID, oldest string, limit int) ([]*entity.Message, error) {
	if g.listMessagesFn != nil {
		return g.listMessagesFn(ctx, conversationID, oldest, limit)
	}
	return nil, nil
}

func (g *fakeGateway) ListThreadReplies(ctx context.Context, conversationID, threadTimestamp, oldest string, limit int) ([]*entity.Message, error) {
	if g.listRepliesFn != nil {
		return g.listRepliesFn(ctx, conversationID, threadTimestamp, oldest, limit)
	}
	return nil, nil
}

func (g *fakeGateway) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	g.userFetches++
	if g.getUserFn != nil {
		return g.getUserFn(ctx, userID)
	}
	return &entity.User{ID: userID, RealName: "User " + userID}, nil
}

func (g *fakeGateway) GetTeamDomain(ctx context.Context) (string, error) {
	if g.getTeamDomainFn != nil {
		return g.getTeamDomainFn(ctx)
	}
	return "acme", nil
}

func (g *fakeGateway) MarkRead(ctx context.Context, conversationID, timestamp string) error {
	if g.markReadFn != nil {
		if err := g.markReadFn(ctx, conversationID, timestamp); err != nil {
			return err
		}
	}
	g.marked[conversationID] = timestamp
	return nil
}

// fakeNotifier records deliveries.
type fakeNotifier struct {
	digests   [][]*entity.EnrichedConversation
	noUnreads int
	errors    []string

	deliverDigestErr error
}

func (n *fakeNotifier) DeliverDigest(ctx context.Context, conversations []*entity.EnrichedConversation) error {
	if n.deliverDigestErr != nil {
		return n.deliverDigestErr
	}
	n.digests = append(n.digests, conversations)
	return nil
}

func (n *fakeNotifier) DeliverNoUnreads(ctx context.Context) error {
	n.noUnreads++
	return nil
}

func (n *fakeNotifier) DeliverError(ctx context.Context, message string) error {
	n.errors = append(n.errors, message)
	return nil
}

// fakeSummarizer returns a canned summary or error.
type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (s *fakeSummarizer) Summarize(ctx context.Context, conv *entity.EnrichedConversation) (string, error) {
	s.calls++
	return s.summary, s.err
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...any) {}
func (nopLogger) Info(msg string, keysAndValues ...any)  {}
func (nopLogger) Warn(msg string, keysAndValues ...any)  {}
func (nopLogger) Error(msg string, keysAndValues ...any) {}
