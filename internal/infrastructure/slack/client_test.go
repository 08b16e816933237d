package slack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	transport := NewRateLimitedTransport(RetryPolicy{MaxRetries: 3}, logger, nil)
	return NewClient("xoxp-test", "xoxb-test", transport, logger, server.URL+"/")
}

func TestListConversationsPaginates(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations.list", r.URL.Path)
		require.NoError(t, r.ParseForm())
		calls++

		switch calls {
		case 1:
			assert.Empty(t, r.Form.Get("cursor"))
			fmt.Fprint(w, `{"ok":true,"channels":[
				{"id":"C1","name":"general","is_channel":true,"unread_count_display":2},
				{"id":"D1","is_im":true,"user":"U1","last_read":"100.000100","latest":{"ts":"200.000200"}}
			],"response_metadata":{"next_cursor":"page2"}}`)
		default:
			assert.Equal(t, "page2", r.Form.Get("cursor"))
			fmt.Fprint(w, `{"ok":true,"channels":[
				{"id":"G1","name":"mpdm-a--b-1","is_mpim":true,"is_private":true}
			],"response_metadata":{"next_cursor":""}}`)
		}
	}))

	conversations, err := client.ListConversations(context.Background(), []string{"public_channel", "im", "mpim"})
	require.NoError(t, err)
	require.Len(t, conversations, 3)
	assert.Equal(t, 2, calls)

	assert.Equal(t, entity.KindPublicChannel, conversations[0].Kind)
	assert.Equal(t, 2, conversations[0].UnreadCount)

	assert.Equal(t, entity.KindDirectMessage, conversations[1].Kind)
	assert.Equal(t, "U1", conversations[1].UserID)
	assert.Equal(t, "100.000100", conversations[1].LastRead)
	assert.Equal(t, "200.000200", conversations[1].LatestTimestamp)

	assert.Equal(t, entity.KindGroupDirectMessage, conversations[2].Kind)
}

func TestListMessagesStopsAtLimit(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations.history", r.URL.Path)
		calls++
		fmt.Fprint(w, `{"ok":true,"messages":[
			{"type":"message","user":"U1","text":"a","ts":"100.1"},
			{"type":"message","user":"U2","text":"b","ts":"200.1"}
		],"response_metadata":{"next_cursor":"more"}}`)
	}))

	messages, err := client.ListMessages(context.Background(), "C1", "", 4)
	require.NoError(t, err)
	assert.Len(t, messages, 4)
	assert.Equal(t, 2, calls)
}

func TestListMessagesStopsWithoutCursor(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true,"messages":[
			{"type":"message","user":"U1","text":"a","ts":"100.1","reply_count":2,"thread_ts":"100.1"}
		]}`)
	}))

	messages, err := client.ListMessages(context.Background(), "C1", "50.1", 100)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsThreadParent())
	assert.False(t, messages[0].IsThreadReply())
}

func TestListThreadRepliesDropsParent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations.replies", r.URL.Path)
		fmt.Fprint(w, `{"ok":true,"messages":[
			{"type":"message","user":"U1","text":"parent","ts":"100.1","thread_ts":"100.1"},
			{"type":"message","user":"U2","text":"reply one","ts":"110.1","thread_ts":"100.1"},
			{"type":"message","user":"U3","text":"reply two","ts":"120.1","thread_ts":"100.1"}
		]}`)
	}))

	replies, err := client.ListThreadReplies(context.Background(), "C1", "100.1", "", 10)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "reply one", replies[0].Text)
	assert.Equal(t, "reply two", replies[1].Text)
}

func TestGetUserDegradesOnFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"user_not_found"}`)
	}))

	user, err := client.GetUser(context.Background(), "U404")
	require.NoError(t, err)
	assert.True(t, user.IsUnknown())
	assert.Equal(t, entity.UnknownUserName, user.DisplayName())
}

func TestGetUserResolves(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users.info", r.URL.Path)
		fmt.Fprint(w, `{"ok":true,"user":{"id":"U1","name":"alice","real_name":"Alice Smith"}}`)
	}))

	user, err := client.GetUser(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", user.DisplayName())
}

func TestGetTeamDomain(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/team.info", r.URL.Path)
		fmt.Fprint(w, `{"ok":true,"team":{"id":"T1","name":"Acme","domain":"acme"}}`)
	}))

	domain, err := client.GetTeamDomain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme", domain)
}

func TestGetTeamDomainDegradesOnFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"missing_scope"}`)
	}))

	domain, err := client.GetTeamDomain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slack", domain)
}

func TestMarkRead(t *testing.T) {
	var markedChannel, markedTS string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations.mark", r.URL.Path)
		require.NoError(t, r.ParseForm())
		markedChannel = r.Form.Get("channel")
		markedTS = r.Form.Get("ts")
		fmt.Fprint(w, `{"ok":true}`)
	}))

	err := client.MarkRead(context.Background(), "C1", "400.000400")
	require.NoError(t, err)
	assert.Equal(t, "C1", markedChannel)
	assert.Equal(t, "400.000400", markedTS)
}
