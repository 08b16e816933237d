// Package llm implements the summarizer collaborator against an
// OpenAI-compatible chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/daehan-lim/slack-digest/internal/domain/entity"
)

const systemPrompt = "You summarize unread Slack conversations. " +
	"Produce a short, factual summary of the discussion below in at most " +
	"three sentences. Mention who raised what. Do not invent content."

// Client calls a chat-completions API to summarize conversations.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewClient creates an LLM client. baseURL is the API root, e.g.
// "https://api.openai.com" or a local compatible server.
func NewClient(baseURL, apiKey, model string, maxTokens int, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Summarize produces summary text for one enriched conversation.
func (c *Client) Summarize(ctx context.Context, conv *entity.EnrichedConversation) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(conv)},
		},
		MaxTokens: c.maxTokens,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(b))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	summary := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("empty completion text")
	}
	return summary, nil
}

// buildPrompt flattens the conversation into plain lines for the model.
func buildPrompt(conv *entity.EnrichedConversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation: %s\n\n", conv.ChannelName)

	for _, m := range conv.Messages {
		fmt.Fprintf(&b, "%s: %s\n", m.UserName, m.Text)
	}
	for _, t := range conv.Threads {
		fmt.Fprintf(&b, "Thread started by %s: %s\n", t.Parent.UserName, t.Parent.Text)
		for _, r := range t.Replies {
			fmt.Fprintf(&b, "  reply from %s: %s\n", r.UserName, r.Text)
		}
	}
	return b.String()
}
