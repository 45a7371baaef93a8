// Package advisor asks Claude for a short recommendation narrative over an
// assembled briefing document.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const systemPrompt = `You are a focused work assistant. You receive a compact XML briefing of
the user's tickets, pull requests, and projects. Reply with 3-5 short
sentences: what to do first and why, anything blocked or waiting on others,
and one thing that can safely wait. No preamble, no markdown headings.`

// Client generates briefing narratives. A nil *Client is a no-op (narrative
// disabled), mirroring how the Telegram bot behaves without a token.
type Client struct {
	api       anthropic.Client
	model     string
	prompt    string
	maxTokens int
}

// New creates a Client. Returns nil if apiKey is empty. workDir may hold a
// PROMPT.md that overrides the built-in system prompt.
func New(apiKey, model, workDir string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		api:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		prompt:    LoadPrompt(workDir),
		maxTokens: 512,
	}
}

// Narrate returns a short recommendation for the briefing document.
func (c *Client) Narrate(ctx context.Context, document string) (string, error) {
	if c == nil {
		return "", nil
	}
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: c.prompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(document)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisor.Narrate: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("advisor.Narrate: empty response")
	}
	return sb.String(), nil
}
