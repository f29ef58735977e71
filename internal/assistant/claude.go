package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-haiku-4-5"

// Claude is a Model backed by the Anthropic Messages API.
type Claude struct {
	client *anthropic.Client
	model  string
}

// NewClaude creates a Claude model. Extra request options, such as a custom
// base URL, are passed through to the client.
func NewClaude(apiKey, modelName string, opts ...option.RequestOption) (*Claude, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if modelName == "" {
		modelName = DefaultClaudeModel
	}
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Claude{client: &client, model: modelName}, nil
}

// Name implements Model.
func (c *Claude) Name() string { return c.model }

// Generate implements Model.
func (c *Claude) Generate(ctx context.Context, system, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in response")
	}
	return sb.String(), nil
}
