package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for the Anthropic Messages API.
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(config *Config, apiKey string) *AnthropicClient {
	opts := []aoption.RequestOption{aoption.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, aoption.WithBaseURL(config.BaseURL))
	}
	return &AnthropicClient{client: anthropic.NewClient(opts...), config: config}
}

// Complete sends the request and joins every text block of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.GetModel()),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", &ProviderError{Provider: ProviderAnthropic, Message: "message request failed", Cause: err}
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (c *AnthropicClient) Provider() Provider { return ProviderAnthropic }

func (c *AnthropicClient) Model() string { return c.config.GetModel() }

func (c *AnthropicClient) Close() error { return nil }
