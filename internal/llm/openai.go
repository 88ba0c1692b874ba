package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client for the OpenAI chat completions API.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. Config.BaseURL, when set,
// points it at a compatible gateway.
func NewOpenAIClient(config *Config, apiKey string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), config: config}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.config.GetModel(),
		MaxTokens: req.MaxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", &ProviderError{Provider: ProviderOpenAI, Message: "chat completion failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: ProviderOpenAI, Message: "no choices in response"}
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Provider() Provider { return ProviderOpenAI }

func (c *OpenAIClient) Model() string { return c.config.GetModel() }

func (c *OpenAIClient) Close() error { return nil }
