package llm

import (
	"context"
	"fmt"
)

// Request is a single-turn completion request.
type Request struct {
	System    string
	User      string
	MaxTokens int
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends one system+user exchange and returns the joined text.
	Complete(ctx context.Context, req Request) (string, error)
	Provider() Provider
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return nil, &ProviderError{Provider: config.Provider, Message: "API key is required"}
	}

	switch config.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey), nil
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unknown provider: %s", config.Provider)
	}
}
