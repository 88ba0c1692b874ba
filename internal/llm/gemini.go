package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &ProviderError{Provider: ProviderGemini, Message: "failed to create client", Cause: err}
	}
	return &GeminiClient{client: client, config: config}, nil
}

// Complete runs the request with the system prompt as a system instruction.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	model := c.client.GenerativeModel(c.config.GetModel())
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Message: "failed to generate content", Cause: err}
	}
	return extractTextFromResponse(resp)
}

func (c *GeminiClient) Provider() Provider { return ProviderGemini }

func (c *GeminiClient) Model() string { return c.config.GetModel() }

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &ProviderError{Provider: ProviderGemini, Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &ProviderError{Provider: ProviderGemini, Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", &ProviderError{Provider: ProviderGemini, Message: "no text parts in response"}
	}
	return strings.Join(parts, ""), nil
}
