package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderAnthropic, config.Provider)
	assert.Equal(t, "claude-opus-4-6", config.GetModel())
}

func TestGetModel_Defaults(t *testing.T) {
	assert.Equal(t, "gpt-4o", (&Config{Provider: ProviderOpenAI}).GetModel())
	assert.Equal(t, "gemini-2.0-flash", (&Config{Provider: ProviderGemini}).GetModel())
	assert.Equal(t, "", (&Config{Provider: "nope"}).GetModel())
}

func TestWithModel(t *testing.T) {
	original := DefaultConfig()
	custom := original.WithModel("claude-sonnet-4-5")

	assert.Equal(t, "claude-sonnet-4-5", custom.GetModel())
	assert.Equal(t, "claude-opus-4-6", original.GetModel(), "original must be untouched")
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"", ProviderAnthropic, false},
		{"anthropic", ProviderAnthropic, false},
		{" OpenAI ", ProviderOpenAI, false},
		{"gemini", ProviderGemini, false},
		{"mistral", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviders(t *testing.T) {
	assert.Equal(t, []Provider{ProviderAnthropic, ProviderGemini, ProviderOpenAI}, Providers())

	info, ok := Defaults(ProviderGemini)
	require.True(t, ok)
	assert.Equal(t, "Google Gemini", info.Label)
	assert.Equal(t, "AIza...", info.Placeholder)
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, nil, "")
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ProviderAnthropic, perr.Provider)

	c, err := NewClient(ctx, &Config{Provider: ProviderOpenAI}, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, c.Provider())
	assert.Equal(t, "gpt-4o", c.Model())
	assert.NoError(t, c.Close())

	c, err = NewClient(ctx, &Config{Provider: ProviderAnthropic, Model: "claude-haiku-4-5"}, "sk-ant-test")
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, c.Provider())
	assert.Equal(t, "claude-haiku-4-5", c.Model())

	_, err = NewClient(ctx, &Config{Provider: "mistral"}, "key")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Provider: ProviderOpenAI, Message: "boom", Cause: assert.AnError}
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "openai error: boom")
	assert.Equal(t, "gemini error: empty", (&ProviderError{Provider: ProviderGemini, Message: "empty"}).Error())
}
