// Package llm provides provider configuration and a single client
// abstraction over Anthropic, OpenAI and Google Gemini.
package llm

import (
	"fmt"
	"sort"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
)

// ProviderInfo describes a provider for display and defaulting.
type ProviderInfo struct {
	Model       string `json:"model"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

var providerDefaults = map[Provider]ProviderInfo{
	ProviderAnthropic: {Model: "claude-opus-4-6", Label: "Anthropic", Placeholder: "sk-ant-..."},
	ProviderOpenAI:    {Model: "gpt-4o", Label: "OpenAI", Placeholder: "sk-..."},
	ProviderGemini:    {Model: "gemini-2.0-flash", Label: "Google Gemini", Placeholder: "AIza..."},
}

// Defaults returns the display info and default model for p.
func Defaults(p Provider) (ProviderInfo, bool) {
	info, ok := providerDefaults[p]
	return info, ok
}

// Providers returns every supported provider, sorted by name.
func Providers() []Provider {
	out := make([]Provider, 0, len(providerDefaults))
	for p := range providerDefaults {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseProvider normalizes s. An empty string selects Anthropic.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return ProviderAnthropic, nil
	}
	if _, ok := providerDefaults[p]; !ok {
		return "", fmt.Errorf("unknown provider: %s", s)
	}
	return p, nil
}

// Config holds the provider selection for one client.
type Config struct {
	Provider Provider
	// Model overrides the provider default when set.
	Model string
	// BaseURL overrides the API endpoint (OpenAI-compatible gateways).
	BaseURL string
}

// DefaultConfig returns the default configuration (Anthropic).
func DefaultConfig() *Config {
	return &Config{Provider: ProviderAnthropic}
}

// GetModel returns the configured model or the provider default.
func (c *Config) GetModel() string {
	if c.Model != "" {
		return c.Model
	}
	if info, ok := providerDefaults[c.Provider]; ok {
		return info.Model
	}
	return ""
}

// WithModel returns a copy of c using model.
func (c *Config) WithModel(model string) *Config {
	cp := *c
	cp.Model = model
	return &cp
}
