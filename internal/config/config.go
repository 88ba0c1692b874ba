// Package config provides configuration loading and validation for the CLI
// and the HTTP server. Values come from an optional YAML file and are
// overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jonathan/a11y-toolkit/internal/llm"
)

// Default values for non-secret configuration.
const (
	DefaultPort        = 3001
	DefaultMaxUploadMB = 10
	DefaultCacheTTL    = 24 * time.Hour
	DefaultCORSOrigin  = "*"
)

// Config holds the toolkit configuration. All fields are optional.
type Config struct {
	Port     int    `koanf:"port"`
	Provider string `koanf:"provider"` // anthropic, openai, or gemini
	Model    string `koanf:"model"`   // empty uses the provider default
	BaseURL  string `koanf:"base_url"`

	// Provider API keys. Only read from the environment.
	AnthropicAPIKey string `koanf:"-"`
	OpenAIAPIKey    string `koanf:"-"`
	GeminiAPIKey    string `koanf:"-"`

	DatabaseURL string        `koanf:"database_url"` // PostgreSQL report store
	RedisURL    string        `koanf:"redis_url"`    // analysis cache
	StaticDir   string        `koanf:"static_dir"`   // frontend assets served at /
	MaxUploadMB int           `koanf:"max_upload_mb"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
	CORSOrigin  string        `koanf:"cors_origin"`
	Verbose     bool          `koanf:"verbose"`
}

// Load reads configuration from an optional YAML file, then applies
// environment variables on top and fills defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	return &merged, nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:        DefaultPort,
		Provider:    string(llm.ProviderAnthropic),
		MaxUploadMB: DefaultMaxUploadMB,
		CacheTTL:    DefaultCacheTTL,
		CORSOrigin:  DefaultCORSOrigin,
	}
}

func (c *Config) applyEnv() error {
	setString(&c.Provider, "LLM_PROVIDER")
	setString(&c.Model, "LLM_MODEL")
	setString(&c.BaseURL, "LLM_BASE_URL")
	setString(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.StaticDir, "STATIC_DIR")
	setString(&c.CORSOrigin, "CORS_ORIGIN")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be a valid integer: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: MAX_UPLOAD_MB must be a valid integer: %w", err)
		}
		c.MaxUploadMB = mb
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: CACHE_TTL must be a duration: %w", err)
		}
		c.CacheTTL = d
	}
	return nil
}

func setString(dst *string, envKey string) {
	if v := os.Getenv(envKey); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("config error: 'max_upload_mb' must be non-negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
	}
	if c.Provider != "" {
		if _, err := llm.ParseProvider(c.Provider); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("config error: static directory not found: %s", c.StaticDir)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Bools are never merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.AnthropicAPIKey == "" {
		result.AnthropicAPIKey = defaults.AnthropicAPIKey
	}
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = defaults.OpenAIAPIKey
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.StaticDir == "" {
		result.StaticDir = defaults.StaticDir
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadMB == 0 {
		result.MaxUploadMB = defaults.MaxUploadMB
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}

	return result
}

// LLMConfig builds the client configuration for the selected provider.
func (c *Config) LLMConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return nil, err
	}
	return &llm.Config{Provider: provider, Model: c.Model, BaseURL: c.BaseURL}, nil
}

// APIKey returns the configured key for provider, or "".
func (c *Config) APIKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	case llm.ProviderOpenAI:
		return c.OpenAIAPIKey
	case llm.ProviderGemini:
		return c.GeminiAPIKey
	}
	return ""
}

// MaxUploadBytes converts MaxUploadMB to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}
