package ratelimit

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Path prefix
	Method string        // HTTP method; empty matches any method
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Environment variables read by LoadConfig.
const (
	EnvEnabled         = "RATE_LIMIT_ENABLED"
	EnvDefaultLimit    = "RATE_LIMIT_DEFAULT_LIMIT"
	EnvDefaultWindow   = "RATE_LIMIT_DEFAULT_WINDOW"
	EnvCleanupInterval = "RATE_LIMIT_CLEANUP_INTERVAL"
	EnvIdleTTL         = "RATE_LIMIT_IDLE_TTL"
	EnvWhitelist       = "RATE_LIMIT_WHITELIST"
	EnvBlacklist       = "RATE_LIMIT_BLACKLIST"
	EnvAPILimit        = "RATE_LIMIT_API_LIMIT"
	EnvAPIWindow       = "RATE_LIMIT_API_WINDOW"
)

// LoadConfig builds the limiter configuration from the environment. Values
// that fail to parse are logged and replaced by their defaults.
func LoadConfig() *Config {
	var env envReader
	if !env.boolean(EnvEnabled, true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer(EnvDefaultLimit, 1000),
		DefaultWindow:   env.duration(EnvDefaultWindow, time.Minute),
		CleanupInterval: env.duration(EnvCleanupInterval, 5*time.Minute),
		IdleTTL:         env.duration(EnvIdleTTL, time.Hour),
		Whitelist:       parseIPList(os.Getenv(EnvWhitelist)),
		Blacklist:       parseIPList(os.Getenv(EnvBlacklist)),
		EndpointConfigs: env.endpoints(),
	}
}

// DefaultEndpointConfigs returns the endpoint limits with no environment
// overrides applied: every /api/ route shares one bucket per client of 10
// requests per minute.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{{Path: "/api/", Limit: 10, Window: time.Minute}}
}

// envReader reads typed values from the environment.
type envReader struct{}

func (envReader) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (r envReader) boolean(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[rate-limit] ignoring %s=%q: not a boolean", key, v)
		return def
	}
	return b
}

func (r envReader) integer(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[rate-limit] ignoring %s=%q: not a non-negative integer", key, v)
		return def
	}
	return n
}

func (r envReader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[rate-limit] ignoring %s=%q: not a positive duration", key, v)
		return def
	}
	return d
}

func (r envReader) endpoints() []EndpointConfig {
	configs := DefaultEndpointConfigs()
	for i := range configs {
		if configs[i].Path == "/api/" {
			configs[i].Limit = r.integer(EnvAPILimit, configs[i].Limit)
			configs[i].Window = r.duration(EnvAPIWindow, configs[i].Window)
		}
	}
	return configs
}

// parseIPList turns "a, b,c" into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
