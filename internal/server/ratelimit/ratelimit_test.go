package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the limiter without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, config *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(config)
	limiter.now = clock.Now
	t.Cleanup(limiter.Stop)
	return limiter, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})

	// Should allow requests up to limit
	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	// 11th request should be denied
	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 6.0, info.RetryAfter.Seconds(), 0.001)
	assert.True(t, info.ResetTime.After(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: 10 * time.Second, // 1 token per second
	})

	for i := 0; i < 10; i++ {
		limiter.Allow("c", "/test", "GET")
	}
	allowed, _ := limiter.Allow("c", "/test", "GET")
	require.False(t, allowed)

	clock.Advance(1100 * time.Millisecond)
	allowed, _ = limiter.Allow("c", "/test", "GET")
	assert.True(t, allowed, "expected a refilled token")

	allowed, _ = limiter.Allow("c", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}

	allowed, _ := limiter.Allow("192.168.1.1", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_APIPrefixSharesBucket(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/", Limit: 10, Window: time.Minute},
		},
	})

	paths := []string{"/api/analyze", "/api/generate", "/api/contrast", "/api/checklist"}
	for i := 0; i < 10; i++ {
		method := "POST"
		if i%2 == 0 {
			method = "GET"
		}
		allowed, info := limiter.Allow("10.0.0.1", paths[i%len(paths)], method)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
	}

	allowed, _ := limiter.Allow("10.0.0.1", "/api/validate", "POST")
	assert.False(t, allowed, "11th /api/ request in a minute must be denied")

	// Other clients and non-API paths are unaffected
	allowed, _ = limiter.Allow("10.0.0.2", "/api/analyze", "POST")
	assert.True(t, allowed)
	allowed, info := limiter.Allow("10.0.0.1", "/index.html", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	})
	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("c", "/health", "GET")
		require.True(t, allowed)
		allowed, _ = limiter.Allow("c", "/metrics", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// The clock is frozen, so nothing refills
	assert.Equal(t, 100, allowedCount)
}

func TestLimiter_Burst(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	})

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("c", "/burst", "POST")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("c", "/burst", "POST")
	assert.False(t, allowed)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTTL:       time.Minute,
	})

	for i := 0; i < 10; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/test", "GET")
	}
	clock.Advance(30 * time.Second)
	for i := 0; i < 5; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/test", "GET")
	}
	clock.Advance(45 * time.Second)

	assert.Equal(t, 5, limiter.cleanupBuckets())
	assert.Len(t, limiter.buckets, 5)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()
	require.NotNil(t, limiter)

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	_, info = limiter.Allow("127.0.0.1", "/api/analyze", "POST")
	assert.Equal(t, 10, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/", Limit: 10},
		{Path: "/api/reports/", Method: "GET", Limit: 100},
		{Path: "/api/analyze", Method: "POST", Limit: 5},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"exact", "/api/analyze", "POST", 5, false},
		{"exact wrong method falls to prefix", "/api/analyze", "GET", 10, false},
		{"longest prefix", "/api/reports/abc", "GET", 100, false},
		{"any-method prefix", "/api/reports/abc", "DELETE", 10, false},
		{"health", "/health", "GET", 0, false},
		{"no match", "/static/app.js", "GET", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_API_LIMIT", "3")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	require.Len(t, cfg.EndpointConfigs, 1)
	assert.Equal(t, "/api/", cfg.EndpointConfigs[0].Path)
	assert.Equal(t, 3, cfg.EndpointConfigs[0].Limit)
	assert.True(t, cfg.Whitelist["10.0.0.2"])

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv(EnvEnabled, "yes please")
	t.Setenv(EnvAPILimit, "-5")
	t.Setenv(EnvAPIWindow, "soon")
	t.Setenv(EnvDefaultLimit, "abc")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.DefaultLimit)
	assert.Equal(t, DefaultEndpointConfigs(), cfg.EndpointConfigs)
	assert.Empty(t, cfg.Blacklist)
}
