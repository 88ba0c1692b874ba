package fetch

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/jonathan/a11y-toolkit/internal/cache"
)

// DefaultPageCacheTTL is how long fetched pages stay cached.
const DefaultPageCacheTTL = 15 * time.Minute

// CachedFetcher wraps Page with a cache.Cache keyed by URL and fetch mode.
type CachedFetcher struct {
	cache     cache.Cache
	options   *Options
	cacheTTL  time.Duration
	skipCache bool
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: DefaultPageCacheTTL,
		Options:  DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher. A nil store disables caching.
func NewCachedFetcher(store cache.Cache, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultPageCacheTTL
	}
	return &CachedFetcher{
		cache:     store,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
}

type cachedPage struct {
	URL         string `json:"url"`
	HTML        string `json:"html"`
	Text        string `json:"text"`
	ContentType string `json:"content_type"`
	StatusCode  int    `json:"status_code"`
	Rendered    bool   `json:"rendered"`
}

// Fetch retrieves a URL, using the cache when a fresh entry exists.
// useBrowser overrides the configured fetch mode for this call.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string, useBrowser bool) (*CachedResult, error) {
	key := cache.Key("page", urlStr, strconv.FormatBool(useBrowser))

	if !f.skipCache && f.cache != nil {
		data, ok, err := f.cache.Get(ctx, key)
		if err != nil {
			log.Printf("[fetch] cache read failed for %s: %v", urlStr, err)
		} else if ok {
			var page cachedPage
			if err := json.Unmarshal(data, &page); err == nil {
				return &CachedResult{
					Result: &Result{
						URL:         page.URL,
						HTML:        page.HTML,
						Text:        page.Text,
						ContentType: page.ContentType,
						StatusCode:  page.StatusCode,
						Rendered:    page.Rendered,
					},
					FromCache: true,
				}, nil
			}
		}
	}

	opts := *f.options
	opts.UseBrowser = useBrowser
	result, err := Page(ctx, urlStr, &opts)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		data, err := json.Marshal(cachedPage{
			URL:         result.URL,
			HTML:        result.HTML,
			Text:        result.Text,
			ContentType: result.ContentType,
			StatusCode:  result.StatusCode,
			Rendered:    result.Rendered,
		})
		if err == nil {
			if err := f.cache.Set(ctx, key, data, f.cacheTTL); err != nil {
				// The fetch succeeded; a cache failure only costs a refetch.
				log.Printf("[fetch] cache write failed for %s: %v", urlStr, err)
			}
		}
	}

	return &CachedResult{Result: result}, nil
}
