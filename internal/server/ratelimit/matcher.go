package ratelimit

import (
	"strings"
)

// unlimited paths are probes and scrapes that must never be throttled.
var unlimited = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// A config Path ending in "/" matches by prefix, and an empty Method matches
// every method.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && unlimited[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	// Try exact match first
	for i := range configs {
		config := &configs[i]
		if config.Path == path && methodMatches(config.Method, method) {
			return config
		}
	}

	// Longest prefix wins
	var best *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if !methodMatches(config.Method, method) || !strings.HasSuffix(config.Path, "/") {
			continue
		}
		if strings.HasPrefix(path, config.Path) && (best == nil || len(config.Path) > len(best.Path)) {
			best = config
		}
	}
	return best
}

func methodMatches(want, got string) bool {
	return want == "" || want == got
}
