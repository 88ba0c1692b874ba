// Package server provides the HTTP REST API for the accessibility toolkit.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/a11y-toolkit/internal/cache"
	"github.com/jonathan/a11y-toolkit/internal/db"
	"github.com/jonathan/a11y-toolkit/internal/fetch"
	"github.com/jonathan/a11y-toolkit/internal/llm"
	"github.com/jonathan/a11y-toolkit/internal/server/ratelimit"
)

// DefaultMaxUploadBytes caps PDF uploads when Config leaves it unset.
const DefaultMaxUploadBytes = 10 << 20

// ClientFactory builds an LLM client for one request.
type ClientFactory func(ctx context.Context, config *llm.Config, apiKey string) (llm.Client, error)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	config      Config
	store       db.ReportStore
	cache       cache.Cache
	fetcher     *fetch.CachedFetcher
	rateLimiter *ratelimit.Limiter
	metrics     *Metrics
	validator   *validator.Validate
	newClient   ClientFactory
}

// Config holds server configuration
type Config struct {
	Port       int
	StaticDir  string
	CORSOrigin string
	// MaxUploadBytes caps multipart PDF uploads.
	MaxUploadBytes int64
	// LLM is the default provider selection. Requests may override it.
	LLM *llm.Config
	// APIKeys are the configured keys per provider. A request's apiKey wins.
	APIKeys  map[llm.Provider]string
	CacheTTL time.Duration
	// Store persists reports. Nil disables saving and the reports routes.
	Store db.ReportStore
	// Cache backs analysis and page caching. Nil disables caching.
	Cache     cache.Cache
	RateLimit *ratelimit.Config
	// NewClient overrides llm.NewClient, for tests.
	NewClient ClientFactory
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.LLM == nil {
		cfg.LLM = llm.DefaultConfig()
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}
	if cfg.NewClient == nil {
		cfg.NewClient = llm.NewClient
	}

	s := &Server{
		config:      cfg,
		store:       cfg.Store,
		cache:       cfg.Cache,
		fetcher:     fetch.NewCachedFetcher(cfg.Cache, nil),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		metrics:     NewMetrics(),
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		newClient:   cfg.NewClient,
	}
	s.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return jsonTagName(fld.Tag.Get("json"), fld.Name)
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("POST /api/contrast", s.handleContrast)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/typography", s.handleTypography)
	mux.HandleFunc("GET /api/checklist", s.handleChecklist)
	mux.HandleFunc("POST /api/extract", s.handleExtract)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/providers", s.handleProviders)

	mux.HandleFunc("GET /api/reports", s.handleListReports)
	mux.HandleFunc("GET /api/reports/{id}", s.handleGetReport)

	if cfg.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	s.handler = s.withRateLimit(s.withMetrics(s.withLogging(s.withCORS(mux))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // LLM generation can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start begins listening for requests and blocks until ctx is cancelled or
// the process receives SIGINT or SIGTERM.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	log.Println("[server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.Close()
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Println("[server] stopped")
	return nil
}

// Close releases the limiter, store and cache.
func (s *Server) Close() {
	s.rateLimiter.Stop()
	if s.store != nil {
		s.store.Close()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			log.Printf("[server] cache close: %v", err)
		}
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.config.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.metrics.incRateLimited(pathScope(r.URL.Path))
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withMetrics records request counts and latency. The route label is the
// matched ServeMux pattern, read after the mux has run.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.observeRequest(r.Method, route, rec.status, time.Since(start).Seconds())
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s completed in %v", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes the failure envelope
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]any{"success": false, "error": message})
}

// writeError maps err to a status and writes the failure envelope. Internal
// errors are logged and replaced by a generic message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
		message = "Internal server error"
	}
	if status == http.StatusRequestEntityTooLarge {
		message = "Request body too large"
	}
	s.errorResponse(w, status, message)
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"success":  false,
		"error":    "Rate limit exceeded. Please try again in a minute.",
		"limit":    info.Limit,
		"reset_at": info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] limit exceeded: limit=%d reset=%s",
		info.Limit, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// pathScope keeps the first two path segments so metric labels stay bounded.
func pathScope(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[0] + "/" + parts[1]
	}
	return "/" + parts[0]
}
