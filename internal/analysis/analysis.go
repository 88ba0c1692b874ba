// Package analysis sends document text to an LLM for an accessibility review
// and for conversion into accessible HTML.
package analysis

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/jonathan/a11y-toolkit/internal/cache"
	"github.com/jonathan/a11y-toolkit/internal/llm"
	"github.com/jonathan/a11y-toolkit/internal/prompts"
	"github.com/jonathan/a11y-toolkit/internal/schemas"
	"github.com/jonathan/a11y-toolkit/internal/types"
)

const (
	// MaxTextRunes caps the document text sent to the model.
	MaxTextRunes = 100000

	AnalyzeMaxTokens  = 8192
	GenerateMaxTokens = 16384

	// DefaultCacheTTL applies to cached analyses when the service has a cache.
	DefaultCacheTTL = 24 * time.Hour
)

// AnalyzeInput is the document to review.
type AnalyzeInput struct {
	Text     string
	Filename string
}

// GenerateInput is the document to convert plus the issues it must resolve.
type GenerateInput struct {
	Text     string
	Issues   []types.AnalysisIssue
	Filename string
}

// Service runs analyses against one client, optionally caching results.
type Service struct {
	client llm.Client
	cache  cache.Cache
	ttl    time.Duration
}

// NewService creates a Service. A nil cache disables caching.
func NewService(client llm.Client, c cache.Cache) *Service {
	return &Service{client: client, cache: c, ttl: DefaultCacheTTL}
}

// WithTTL sets how long analyses stay cached. Non-positive values keep the
// current TTL.
func (s *Service) WithTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// Analyze reviews in.Text with the analysis prompt and returns the parsed,
// schema-checked report.
func Analyze(ctx context.Context, client llm.Client, in AnalyzeInput) (*types.AnalysisReport, error) {
	return NewService(client, nil).Analyze(ctx, in)
}

// Generate converts in.Text into an accessible HTML document.
func Generate(ctx context.Context, client llm.Client, in GenerateInput) (string, error) {
	return NewService(client, nil).Generate(ctx, in)
}

// Analyze is the cached form of the package-level Analyze.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (*types.AnalysisReport, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, &InputError{Message: "No text provided for analysis."}
	}
	text := capText(in.Text)
	filename := filenameOrUnknown(in.Filename)

	key := cache.Key("analysis", string(s.client.Provider()), s.client.Model(), filename, text)
	if report, ok := s.cached(ctx, key); ok {
		return report, nil
	}

	system, user, err := prompts.Render(prompts.Analysis, map[string]string{
		"Filename": filename,
		"Text":     text,
	})
	if err != nil {
		return nil, &Error{Op: "analysis", Message: "failed to load prompt", Cause: err}
	}

	response, err := s.client.Complete(ctx, llm.Request{System: system, User: user, MaxTokens: AnalyzeMaxTokens})
	if err != nil {
		return nil, &Error{Op: "analysis", Message: "failed to generate content from LLM", Cause: err}
	}

	raw, err := parseReportJSON(response)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateBytes(schemas.Analysis, raw); err != nil {
		return nil, &Error{Op: "analysis", Message: "response does not match analysis schema", Cause: err}
	}

	var report types.AnalysisReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, &Error{Op: "analysis", Message: "failed to decode analysis", Cause: err}
	}
	if report.Issues == nil {
		report.Issues = []types.AnalysisIssue{}
	}
	if report.Recount() {
		log.Printf("[analysis] summary counts disagreed with issue list for %s, recomputed", filename)
	}

	s.store(ctx, key, &report)
	return &report, nil
}

// Generate is the service form of the package-level Generate. Generated HTML
// is never cached.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (string, error) {
	if strings.TrimSpace(in.Text) == "" {
		return "", &InputError{Message: "No text provided for generation."}
	}

	issues := in.Issues
	if issues == nil {
		issues = []types.AnalysisIssue{}
	}
	issuesJSON, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		return "", &Error{Op: "generation", Message: "failed to encode issues", Cause: err}
	}

	system, user, err := prompts.Render(prompts.Generation, map[string]string{
		"Filename": filenameOrUnknown(in.Filename),
		"Text":     capText(in.Text),
		"Issues":   string(issuesJSON),
	})
	if err != nil {
		return "", &Error{Op: "generation", Message: "failed to load prompt", Cause: err}
	}

	response, err := s.client.Complete(ctx, llm.Request{System: system, User: user, MaxTokens: GenerateMaxTokens})
	if err != nil {
		return "", &Error{Op: "generation", Message: "failed to generate content from LLM", Cause: err}
	}
	return llm.StripHTMLFences(response), nil
}

func (s *Service) cached(ctx context.Context, key string) (*types.AnalysisReport, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[analysis] cache read failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var report types.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		log.Printf("[analysis] discarding unreadable cache entry: %v", err)
		return nil, false
	}
	return &report, true
}

func (s *Service) store(ctx context.Context, key string, report *types.AnalysisReport) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		log.Printf("[analysis] cache write failed: %v", err)
	}
}

// parseReportJSON accepts a bare JSON document or the first JSON object
// embedded in surrounding prose.
func parseReportJSON(response string) ([]byte, error) {
	trimmed := strings.TrimSpace(response)
	if json.Valid([]byte(trimmed)) {
		return []byte(trimmed), nil
	}
	if obj := llm.ExtractJSONObject(response); obj != "" && json.Valid([]byte(obj)) {
		return []byte(obj), nil
	}
	return nil, &Error{Op: "analysis", Message: "Failed to parse analysis response as JSON."}
}

func capText(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxTextRunes {
		return text
	}
	return string(runes[:MaxTextRunes])
}

func filenameOrUnknown(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Unknown"
	}
	return name
}
