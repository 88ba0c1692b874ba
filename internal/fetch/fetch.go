// Package fetch retrieves web pages for validation and analysis, over plain
// HTTP or through a headless browser for script-rendered pages.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; A11yToolkit/1.0)"

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes = 5 << 20

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string `json:"url"`
	HTML        string `json:"-"`
	Text        string `json:"-"`
	ContentType string `json:"content_type,omitempty"`
	StatusCode  int    `json:"status_code"`
	Rendered    bool   `json:"rendered"`
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	MaxBytes  int64
	// UseBrowser renders the page in headless Chrome instead of plain HTTP.
	UseBrowser bool
	Verbose    bool
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

func validateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}
	return nil
}

// Page fetches urlStr with plain HTTP, or with the browser when
// opts.UseBrowser is set, and fills in Result.Text.
func Page(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateURL(urlStr); err != nil {
		return nil, err
	}

	var result *Result
	if opts.UseBrowser {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		html, err := WithBrowser(ctx, urlStr, timeout, opts.Verbose)
		if err != nil {
			return nil, &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
		}
		result = &Result{URL: urlStr, HTML: html, StatusCode: http.StatusOK, Rendered: true}
	} else {
		var err error
		result, err = URL(ctx, urlStr, opts)
		if err != nil {
			return result, err
		}
	}

	text, err := ExtractMainText(result.HTML, DefaultTextSelectors())
	if err == nil {
		result.Text = text
	}
	return result, nil
}

// URL retrieves HTML content from a URL.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateURL(urlStr); err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	if int64(len(bodyBytes)) > maxBytes {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("response exceeds %d bytes", maxBytes)}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, template, [aria-hidden='true']").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text()), nil
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"[role='main']",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// cleanWhitespace trims each line and drops blank ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
