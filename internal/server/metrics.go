package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	MetricHTTPRequestsTotal   = "a11y_http_requests_total"
	MetricHTTPRequestDuration = "a11y_http_request_duration_seconds"
	MetricRateLimited         = "a11y_rate_limited_total"
	MetricValidationIssues    = "a11y_validation_issues_total"
	MetricContrastChecks      = "a11y_contrast_checks_total"
	MetricLLMRequests         = "a11y_llm_requests_total"
)

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	rateLimited      *prometheus.CounterVec
	validationIssues *prometheus.CounterVec
	contrastChecks   *prometheus.CounterVec
	llmRequests      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricHTTPRequestsTotal,
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricHTTPRequestDuration,
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.05, 0.25, 1, 5, 30, 120},
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRateLimited,
			Help: "Requests rejected by the rate limiter",
		}, []string{"path"}),
		validationIssues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricValidationIssues,
			Help: "Accessibility rule findings by rule and severity",
		}, []string{"rule", "severity"}),
		contrastChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricContrastChecks,
			Help: "Contrast evaluations by AA normal-text outcome",
		}, []string{"aa_normal"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricLLMRequests,
			Help: "LLM analysis and generation calls by provider and outcome",
		}, []string{"operation", "provider", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.rateLimited,
		m.validationIssues,
		m.contrastChecks,
		m.llmRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeRequest(method, route string, status int, seconds float64) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) incRateLimited(path string) {
	m.rateLimited.WithLabelValues(path).Inc()
}

func (m *Metrics) incValidationIssue(rule, severity string) {
	m.validationIssues.WithLabelValues(rule, severity).Inc()
}

func (m *Metrics) incContrastCheck(passesAANormal bool) {
	m.contrastChecks.WithLabelValues(strconv.FormatBool(passesAANormal)).Inc()
}

func (m *Metrics) incLLMRequest(operation, provider string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.llmRequests.WithLabelValues(operation, provider, outcome).Inc()
}
