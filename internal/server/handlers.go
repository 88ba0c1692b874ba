package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/a11y-toolkit/internal/analysis"
	"github.com/jonathan/a11y-toolkit/internal/checklist"
	"github.com/jonathan/a11y-toolkit/internal/color"
	"github.com/jonathan/a11y-toolkit/internal/db"
	"github.com/jonathan/a11y-toolkit/internal/llm"
	"github.com/jonathan/a11y-toolkit/internal/pdftext"
	"github.com/jonathan/a11y-toolkit/internal/types"
	"github.com/jonathan/a11y-toolkit/internal/typography"
	"github.com/jonathan/a11y-toolkit/internal/validation"
)

// multipartOverhead leaves room for form boundaries and headers around the
// uploaded file.
const multipartOverhead = 1 << 20

// ProviderResponse describes one selectable LLM provider.
type ProviderResponse struct {
	ID          llm.Provider `json:"id"`
	Label       string       `json:"label"`
	Model       string       `json:"model"`
	Placeholder string       `json:"placeholder"`
	Configured  bool         `json:"configured"`
	Default     bool         `json:"default"`
}

// ok writes the success envelope with the given fields.
func (s *Server) ok(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	s.jsonResponse(w, http.StatusOK, body)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	if pinger, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			log.Printf("[server] health: database ping failed: %v", err)
			status["database"] = "unavailable"
		} else {
			status["database"] = "ok"
		}
	}
	if checker, ok := s.cache.(interface{ HealthCheck(context.Context) error }); ok {
		if err := checker.HealthCheck(r.Context()); err != nil {
			log.Printf("[server] health: cache ping failed: %v", err)
			status["cache"] = "unavailable"
		} else {
			status["cache"] = "ok"
		}
	}
	s.jsonResponse(w, http.StatusOK, status)
}

func (s *Server) handleContrast(w http.ResponseWriter, r *http.Request) {
	var req ContrastRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	eval := color.Evaluate(req.Foreground, req.Background)
	if !eval.OK() {
		field := "background"
		if _, ok := color.Parse(req.Foreground); !ok {
			field = "foreground"
		}
		s.writeError(w, &ErrValidation{Field: field, Message: "not a recognised colour"})
		return
	}
	s.metrics.incContrastCheck(eval.Compliance.AANormal)

	fields := map[string]any{"result": eval}
	if req.Save {
		id, err := s.saveReport(r.Context(), types.ReportContrast, eval)
		if err != nil {
			s.writeError(w, err)
			return
		}
		fields["report_id"] = id
	}
	s.ok(w, fields)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	fields := map[string]any{}
	src := req.HTML
	if src == "" {
		page, err := s.fetcher.Fetch(r.Context(), req.URL, req.UseBrowser)
		if err != nil {
			s.writeError(w, err)
			return
		}
		src = page.HTML
		fields["url"] = page.URL
		fields["from_cache"] = page.FromCache
		fields["rendered"] = page.Rendered
	}

	root, err := validation.Parse(src)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "html", Message: err.Error()})
		return
	}
	report := validation.NewReport(validation.ValidateParallel(root))
	for _, issue := range report.Issues {
		s.metrics.incValidationIssue(issue.Rule, string(issue.Severity))
	}

	fields["issues"] = report.Issues
	fields["summary"] = report.Summary
	if req.Save {
		id, err := s.saveReport(r.Context(), types.ReportValidation, report)
		if err != nil {
			s.writeError(w, err)
			return
		}
		fields["report_id"] = id
	}
	s.ok(w, fields)
}

func (s *Server) handleTypography(w http.ResponseWriter, r *http.Request) {
	var req TypographyRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result := typography.Evaluate(req.settings())
	s.ok(w, map[string]any{
		"result":  result,
		"summary": result.Summary(),
		"css":     result.Settings.CSS(),
	})
}

// handleChecklist serves the criteria catalogue. checked is a comma
// separated list of criterion IDs the caller has completed.
func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	checked := map[string]bool{}
	for _, id := range strings.Split(q.Get("checked"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			checked[id] = true
		}
	}

	filter := checklist.Filter{
		Level:     q.Get("level"),
		Principle: q.Get("principle"),
		Status:    checklist.Status(q.Get("status")),
	}
	switch filter.Status {
	case "", checklist.StatusAll, checklist.StatusChecked, checklist.StatusUnchecked:
	default:
		s.writeError(w, &ErrValidation{Field: "status", Message: "must be all, checked or unchecked"})
		return
	}

	groups, err := checklist.Grouped(filter, checked)
	if err != nil {
		s.writeError(w, err)
		return
	}
	progress, err := checklist.ComputeProgress(checked)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.ok(w, map[string]any{"groups": groups, "progress": progress})
}

// handleExtract pulls text out of an uploaded PDF (multipart field "file").
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	limit := s.config.MaxUploadBytes + multipartOverhead
	if r.ContentLength > limit {
		s.writeError(w, &http.MaxBytesError{Limit: limit})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, err)
			return
		}
		s.writeError(w, &ErrValidation{Field: "file", Message: "expected a multipart upload"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "file", Message: "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := pdftext.Extract(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.ok(w, map[string]any{
		"filename":  header.Filename,
		"size":      pdftext.FormatSize(int64(len(data))),
		"text":      result.Text,
		"pageCount": result.PageCount,
		"scanned":   result.Scanned,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, &analysis.InputError{Message: "No text provided for analysis."})
		return
	}

	client, err := s.clientFor(r.Context(), req.LLMOptions)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer func() { _ = client.Close() }()

	svc := analysis.NewService(client, s.cache).WithTTL(s.config.CacheTTL)
	report, err := svc.Analyze(r.Context(), analysis.AnalyzeInput{Text: req.Text, Filename: req.Filename})
	s.metrics.incLLMRequest("analyze", string(client.Provider()), err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	fields := map[string]any{"analysis": report}
	if req.Save {
		id, err := s.saveReport(r.Context(), types.ReportAnalysis, report)
		if err != nil {
			s.writeError(w, err)
			return
		}
		fields["report_id"] = id
	}
	s.ok(w, fields)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, &analysis.InputError{Message: "No text provided for generation."})
		return
	}

	client, err := s.clientFor(r.Context(), req.LLMOptions)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer func() { _ = client.Close() }()

	html, err := analysis.NewService(client, nil).Generate(r.Context(), analysis.GenerateInput{
		Text:     req.Text,
		Issues:   req.Issues,
		Filename: req.Filename,
	})
	s.metrics.incLLMRequest("generate", string(client.Provider()), err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.ok(w, map[string]any{"html": html})
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	providers := make([]ProviderResponse, 0, len(llm.Providers()))
	for _, p := range llm.Providers() {
		info, _ := llm.Defaults(p)
		providers = append(providers, ProviderResponse{
			ID:          p,
			Label:       info.Label,
			Model:       info.Model,
			Placeholder: info.Placeholder,
			Configured:  s.config.APIKeys[p] != "",
			Default:     p == s.config.LLM.Provider,
		})
	}
	s.ok(w, map[string]any{"providers": providers})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrStoreUnavailable{})
		return
	}
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "invalid report ID"})
		return
	}

	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if report == nil {
		s.writeError(w, &ErrNotFound{Resource: "report", ID: idStr})
		return
	}
	s.ok(w, map[string]any{"report": report})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrStoreUnavailable{})
		return
	}
	q := r.URL.Query()

	kind := types.ReportKind(q.Get("kind"))
	if kind != "" && !kind.Valid() {
		s.writeError(w, &ErrValidation{Field: "kind", Message: "must be validation, analysis or contrast"})
		return
	}
	limit := db.DefaultListLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be between 1 and 500"})
			return
		}
		limit = n
	}

	reports, err := s.store.ListReports(r.Context(), kind, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.ok(w, map[string]any{"reports": reports, "count": len(reports)})
}

// clientFor resolves the provider, model and key for one request. A
// provider named in the request replaces the configured model and base URL
// unless it matches the configured provider.
func (s *Server) clientFor(ctx context.Context, opts LLMOptions) (llm.Client, error) {
	cfg := *s.config.LLM
	if opts.Provider != "" {
		p, err := llm.ParseProvider(opts.Provider)
		if err != nil {
			return nil, &ErrValidation{Field: "provider", Message: err.Error()}
		}
		if p != cfg.Provider {
			cfg = llm.Config{Provider: p}
		}
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}

	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		key = s.config.APIKeys[cfg.Provider]
	}
	if key == "" {
		return nil, &ErrMissingAPIKey{Provider: cfg.Provider}
	}
	return s.newClient(ctx, &cfg, key)
}

func (s *Server) saveReport(ctx context.Context, kind types.ReportKind, payload any) (string, error) {
	if s.store == nil {
		return "", &ErrStoreUnavailable{}
	}
	id, err := s.store.SaveReport(ctx, kind, payload)
	if err != nil {
		return "", err
	}
	log.Printf("[server] saved %s report %s", kind, id)
	return id.String(), nil
}
