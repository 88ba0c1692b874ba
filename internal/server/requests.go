package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/a11y-toolkit/internal/types"
	"github.com/jonathan/a11y-toolkit/internal/typography"
)

// MaxJSONBodyBytes caps JSON request bodies.
const MaxJSONBodyBytes = 5 << 20

// ContrastRequest is the body of POST /api/contrast.
type ContrastRequest struct {
	Foreground string `json:"foreground" validate:"required"`
	Background string `json:"background" validate:"required"`
	Save       bool   `json:"save,omitempty"`
}

// ValidateRequest is the body of POST /api/validate. Exactly one of HTML
// and URL is used; HTML wins when both are set.
type ValidateRequest struct {
	HTML       string `json:"html" validate:"required_without=URL"`
	URL        string `json:"url" validate:"omitempty,url"`
	UseBrowser bool   `json:"use_browser,omitempty"`
	Save       bool   `json:"save,omitempty"`
}

// TypographyRequest is the body of POST /api/typography.
type TypographyRequest struct {
	FontSize         float64 `json:"font_size" validate:"gte=0,lte=200"`
	LineHeight       float64 `json:"line_height" validate:"gte=0,lte=10"`
	LetterSpacing    float64 `json:"letter_spacing" validate:"gte=-1,lte=5"`
	WordSpacing      float64 `json:"word_spacing" validate:"gte=-1,lte=5"`
	ParagraphSpacing float64 `json:"paragraph_spacing" validate:"gte=0,lte=20"`
	MaxWidth         float64 `json:"max_width" validate:"gte=0,lte=500"`
	FontFamily       string  `json:"font_family,omitempty" validate:"max=200"`
}

func (r TypographyRequest) settings() typography.Settings {
	return typography.Settings{
		FontSize:         r.FontSize,
		LineHeight:       r.LineHeight,
		LetterSpacing:    r.LetterSpacing,
		WordSpacing:      r.WordSpacing,
		ParagraphSpacing: r.ParagraphSpacing,
		MaxWidth:         r.MaxWidth,
		FontFamily:       r.FontFamily,
	}
}

// LLMOptions lets a caller pick the provider and bring their own key.
type LLMOptions struct {
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=anthropic openai gemini"`
	Model    string `json:"model,omitempty" validate:"max=100"`
	APIKey   string `json:"apiKey,omitempty"`
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	LLMOptions
	Text     string `json:"text"`
	Filename string `json:"filename,omitempty" validate:"max=255"`
	Save     bool   `json:"save,omitempty"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	LLMOptions
	Text     string                `json:"text"`
	Issues   []types.AnalysisIssue `json:"issues"`
	Filename string                `json:"filename,omitempty" validate:"max=255"`
}

// decodeJSON reads a size-capped JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Message: "request body is empty"}
		}
		return &ErrValidation{Message: "Invalid request body: " + err.Error()}
	}
	if err := s.validator.Struct(dst); err != nil {
		return extractValidationError(err)
	}
	return nil
}

// extractValidationError converts the first validator failure to ErrValidation.
func extractValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		msg := fe.Tag()
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		return &ErrValidation{Field: fe.Field(), Message: msg}
	}
	return &ErrValidation{Message: "invalid request"}
}

// jsonTagName reports a field by its JSON name so validation messages match
// the request body.
func jsonTagName(tag, fallback string) string {
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return ""
	case "":
		return fallback
	}
	return name
}
