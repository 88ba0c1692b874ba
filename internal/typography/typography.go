// Package typography checks text spacing settings against WCAG 1.4.4, 1.4.8
// and 1.4.12 thresholds.
package typography

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Defaults applied to zero-valued settings.
const (
	DefaultFontSize         = 16.0
	DefaultLineHeight       = 1.5
	DefaultParagraphSpacing = 1.5
	DefaultMaxWidth         = 80.0
	DefaultFontFamily       = "system-ui, sans-serif"
)

// Settings describes a text style. Font size is in px, spacing values are in
// em and line width is in ch.
type Settings struct {
	FontSize         float64 `json:"font_size"`
	LineHeight       float64 `json:"line_height"`
	LetterSpacing    float64 `json:"letter_spacing"`
	WordSpacing      float64 `json:"word_spacing"`
	ParagraphSpacing float64 `json:"paragraph_spacing"`
	MaxWidth         float64 `json:"max_width"`
	FontFamily       string  `json:"font_family,omitempty"`
}

// WithDefaults replaces zero or NaN fields with their defaults.
func (s Settings) WithDefaults() Settings {
	s.FontSize = orDefault(s.FontSize, DefaultFontSize)
	s.LineHeight = orDefault(s.LineHeight, DefaultLineHeight)
	s.LetterSpacing = orDefault(s.LetterSpacing, 0)
	s.WordSpacing = orDefault(s.WordSpacing, 0)
	s.ParagraphSpacing = orDefault(s.ParagraphSpacing, DefaultParagraphSpacing)
	s.MaxWidth = orDefault(s.MaxWidth, DefaultMaxWidth)
	if strings.TrimSpace(s.FontFamily) == "" {
		s.FontFamily = DefaultFontFamily
	}
	return s
}

func orDefault(v, def float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return def
	}
	return v
}

// CSS renders the settings as an inline style declaration for a preview
// block. Paragraph spacing maps to margin-bottom.
func (s Settings) CSS() string {
	s = s.WithDefaults()
	return fmt.Sprintf(
		"font-size: %spx; line-height: %s; letter-spacing: %sem; word-spacing: %sem; font-family: %s; max-width: %sch; margin-bottom: %sem;",
		num(s.FontSize), num(s.LineHeight), num(s.LetterSpacing), num(s.WordSpacing),
		s.FontFamily, num(s.MaxWidth), num(s.ParagraphSpacing))
}

// Check is one pass/fail verdict.
type Check struct {
	Label string `json:"label"`
	Pass  bool   `json:"pass"`
	Value string `json:"value"`
}

// Result holds every check in display order.
type Result struct {
	Settings Settings `json:"settings"`
	Checks   []Check  `json:"checks"`
	Passed   int      `json:"passed"`
	Total    int      `json:"total"`
}

// Summary is the short status line, e.g. "4 of 6 typography checks passing".
func (r Result) Summary() string {
	return fmt.Sprintf("%d of %d typography checks passing", r.Passed, r.Total)
}

// Evaluate applies defaults and runs the six checks.
func Evaluate(s Settings) Result {
	s = s.WithDefaults()
	checks := []Check{
		{Label: "Font Size", Pass: s.FontSize >= 16, Value: num(s.FontSize) + "px"},
		{Label: "Line Height (≥ 1.5)", Pass: s.LineHeight >= 1.5, Value: num(s.LineHeight)},
		{Label: "Letter Spacing (≥ 0.12em)", Pass: s.LetterSpacing >= 0.12, Value: num(s.LetterSpacing) + "em"},
		{Label: "Word Spacing (≥ 0.16em)", Pass: s.WordSpacing >= 0.16, Value: num(s.WordSpacing) + "em"},
		{Label: "Paragraph Spacing (≥ 2× font size)", Pass: s.ParagraphSpacing >= 2, Value: num(s.ParagraphSpacing) + "em"},
		{Label: "Line Width (≤ 80ch)", Pass: s.MaxWidth <= 80, Value: num(s.MaxWidth) + "ch"},
	}

	passed := 0
	for _, c := range checks {
		if c.Pass {
			passed++
		}
	}
	return Result{Settings: s, Checks: checks, Passed: passed, Total: len(checks)}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
