// Package pdftext pulls plain text out of PDF documents so it can be sent for
// accessibility analysis.
package pdftext

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxBytes is the largest PDF accepted for extraction.
const MaxBytes = 10 * 1024 * 1024

// ScannedThreshold is the minimum amount of text expected from a PDF that
// carries a real text layer.
const ScannedThreshold = 50

var magic = []byte("%PDF-")

// Result is the text extracted from one PDF.
type Result struct {
	Text      string `json:"text"`
	PageCount int    `json:"pageCount"`
	// Scanned is set when almost no text came out, which usually means the
	// pages are images.
	Scanned bool `json:"scanned"`
}

// ExtractionError represents a PDF that could not be read.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Extract reads every page of data and returns the joined page text.
func Extract(data []byte) (result *Result, err error) {
	if len(data) == 0 {
		return nil, &ExtractionError{Message: "empty input"}
	}
	if len(data) > MaxBytes {
		return nil, &ExtractionError{Message: fmt.Sprintf("file too large (%s, max %s)", FormatSize(int64(len(data))), FormatSize(MaxBytes))}
	}
	if !bytes.HasPrefix(data, magic) {
		return nil, &ExtractionError{Message: "not a PDF file"}
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExtractionError{Message: "malformed PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Message: "failed to open PDF", Cause: err}
	}

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &ExtractionError{Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		pages = append(pages, cleanPage(text))
	}

	return newResult(pages), nil
}

// ExtractFile reads a PDF from disk and extracts it.
func ExtractFile(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxBytes {
		return nil, &ExtractionError{Message: fmt.Sprintf("file too large (%s, max %s)", FormatSize(info.Size()), FormatSize(MaxBytes))}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Extract(data)
}

func newResult(pages []string) *Result {
	text := strings.TrimSpace(strings.Join(pages, "\n"))
	return &Result{
		Text:      text,
		PageCount: len(pages),
		Scanned:   len(text) < ScannedThreshold,
	}
}

var (
	spaceRun  = regexp.MustCompile(`[ \t]+`)
	blankRuns = regexp.MustCompile(`\n\n\n+`)
)

// cleanPage normalizes line endings and collapses runs of spaces and blank
// lines left behind by positioned text fragments.
func cleanPage(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// FormatSize renders a byte count the way the upload form shows it.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
