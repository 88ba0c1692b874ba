package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/a11y-toolkit/internal/checklist"
	"github.com/jonathan/a11y-toolkit/internal/color"
	"github.com/jonathan/a11y-toolkit/internal/pdftext"
	"github.com/jonathan/a11y-toolkit/internal/types"
	"github.com/jonathan/a11y-toolkit/internal/typography"
	"github.com/jonathan/a11y-toolkit/internal/validation"
)

func TestPrintContrast(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintContrast("#777", "#888", color.Evaluate("#777", "#888"))
	output := buf.String()

	assert.Contains(t, output, "CONTRAST CHECK")
	assert.Contains(t, output, "#777777")
	assert.Contains(t, output, "#888888")
	assert.Contains(t, output, "✗ fail")
	assert.Contains(t, output, "Suggested foregrounds")
	assert.NotContains(t, output, "\x1b[", "plain printer must not emit ANSI codes")
}

func TestPrintContrast_Passing(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintContrast("black", "white", color.Evaluate("black", "white"))
	output := buf.String()

	assert.Contains(t, output, "21.00:1")
	assert.NotContains(t, output, "✗ fail")
	assert.NotContains(t, output, "Suggested")
}

func TestPrintContrast_Invalid(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintContrast("nope", "#fff", color.Evaluate("nope", "#fff"))
	output := buf.String()

	assert.Contains(t, output, `"nope" is not a recognised colour`)
	assert.NotContains(t, output, "Background")
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := validation.NewReport([]validation.Issue{
		{Severity: validation.SeverityError, Message: "Image missing alt", Element: `<img src="a.png">`, Rule: "image-alt"},
		{Severity: validation.SeverityWarning, Message: "No main landmark", Rule: "landmark-main"},
	})
	p.PrintValidation(report)
	output := buf.String()

	assert.Contains(t, output, "1 errors, 1 warnings, 0 info")
	assert.Contains(t, output, "[ERROR] Image missing alt")
	assert.Contains(t, output, "[WARNING] No main landmark")
	assert.Contains(t, output, "rule: image-alt")
}

func TestPrintValidation_Clean(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidation(validation.NewReport(nil))
	assert.Contains(t, buf.String(), "No accessibility issues found")
}

func TestPrinter_WithColor(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).WithColor(true)

	p.PrintValidation(validation.NewReport([]validation.Issue{
		{Severity: validation.SeverityError, Message: "x", Rule: "r"},
	}))
	assert.Contains(t, buf.String(), "\x1b[")

	buf.Reset()
	p.WithColor(false).PrintValidation(validation.NewReport([]validation.Issue{
		{Severity: validation.SeverityError, Message: "x", Rule: "r"},
	}))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestPrintTypography(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTypography(typography.Evaluate(typography.Settings{}))
	output := buf.String()

	assert.Contains(t, output, "TYPOGRAPHY")
	assert.Contains(t, output, "Font Size")
	assert.Contains(t, output, "16px")
	assert.Contains(t, output, "3 of 6 typography checks passing")
}

func TestPrintChecklist(t *testing.T) {
	checked := map[string]bool{"1.1.1": true}
	groups, err := checklist.Grouped(checklist.Filter{Principle: "Robust"}, checked)
	require.NoError(t, err)
	progress, err := checklist.ComputeProgress(checked)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf).PrintChecklist(groups, progress, checked)
	output := buf.String()

	assert.Contains(t, output, "1 / 46 completed (2%)")
	assert.Contains(t, output, "Robust")
	assert.Contains(t, output, "4.1.2")
	assert.NotContains(t, output, "Perceivable")
}

func TestPrintChecklist_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintChecklist(nil, checklist.Progress{Total: 46}, nil)
	assert.Contains(t, buf.String(), "No criteria match the filter.")
}

func TestPrintExtraction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtraction("report.pdf", 2048, &pdftext.Result{Text: "Hello\nWorld", PageCount: 2})
	output := buf.String()
	assert.Contains(t, output, "report.pdf (2.0 KB)")
	assert.Contains(t, output, "Pages:  2")
	assert.Contains(t, output, "Hello")
	assert.NotContains(t, output, "scanned")

	buf.Reset()
	p.PrintExtraction("scan.pdf", 100, &pdftext.Result{PageCount: 1, Scanned: true})
	assert.Contains(t, buf.String(), "scanned")

	buf.Reset()
	p.PrintExtraction("x.pdf", 1, nil)
	assert.Empty(t, buf.String())
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.AnalysisReport{
		Summary: types.AnalysisSummary{ErrorCount: 1, OverallScore: 64},
		Issues: []types.AnalysisIssue{
			{Severity: "error", WCAGCriteria: "1.1.1", Title: "Chart lacks alt", Location: "Page 3"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "DOCUMENT ANALYSIS")
	assert.Contains(t, output, "Score:  64/100")
	assert.Contains(t, output, "[ERROR] Chart lacks alt (WCAG 1.1.1)")
	assert.Contains(t, output, "at Page 3")

	buf.Reset()
	p.PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate("éééééééééééé", 10))
}
