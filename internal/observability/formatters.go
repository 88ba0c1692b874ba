// Package observability provides formatted report output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	termcolor "github.com/fatih/color"

	"github.com/jonathan/a11y-toolkit/internal/checklist"
	"github.com/jonathan/a11y-toolkit/internal/color"
	"github.com/jonathan/a11y-toolkit/internal/pdftext"
	"github.com/jonathan/a11y-toolkit/internal/types"
	"github.com/jonathan/a11y-toolkit/internal/typography"
	"github.com/jonathan/a11y-toolkit/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
	// maxLineLen truncates long element renderings inside boxes
	maxLineLen = boxWidth - 8
)

var (
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(boxWidth)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// Printer handles formatted output for CLI reports
type Printer struct {
	out   io.Writer
	color bool

	errorC   *termcolor.Color
	warningC *termcolor.Color
	infoC    *termcolor.Color
	passC    *termcolor.Color
	failC    *termcolor.Color
	dimC     *termcolor.Color
}

// NewPrinter creates a Printer that writes plain text to out.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{
		out:      out,
		errorC:   termcolor.New(termcolor.FgRed, termcolor.Bold),
		warningC: termcolor.New(termcolor.FgYellow, termcolor.Bold),
		infoC:    termcolor.New(termcolor.FgCyan),
		passC:    termcolor.New(termcolor.FgGreen),
		failC:    termcolor.New(termcolor.FgRed),
		dimC:     termcolor.New(termcolor.Faint),
	}
	return p.WithColor(false)
}

// WithColor toggles ANSI colouring of severities, verdicts and swatches.
func (p *Printer) WithColor(enabled bool) *Printer {
	p.color = enabled
	for _, c := range []*termcolor.Color{p.errorC, p.warningC, p.infoC, p.passC, p.failC, p.dimC} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// printBox prints a bordered box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	body := p.bold(title)
	if content != "" {
		body += "\n\n" + content
	}
	fmt.Fprintln(p.out, boxStyle.Render(body))
}

func (p *Printer) bold(s string) string {
	if !p.color {
		return s
	}
	return titleStyle.Render(s)
}

func (p *Printer) verdict(pass bool) string {
	if pass {
		return p.passC.Sprint("✓ pass")
	}
	return p.failC.Sprint("✗ fail")
}

func (p *Printer) severity(sev string) string {
	label := strings.ToUpper(sev)
	switch sev {
	case string(validation.SeverityError):
		return p.errorC.Sprint(label)
	case string(validation.SeverityWarning):
		return p.warningC.Sprint(label)
	default:
		return p.infoC.Sprint(label)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintContrast outputs a contrast evaluation with its compliance verdicts
// and any suggested replacements.
func (p *Printer) PrintContrast(fgSpec, bgSpec string, eval color.Evaluation) {
	if !eval.OK() {
		var sb strings.Builder
		if _, ok := color.Parse(fgSpec); !ok {
			sb.WriteString(fmt.Sprintf("Foreground %q is not a recognised colour\n", fgSpec))
		}
		if _, ok := color.Parse(bgSpec); !ok {
			sb.WriteString(fmt.Sprintf("Background %q is not a recognised colour\n", bgSpec))
		}
		p.printBox("CONTRAST CHECK", strings.TrimSuffix(sb.String(), "\n"))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Foreground:  %s\n", eval.Foreground.Hex()))
	sb.WriteString(fmt.Sprintf("Background:  %s\n", eval.Background.Hex()))
	sb.WriteString(fmt.Sprintf("Ratio:       %.2f:1\n", *eval.Ratio))
	if p.color {
		swatch := lipgloss.NewStyle().
			Foreground(lipgloss.Color(eval.Foreground.Hex())).
			Background(lipgloss.Color(eval.Background.Hex())).
			Padding(0, 2).
			Render("Sample Text")
		sb.WriteString(fmt.Sprintf("Preview:     %s\n", swatch))
	}
	sb.WriteString("\n")

	c := eval.Compliance
	sb.WriteString(fmt.Sprintf("AA normal text  (4.5:1)  %s\n", p.verdict(c.AANormal)))
	sb.WriteString(fmt.Sprintf("AA large text   (3:1)    %s\n", p.verdict(c.AALarge)))
	sb.WriteString(fmt.Sprintf("AAA normal text (7:1)    %s\n", p.verdict(c.AAANormal)))
	sb.WriteString(fmt.Sprintf("AAA large text  (4.5:1)  %s\n", p.verdict(c.AAALarge)))

	if len(eval.Suggestions) > 0 {
		sb.WriteString("\nSuggested foregrounds:\n")
		for _, s := range eval.Suggestions {
			sb.WriteString(fmt.Sprintf("  • %s  %.2f:1\n", s.Hex, s.Ratio))
		}
	}

	p.printBox("CONTRAST CHECK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the findings of a rule check grouped in
// reporting order.
func (p *Printer) PrintValidation(report validation.Report) {
	if len(report.Issues) == 0 {
		p.printBox("ACCESSIBILITY VALIDATION", p.passC.Sprint("✅ No accessibility issues found"))
		return
	}

	var sb strings.Builder
	s := report.Summary
	sb.WriteString(fmt.Sprintf("%d errors, %d warnings, %d info\n\n", s.Errors, s.Warnings, s.Infos))

	for i, issue := range report.Issues {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", p.severity(string(issue.Severity)), issue.Message))
		if issue.Element != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", p.dimC.Sprint(truncate(issue.Element, maxLineLen))))
		}
		sb.WriteString(fmt.Sprintf("  rule: %s\n", issue.Rule))
		if i < len(report.Issues)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("ACCESSIBILITY VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTypography outputs the six typography checks.
func (p *Printer) PrintTypography(result typography.Result) {
	var sb strings.Builder
	for _, c := range result.Checks {
		sb.WriteString(fmt.Sprintf("%-38s %-8s %s\n", c.Label, c.Value, p.verdict(c.Pass)))
	}
	sb.WriteString("\n" + result.Summary())
	p.printBox("TYPOGRAPHY", sb.String())
}

// PrintChecklist outputs filtered criteria by principle with progress.
func (p *Printer) PrintChecklist(groups []checklist.Group, progress checklist.Progress, checked map[string]bool) {
	var sb strings.Builder
	sb.WriteString(progress.String() + "\n")

	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("\n%s\n", p.bold(g.Principle)))
		for _, c := range g.Criteria {
			mark := "[ ]"
			if checked[c.ID] {
				mark = p.passC.Sprint("[x]")
			}
			sb.WriteString(fmt.Sprintf("  %s %-6s %-3s %s\n", mark, c.ID, c.Level, truncate(c.Title, maxLineLen-16)))
		}
	}
	if len(groups) == 0 {
		sb.WriteString("\nNo criteria match the filter.")
	}

	p.printBox("WCAG 2.1 CHECKLIST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExtraction outputs PDF extraction metadata and a text preview.
func (p *Printer) PrintExtraction(filename string, size int64, result *pdftext.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:   %s (%s)\n", filename, pdftext.FormatSize(size)))
	sb.WriteString(fmt.Sprintf("Pages:  %d\n", result.PageCount))
	sb.WriteString(fmt.Sprintf("Chars:  %d\n", len([]rune(result.Text))))
	if result.Scanned {
		sb.WriteString("\n" + p.warningC.Sprint("⚠ Very little text found. This appears to be a scanned PDF."))
		sb.WriteString("\n")
	}

	lines := strings.Split(result.Text, "\n")
	count := min(len(lines), maxItemsToShow)
	if result.Text != "" {
		sb.WriteString("\nPreview:\n")
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %s\n", truncate(lines[i], maxLineLen)))
		}
		if len(lines) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more lines\n", len(lines)-maxItemsToShow))
		}
	}

	p.printBox("PDF EXTRACTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs an LLM document analysis.
func (p *Printer) PrintAnalysis(report *types.AnalysisReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	s := report.Summary
	sb.WriteString(fmt.Sprintf("Score:  %.0f/100\n", s.OverallScore))
	sb.WriteString(fmt.Sprintf("Issues: %d errors, %d warnings, %d info\n", s.ErrorCount, s.WarningCount, s.InfoCount))

	for _, issue := range report.Issues {
		sb.WriteString(fmt.Sprintf("\n[%s] %s", p.severity(issue.Severity), issue.Title))
		if issue.WCAGCriteria != "" {
			sb.WriteString(fmt.Sprintf(" (WCAG %s)", issue.WCAGCriteria))
		}
		sb.WriteString("\n")
		if issue.Location != "" {
			sb.WriteString(fmt.Sprintf("  at %s\n", issue.Location))
		}
		if issue.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("  → %s\n", issue.Recommendation))
		}
	}

	p.printBox("DOCUMENT ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}
