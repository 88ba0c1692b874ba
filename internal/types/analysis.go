// Package types provides the shared wire types for LLM document analysis
// and stored reports.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Severity values used by analysis issues.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// AnalysisIssue is one accessibility problem reported by the model.
type AnalysisIssue struct {
	Severity       string `json:"severity"`
	WCAGCriteria   string `json:"wcagCriteria,omitempty"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Location       string `json:"location,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// AnalysisSummary holds per-severity counts and an overall 0-100 score.
type AnalysisSummary struct {
	ErrorCount   int     `json:"errorCount"`
	WarningCount int     `json:"warningCount"`
	InfoCount    int     `json:"infoCount"`
	OverallScore float64 `json:"overallScore"`
}

// AnalysisReport is the structured result of a document analysis.
type AnalysisReport struct {
	Summary AnalysisSummary `json:"summary"`
	Issues  []AnalysisIssue `json:"issues"`
}

// Recount recomputes the severity counts from Issues and reports whether
// the previous counts differed.
func (r *AnalysisReport) Recount() bool {
	var errs, warns, infos int
	for _, issue := range r.Issues {
		switch issue.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warns++
		case SeverityInfo:
			infos++
		}
	}
	changed := errs != r.Summary.ErrorCount ||
		warns != r.Summary.WarningCount ||
		infos != r.Summary.InfoCount
	r.Summary.ErrorCount = errs
	r.Summary.WarningCount = warns
	r.Summary.InfoCount = infos
	return changed
}
