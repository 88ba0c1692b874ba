package validation

// Severity classifies an Issue. Each rule assigns exactly one.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single finding. Element is a display rendering of the offending
// markup (tag plus key attributes), not a reference into the tree.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Element  string   `json:"element"`
	Rule     string   `json:"rule"`
}

// Counts tallies issues per severity.
type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Total returns the number of counted issues.
func (c Counts) Total() int {
	return c.Errors + c.Warnings + c.Infos
}

// Summarize counts issues by severity in a single pass.
func Summarize(issues []Issue) Counts {
	var c Counts
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			c.Errors++
		case SeverityWarning:
			c.Warnings++
		case SeverityInfo:
			c.Infos++
		}
	}
	return c
}
