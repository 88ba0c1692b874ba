package validation

import (
	"log"

	"golang.org/x/sync/errgroup"
)

// Validate runs the default rule battery against root and returns the
// concatenated findings. An empty, non-nil slice means no findings.
func Validate(root Node) []Issue {
	return ValidateWith(root, DefaultRules())
}

// ValidateWith runs rules sequentially in the given order.
func ValidateWith(root Node, rules []Rule) []Issue {
	issues := make([]Issue, 0)
	if root == nil {
		return issues
	}
	for _, rule := range rules {
		issues = append(issues, rule.Check(root)...)
	}
	return issues
}

// ValidateParallel runs each rule in its own goroutine. Output order is the
// same as Validate because results are gathered per rule index.
func ValidateParallel(root Node) []Issue {
	rules := DefaultRules()
	issues := make([]Issue, 0)
	if root == nil {
		return issues
	}

	results := make([][]Issue, len(rules))
	var g errgroup.Group
	for i, rule := range rules {
		g.Go(func() error {
			results[i] = rule.Check(root)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		issues = append(issues, r...)
	}
	return issues
}

// ValidateHTML parses src and validates it. A parse failure yields zero
// findings instead of an error.
func ValidateHTML(src string) []Issue {
	root, err := Parse(src)
	if err != nil {
		log.Printf("[validate] %v", err)
		return make([]Issue, 0)
	}
	return Validate(root)
}

// Report is the full result of one validation run.
type Report struct {
	Issues  []Issue `json:"issues"`
	Summary Counts  `json:"summary"`
}

// NewReport bundles issues with their severity counts.
func NewReport(issues []Issue) Report {
	if issues == nil {
		issues = make([]Issue, 0)
	}
	return Report{Issues: issues, Summary: Summarize(issues)}
}
