// Package checklist provides the WCAG 2.1 Level A and AA success criteria
// catalogue with filtering and progress tracking.
package checklist

import (
	_ "embed"
	"fmt"
	"math"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed criteria.yaml
var criteriaYAML []byte

// Principles lists the four WCAG principles in display order.
var Principles = []string{"Perceivable", "Operable", "Understandable", "Robust"}

// Criterion is one WCAG success criterion.
type Criterion struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Level       string `yaml:"level" json:"level"`
	Principle   string `yaml:"principle" json:"principle"`
	Description string `yaml:"description" json:"description"`
}

var (
	loadOnce sync.Once
	criteria []Criterion
	loadErr  error
)

// All returns the full catalogue in WCAG order. The returned slice is a copy.
func All() ([]Criterion, error) {
	loadOnce.Do(func() {
		criteria, loadErr = parse(criteriaYAML)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]Criterion, len(criteria))
	copy(out, criteria)
	return out, nil
}

func parse(data []byte) ([]Criterion, error) {
	var list []Criterion
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse criteria catalogue: %w", err)
	}
	for i, c := range list {
		if c.ID == "" || c.Title == "" {
			return nil, fmt.Errorf("criterion %d is missing id or title", i)
		}
		if c.Level != "A" && c.Level != "AA" {
			return nil, fmt.Errorf("criterion %s has unknown level %q", c.ID, c.Level)
		}
	}
	return list, nil
}

// Status filters criteria by checked state.
type Status string

const (
	StatusAll       Status = "all"
	StatusChecked   Status = "checked"
	StatusUnchecked Status = "unchecked"
)

// Filter selects criteria. Empty fields and "all" match everything.
type Filter struct {
	Level     string `json:"level,omitempty"`
	Principle string `json:"principle,omitempty"`
	Status    Status `json:"status,omitempty"`
}

func (f Filter) matches(c Criterion, checked map[string]bool) bool {
	if f.Level != "" && f.Level != "all" && !strings.EqualFold(c.Level, f.Level) {
		return false
	}
	if f.Principle != "" && f.Principle != "all" && !strings.EqualFold(c.Principle, f.Principle) {
		return false
	}
	switch f.Status {
	case StatusChecked:
		return checked[c.ID]
	case StatusUnchecked:
		return !checked[c.ID]
	}
	return true
}

// Group is the criteria of one principle.
type Group struct {
	Principle string      `json:"principle"`
	Criteria  []Criterion `json:"criteria"`
}

// Grouped applies f and groups matches by principle. Principles with no
// matches are omitted.
func Grouped(f Filter, checked map[string]bool) ([]Group, error) {
	all, err := All()
	if err != nil {
		return nil, err
	}
	groups := make([]Group, 0, len(Principles))
	for _, p := range Principles {
		var items []Criterion
		for _, c := range all {
			if c.Principle == p && f.matches(c, checked) {
				items = append(items, c)
			}
		}
		if len(items) > 0 {
			groups = append(groups, Group{Principle: p, Criteria: items})
		}
	}
	return groups, nil
}

// Progress is the completion state of the checklist.
type Progress struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// String renders e.g. "12 / 46 completed (26%)".
func (p Progress) String() string {
	return fmt.Sprintf("%d / %d completed (%d%%)", p.Done, p.Total, p.Percent)
}

// ComputeProgress counts checked catalogue entries. Unknown IDs are ignored.
func ComputeProgress(checked map[string]bool) (Progress, error) {
	all, err := All()
	if err != nil {
		return Progress{}, err
	}
	p := Progress{Total: len(all)}
	for _, c := range all {
		if checked[c.ID] {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Floor(float64(p.Done)/float64(p.Total)*100 + 0.5))
	}
	return p, nil
}
