package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/checklist"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "List WCAG 2.1 A and AA success criteria",
	Long: `Prints the WCAG 2.1 level A and AA success criteria grouped by principle, with
progress for the criteria passed in --checked.`,
	Example: `  a11y_agent checklist --level AA --principle Operable
  a11y_agent checklist --checked 1.1.1,1.4.3 --status unchecked`,
	Args: cobra.NoArgs,
	RunE: runChecklist,
}

var (
	checklistLevel     string
	checklistPrinciple string
	checklistStatus    string
	checklistChecked   string
	checklistJSON      bool
)

func init() {
	checklistCmd.Flags().StringVar(&checklistLevel, "level", "all", "Filter by level: A, AA or all")
	checklistCmd.Flags().StringVar(&checklistPrinciple, "principle", "all", "Filter by principle: Perceivable, Operable, Understandable, Robust or all")
	checklistCmd.Flags().StringVar(&checklistStatus, "status", "all", "Filter by state: checked, unchecked or all")
	checklistCmd.Flags().StringVar(&checklistChecked, "checked", "", "Comma-separated criterion IDs already met")
	checklistCmd.Flags().BoolVar(&checklistJSON, "json", false, "Print groups and progress as JSON")
	rootCmd.AddCommand(checklistCmd)
}

func runChecklist(cmd *cobra.Command, _ []string) error {
	status := checklist.Status(strings.ToLower(checklistStatus))
	switch status {
	case checklist.StatusAll, checklist.StatusChecked, checklist.StatusUnchecked:
	default:
		return fmt.Errorf("invalid --status %q (use all, checked or unchecked)", checklistStatus)
	}

	checked := map[string]bool{}
	for _, id := range strings.Split(checklistChecked, ",") {
		if id = strings.TrimSpace(id); id != "" {
			checked[id] = true
		}
	}

	groups, err := checklist.Grouped(checklist.Filter{
		Level:     checklistLevel,
		Principle: checklistPrinciple,
		Status:    status,
	}, checked)
	if err != nil {
		return fmt.Errorf("failed to load checklist: %w", err)
	}
	progress, err := checklist.ComputeProgress(checked)
	if err != nil {
		return fmt.Errorf("failed to load checklist: %w", err)
	}

	if checklistJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"groups": groups, "progress": progress})
	}
	printerFor(cmd).PrintChecklist(groups, progress, checked)
	return nil
}
