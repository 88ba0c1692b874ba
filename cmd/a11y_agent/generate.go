package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/analysis"
	"github.com/jonathan/a11y-toolkit/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate FILE",
	Short: "Convert a document into accessible HTML with an LLM",
	Long: `Asks the configured LLM provider to rewrite a PDF or plain-text document as a
complete, accessible HTML page. Pass --issues with the JSON written by
"analyze --out" so the generated page resolves those findings.`,
	Example: `  a11y_agent analyze report.pdf --out analysis.json
  a11y_agent generate report.pdf --issues analysis.json --out report.html`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var (
	generateLLM    llmFlags
	generateIssues string
	generateOutput string
)

func init() {
	generateLLM.register(generateCmd)
	generateCmd.Flags().StringVar(&generateIssues, "issues", "", "Analysis JSON (report or issue array) to resolve")
	generateCmd.Flags().StringVarP(&generateOutput, "out", "o", "", "Write the HTML to this file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return &analysis.InputError{Message: "No text provided for generation."}
	}

	var issues []types.AnalysisIssue
	if generateIssues != "" {
		issues, err = loadIssues(generateIssues)
		if err != nil {
			return err
		}
	}

	client, err := generateLLM.client(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	html, err := analysis.Generate(ctx, client, analysis.GenerateInput{
		Text:     text,
		Issues:   issues,
		Filename: filepath.Base(args[0]),
	})
	if err != nil {
		return err
	}

	if generateOutput == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), html)
		return err
	}
	if err := writeOutput(generateOutput, []byte(html)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "HTML written to %s\n", generateOutput)
	return nil
}

// loadIssues accepts either a full analysis report or a bare issue array.
func loadIssues(path string) ([]types.AnalysisIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read issues file: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var issues []types.AnalysisIssue
		if err := json.Unmarshal(data, &issues); err != nil {
			return nil, fmt.Errorf("failed to parse issues file: %w", err)
		}
		return issues, nil
	}
	var report types.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse issues file: %w", err)
	}
	return report.Issues, nil
}
