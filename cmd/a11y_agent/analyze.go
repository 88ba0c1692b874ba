package main

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/analysis"
	"github.com/jonathan/a11y-toolkit/internal/cache"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Review a document for accessibility issues with an LLM",
	Long: `Sends the text of a PDF or plain-text document to the configured LLM provider
and prints a scored list of accessibility issues with WCAG references.

Results are cached by document text for CACHE_TTL (Redis when REDIS_URL is set).`,
	Example: `  a11y_agent analyze report.pdf
  a11y_agent analyze notes.txt --provider openai --json --out analysis.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeLLM    llmFlags
	analyzeJSON   bool
	analyzeOutput string
)

func init() {
	analyzeLLM.register(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "Also write the analysis JSON to this file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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
		return &analysis.InputError{Message: "No text provided for analysis."}
	}

	client, err := analyzeLLM.client(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	c, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("[analyze] cache unavailable, continuing without it: %v", err)
	} else {
		defer func() { _ = c.Close() }()
	}

	if cfg.Verbose {
		log.Printf("[analyze] using %s (%s)", client.Provider(), client.Model())
	}
	report, err := analysis.NewService(client, c).WithTTL(cfg.CacheTTL).Analyze(ctx, analysis.AnalyzeInput{
		Text:     text,
		Filename: filepath.Base(args[0]),
	})
	if err != nil {
		return err
	}

	if analyzeOutput != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		if err := writeOutput(analyzeOutput, data); err != nil {
			return err
		}
	}

	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	printerFor(cmd).PrintAnalysis(report)
	if analyzeOutput != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Analysis written to %s\n", analyzeOutput)
	}
	return nil
}
