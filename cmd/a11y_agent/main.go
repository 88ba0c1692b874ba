// Package main provides the a11y_agent CLI: colour contrast, markup
// validation, typography and checklist tools, document analysis and the
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:           "a11y_agent",
	Short:         "Accessibility toolkit",
	Long:          "a11y_agent checks colour contrast, HTML accessibility rules, typography and WCAG 2.1 progress, analyzes documents with an LLM, and serves the same tools over HTTP and MCP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
