package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/fetch"
	"github.com/jonathan/a11y-toolkit/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Check HTML against the accessibility rules",
	Long: `Runs the accessibility rule battery (image alt text, form labels, heading order,
document language, link names, keyboard access, title, table captions, autoplay,
main landmark, new-window warnings) on an HTML file, stdin ("-"), a URL or the
built-in sample document.`,
	Example: `  a11y_agent validate index.html
  a11y_agent validate --sample
  a11y_agent validate --url https://example.com --browser --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	validateSample    bool
	validateURL       string
	validateBrowser   bool
	validateJSON      bool
	validateFailOnErr bool
	validateTimeout   time.Duration
)

func init() {
	validateCmd.Flags().BoolVar(&validateSample, "sample", false, "Validate the built-in sample document")
	validateCmd.Flags().StringVar(&validateURL, "url", "", "Fetch and validate a web page")
	validateCmd.Flags().BoolVar(&validateBrowser, "browser", false, "Render --url in headless Chrome before validating")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the report as JSON")
	validateCmd.Flags().BoolVar(&validateFailOnErr, "fail-on-error", false, "Exit non-zero when error-severity issues are found")
	validateCmd.Flags().DurationVar(&validateTimeout, "timeout", fetch.DefaultTimeout, "Fetch timeout for --url")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	sources := 0
	for _, set := range []bool{validateSample, validateURL != "", len(args) == 1} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("provide exactly one of FILE, --sample or --url")
	}
	if validateBrowser && validateURL == "" {
		return fmt.Errorf("--browser requires --url")
	}

	src, err := validateSource(cmd, args)
	if err != nil {
		return err
	}

	root, err := validation.Parse(src)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}
	report := validation.NewReport(validation.ValidateParallel(root))

	if validateJSON {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printerFor(cmd).PrintValidation(report)
	}

	if validateFailOnErr && report.Summary.Errors > 0 {
		return fmt.Errorf("validation found %d error(s)", report.Summary.Errors)
	}
	return nil
}

func validateSource(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case validateSample:
		return validation.SampleHTML, nil
	case validateURL != "":
		ctx, cancel := context.WithTimeout(cmd.Context(), validateTimeout+5*time.Second)
		defer cancel()

		opts := fetch.DefaultOptions()
		opts.Timeout = validateTimeout
		opts.UseBrowser = validateBrowser
		result, err := fetch.Page(ctx, validateURL, opts)
		if err != nil {
			return "", err
		}
		return result.HTML, nil
	default:
		if args[0] == "-" {
			return readDocument(cmd, "-")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("HTML file not found: %s", args[0])
			}
			return "", fmt.Errorf("failed to read HTML file: %w", err)
		}
		return string(data), nil
	}
}
