package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	termcolor "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/config"
	"github.com/jonathan/a11y-toolkit/internal/llm"
	"github.com/jonathan/a11y-toolkit/internal/observability"
	"github.com/jonathan/a11y-toolkit/internal/pdftext"
)

// newLLMClient is swapped out in tests.
var newLLMClient = llm.NewClient

// loadConfig reads --config plus the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printerFor colours output only when writing to a terminal stdout.
func printerFor(cmd *cobra.Command) *observability.Printer {
	out := cmd.OutOrStdout()
	useColor := !noColor && !termcolor.NoColor && out == os.Stdout
	return observability.NewPrinter(out).WithColor(useColor)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// readDocument returns the text of a PDF or plain-text file. "-" reads stdin.
func readDocument(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		result, err := pdftext.ExtractFile(path)
		if err != nil {
			return "", err
		}
		if result.Scanned {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: very little text found; this appears to be a scanned PDF")
		}
		return result.Text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// llmFlags are shared by analyze and generate.
type llmFlags struct {
	provider string
	model    string
	apiKey   string
}

func (f *llmFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider: anthropic, openai or gemini (overrides LLM_PROVIDER)")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name (overrides LLM_MODEL)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key (overrides the provider's environment variable)")
}

// client builds an LLM client from config with flag overrides.
func (f *llmFlags) client(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if f.provider != "" {
		if f.provider != cfg.Provider {
			cfg.Model = ""
			cfg.BaseURL = ""
		}
		cfg.Provider = f.provider
	}
	if f.model != "" {
		cfg.Model = f.model
	}
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}

	apiKey := f.apiKey
	if apiKey == "" {
		apiKey = cfg.APIKey(llmCfg.Provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for %s (set %s or use --api-key)", llmCfg.Provider, apiKeyEnv(llmCfg.Provider))
	}
	return newLLMClient(ctx, llmCfg, apiKey)
}

func apiKeyEnv(p llm.Provider) string {
	switch p {
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case llm.ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "ANTHROPIC_API_KEY"
	}
}
