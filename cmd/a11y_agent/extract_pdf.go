package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/pdftext"
)

var extractPDFCmd = &cobra.Command{
	Use:   "extract-pdf FILE",
	Short: "Extract plain text from a PDF",
	Long:  "Extracts the text layer of a PDF page by page. Scanned PDFs without a text layer are reported.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractPDF,
}

var (
	extractOutput string
	extractJSON   bool
)

func init() {
	extractPDFCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Write the extracted text to this file")
	extractPDFCmd.Flags().BoolVar(&extractJSON, "json", false, "Print text, page count and scanned flag as JSON")
	rootCmd.AddCommand(extractPDFCmd)
}

func runExtractPDF(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("PDF file not found: %s", path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	result, err := pdftext.ExtractFile(path)
	if err != nil {
		return err
	}

	if extractOutput != "" {
		if err := writeOutput(extractOutput, []byte(result.Text)); err != nil {
			return err
		}
	}

	if extractJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printerFor(cmd).PrintExtraction(path, info.Size(), result)
	if extractOutput != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Text written to %s\n", extractOutput)
	}
	return nil
}
