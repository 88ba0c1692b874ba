package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/color"
)

var contrastCmd = &cobra.Command{
	Use:   "contrast FOREGROUND BACKGROUND",
	Short: "Check the WCAG contrast ratio of two colours",
	Long: `Computes the contrast ratio between a foreground and background colour and reports
AA/AAA compliance for normal and large text. Pairs below 4.5:1 get suggested foregrounds.

Colours may be hex (#fff, #ffffff, #ffffffaa), rgb(r, g, b) or a CSS colour name.`,
	Example: `  a11y_agent contrast "#767676" white
  a11y_agent contrast navy "rgb(240, 240, 240)" --json`,
	Args: cobra.ExactArgs(2),
	RunE: runContrast,
}

var (
	contrastJSON    bool
	contrastFailAAA bool
)

func init() {
	contrastCmd.Flags().BoolVar(&contrastJSON, "json", false, "Print the evaluation as JSON")
	contrastCmd.Flags().BoolVar(&contrastFailAAA, "strict", false, "Exit non-zero unless the pair passes AAA normal text")
	rootCmd.AddCommand(contrastCmd)
}

func runContrast(cmd *cobra.Command, args []string) error {
	fg, bg := args[0], args[1]
	eval := color.Evaluate(fg, bg)

	if contrastJSON {
		if err := writeJSON(cmd.OutOrStdout(), eval); err != nil {
			return err
		}
	} else {
		printerFor(cmd).PrintContrast(fg, bg, eval)
	}

	if !eval.OK() {
		return fmt.Errorf("invalid colour input")
	}
	if contrastFailAAA && !eval.Compliance.AAANormal {
		return fmt.Errorf("contrast %.2f:1 is below AAA (%.1f:1)", *eval.Ratio, color.AAANormalMin)
	}
	return nil
}
