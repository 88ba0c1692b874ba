package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-toolkit/internal/typography"
)

var typographyCmd = &cobra.Command{
	Use:   "typography",
	Short: "Check text spacing against WCAG 1.4.8 and 1.4.12",
	Long: `Evaluates font size, line height, letter, word and paragraph spacing, and line
width. Unset or zero values use the defaults (16px, 1.5, 0em, 0em, 1.5em, 80ch).`,
	Example: `  a11y_agent typography --font-size 18 --line-height 1.6 --letter-spacing 0.12`,
	Args:    cobra.NoArgs,
	RunE:    runTypography,
}

var (
	typoSettings typography.Settings
	typoJSON     bool
	typoCSS      bool
)

func init() {
	f := typographyCmd.Flags()
	f.Float64Var(&typoSettings.FontSize, "font-size", typography.DefaultFontSize, "Font size in px")
	f.Float64Var(&typoSettings.LineHeight, "line-height", typography.DefaultLineHeight, "Line height multiplier")
	f.Float64Var(&typoSettings.LetterSpacing, "letter-spacing", 0, "Letter spacing in em")
	f.Float64Var(&typoSettings.WordSpacing, "word-spacing", 0, "Word spacing in em")
	f.Float64Var(&typoSettings.ParagraphSpacing, "paragraph-spacing", typography.DefaultParagraphSpacing, "Paragraph spacing in em")
	f.Float64Var(&typoSettings.MaxWidth, "max-width", typography.DefaultMaxWidth, "Line width in ch")
	f.StringVar(&typoSettings.FontFamily, "font-family", typography.DefaultFontFamily, "Font family for the CSS preview")
	f.BoolVar(&typoJSON, "json", false, "Print the result as JSON")
	f.BoolVar(&typoCSS, "css", false, "Also print the equivalent CSS rule")
	rootCmd.AddCommand(typographyCmd)
}

func runTypography(cmd *cobra.Command, _ []string) error {
	result := typography.Evaluate(typoSettings)

	if typoJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printerFor(cmd).PrintTypography(result)
	if typoCSS {
		fmt.Fprintln(cmd.OutOrStdout(), result.Settings.CSS())
	}
	return nil
}
