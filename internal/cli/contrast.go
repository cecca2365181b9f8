package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/server"
)

var (
	contrastTextSize    string
	contrastLevel       string
	contrastColourBlind bool
	contrastFormat      string
)

// contrastCmd represents the contrast command.
var contrastCmd = &cobra.Command{
	Use:   "contrast <foreground> <background>",
	Short: "Check the WCAG contrast of a text/background pair",
	Long: `Compute the WCAG 2.1 contrast ratio of a foreground and background colour,
report which conformance levels it meets, and repeat the check as seen with
protanopia, deuteranopia, tritanopia and achromatopsia.

Required ratios: AA 4.5 (normal) / 3.0 (large), AAA 7.0 (normal) / 4.5 (large).
The command exits non-zero only on invalid input, not on a failing pair.

Examples:
  colorbot contrast "#333333" "#ffffff"
  colorbot contrast "#767676" "#ffffff" --level AAA --text-size large
  colorbot contrast "#ff0000" "#00ff00" -f json`,
	Args: cobra.ExactArgs(2),
	RunE: runContrast,
}

func init() {
	contrastCmd.Flags().StringVar(&contrastTextSize, "text-size", string(colour.TextNormal), "text size (normal, large)")
	contrastCmd.Flags().StringVar(&contrastLevel, "level", string(colour.LevelAA), "WCAG level (AA, AAA)")
	contrastCmd.Flags().BoolVar(&contrastColourBlind, "colourblind", true, "also check simulated colour blindness")
	choiceVarP(contrastCmd.Flags(), &contrastFormat, "format", "f", "table", "output format", "table", "json")
}

func runContrast(cmd *cobra.Command, args []string) error {
	fg, err := colour.ParseHex(args[0])
	if err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	bg, err := colour.ParseHex(args[1])
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	level, err := colour.ParseWCAGLevel(contrastLevel)
	if err != nil {
		return err
	}
	size, err := colour.ParseTextSize(contrastTextSize)
	if err != nil {
		return err
	}

	report, err := colour.Evaluate(fg, bg, colour.AccessibilityOptions{
		TextSize:         size,
		Level:            level,
		CheckColourBlind: contrastColourBlind,
	})
	if err != nil {
		return err
	}
	logger.Debug("evaluated contrast", "foreground", fg.Hex(), "background", bg.Hex(), "ratio", report.Contrast.Ratio)

	if contrastFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	return writeOutput(cmd, "", formatContrastReport(report))
}

func formatContrastReport(r *colour.Report) string {
	var sb strings.Builder

	status := "PASS"
	if !r.Passes {
		status = "FAIL"
	}
	fmt.Fprintf(&sb, "%s on %s: %.2f:1 (%s)\n", r.Foreground.Hex(), r.Background.Hex(), r.Contrast.Ratio, r.Contrast.Grade)
	fmt.Fprintf(&sb, "WCAG %s %s text needs %.1f:1: %s\n\n", r.Level, r.TextSize, r.RequiredRatio, status)

	levels := NewTable("Level", "Normal text", "Large text")
	levels.AddRow("AA", yesNo(r.Contrast.PassesAANormal), yesNo(r.Contrast.PassesAALarge))
	levels.AddRow("AAA", yesNo(r.Contrast.PassesAAANormal), yesNo(r.Contrast.PassesAAALarge))
	sb.WriteString(levels.Render())

	if len(r.ColourBlind) > 0 {
		sb.WriteString("\n")
		cb := NewTable("Simulation", "Foreground", "Background", "Ratio", "Passes")
		cb.AlignRight(3)
		for _, c := range r.ColourBlind {
			cb.AddRow(string(c.Type), c.SimulatedForeground.Hex(), c.SimulatedBackground.Hex(),
				fmt.Sprintf("%.2f", c.ContrastRatio), yesNo(c.PassesWCAG))
		}
		sb.WriteString(cb.Render())
	}

	sb.WriteString("\nRecommendations:\n")
	for _, rec := range server.ContrastRecommendations(r.Contrast.Ratio, r.Level, r.TextSize, r.Passes) {
		sb.WriteString("  - " + rec + "\n")
	}
	return sb.String()
}
