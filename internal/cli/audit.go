package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/server"
)

var (
	auditLevel       string
	auditFormat      string
	auditFailingOnly bool
)

// auditCmd represents the audit command.
var auditCmd = &cobra.Command{
	Use:   "audit <colour> <colour> [colour...]",
	Short: "Check every colour pair of a palette for WCAG contrast",
	Long: `Check every ordered pair of palette colours against the WCAG normal-text
contrast requirement and report the share of pairs that pass.

Examples:
  colorbot audit "#000000" "#ffffff" "#777777"
  colorbot audit "#1e3a5f" "#f4f4f4" "#ff6b35" --level AAA --failing
  colorbot palette "#3366cc" -f hex | xargs colorbot audit`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditLevel, "level", string(colour.LevelAA), "WCAG level (AA, AAA)")
	choiceVarP(auditCmd.Flags(), &auditFormat, "format", "f", "table", "output format", "table", "json")
	auditCmd.Flags().BoolVar(&auditFailingOnly, "failing", false, "only list pairs that fail")
}

func runAudit(cmd *cobra.Command, args []string) error {
	colours, err := colour.ParseHexList(args)
	if err != nil {
		return err
	}
	level, err := colour.ParseWCAGLevel(auditLevel)
	if err != nil {
		return err
	}

	report, err := colour.EvaluatePalette(colours, level)
	if err != nil {
		return err
	}
	verbosef(cmd, "Checked %d combinations at WCAG %s", report.TotalCombinations, report.Level)

	if auditFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	return writeOutput(cmd, "", formatPaletteReport(report, auditFailingOnly))
}

func formatPaletteReport(r *colour.PaletteReport, failingOnly bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d combinations meet WCAG %s (%.1f:1), score %.2f\n\n",
		r.AccessibleCombinations, r.TotalCombinations, r.Level, r.RequiredRatio, r.AccessibilityScore)

	t := NewTable("Foreground", "Background", "Ratio", "Grade", "Passes")
	t.AlignRight(2)
	for _, p := range r.Pairs {
		if failingOnly && p.PassesWCAG {
			continue
		}
		t.AddRow(p.Foreground.Hex(), p.Background.Hex(), fmt.Sprintf("%.2f", p.ContrastRatio), string(p.Grade), yesNo(p.PassesWCAG))
	}
	if t.Len() > 0 {
		sb.WriteString(t.Render())
		sb.WriteString("\n")
	}

	sb.WriteString("Recommendations:\n")
	for _, rec := range server.PaletteRecommendations(r.AccessibilityScore) {
		sb.WriteString("  - " + rec + "\n")
	}
	return sb.String()
}
