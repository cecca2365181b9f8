package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/server"
)

var (
	paletteType        string
	paletteCount       int
	paletteSaturation  colour.Range
	paletteLightness   colour.Range
	paletteSeed        int64
	paletteFormat      string
	paletteOutput      string
	paletteShowPreview bool
	paletteListTypes   bool
)

// paletteCmd represents the palette command.
var paletteCmd = &cobra.Command{
	Use:   "palette <base-colour>",
	Short: "Generate a harmonious palette from a base colour",
	Long: `Generate a palette around a base colour using colour-wheel harmony rules.

The base colour must be #RRGGBB. Saturation and lightness of generated colours
stay inside the given ranges. Variation is random unless --seed is set.

Palette types:
  monochromatic        one hue, varied lightness
  analogous            neighbouring hues
  complementary        base and its opposite
  triadic              three evenly spaced hues
  tetradic             four evenly spaced hues
  split_complementary  base and the two hues beside its opposite

Examples:
  colorbot palette "#3366cc"
  colorbot palette "#ff5733" -t triadic -n 6 --preview
  colorbot palette "#1e90ff" -t analogous --saturation 0.4,0.7 --seed 7 -f json
  colorbot palette --list-types`,
	Args: func(cmd *cobra.Command, args []string) error {
		if paletteListTypes {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runPalette,
}

func init() {
	def := colour.DefaultGenerateOptions(colour.Complementary)
	choiceVarP(paletteCmd.Flags(), &paletteType, "type", "t", string(def.Type), "palette type", stringsOf(colour.PaletteTypes())...)
	paletteCmd.Flags().IntVarP(&paletteCount, "count", "n", def.Count,
		fmt.Sprintf("number of colours (%d-%d)", colour.MinPaletteColours, colour.MaxPaletteColours))
	paletteCmd.Flags().Var(newRangeFlag(&paletteSaturation, def.Saturation), "saturation", "saturation range within [0,1]")
	paletteCmd.Flags().Var(newRangeFlag(&paletteLightness, def.Lightness), "lightness", "lightness (HSV value) range within [0,1]")
	paletteCmd.Flags().Int64Var(&paletteSeed, "seed", 0, "seed for reproducible variation")
	choiceVarP(paletteCmd.Flags(), &paletteFormat, "format", "f", "table", "output format", "table", "hex", "json")
	paletteCmd.Flags().StringVarP(&paletteOutput, "output", "o", "", "write output to a file instead of stdout")
	paletteCmd.Flags().BoolVar(&paletteShowPreview, "preview", false, "show colour swatches when stdout is a 24-bit terminal")
	paletteCmd.Flags().BoolVar(&paletteListTypes, "list-types", false, "list palette types and exit")
}

func runPalette(cmd *cobra.Command, args []string) error {
	if paletteListTypes {
		return writeOutput(cmd, paletteOutput, formatPaletteTypes())
	}

	base, err := colour.ParseHex(args[0])
	if err != nil {
		return err
	}
	pt, err := colour.ParsePaletteType(paletteType)
	if err != nil {
		return err
	}

	opts := colour.GenerateOptions{
		Type:       pt,
		Count:      paletteCount,
		Saturation: paletteSaturation,
		Lightness:  paletteLightness,
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = &paletteSeed
	}

	verbosef(cmd, "Generating %d-colour %s palette from %s", opts.Count, pt, base.Hex())
	palette, err := colour.Generate(base, opts)
	if err != nil {
		return fmt.Errorf("failed to generate palette: %w", err)
	}
	logger.Debug("generated palette", "type", pt, "colours", palette.Len(), "harmony", palette.HarmonyScore)

	output, err := formatPalette(palette, paletteFormat, previewEnabled(cmd, paletteShowPreview, paletteOutput))
	if err != nil {
		return err
	}
	return writeOutput(cmd, paletteOutput, output)
}

// formatPalette renders a palette as table, hex or json.
func formatPalette(p *colour.HarmonyPalette, format string, showPreview bool) (string, error) {
	var sb strings.Builder
	switch format {
	case "hex":
		for _, c := range p.Colors {
			if showPreview {
				sb.WriteString(colour.FormatColourWithLabel(c.RGB, c.Hex, 4) + "\n")
				continue
			}
			sb.WriteString(c.Hex + "\n")
		}
	case "json":
		data, err := p.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		sb.Write(data)
		sb.WriteString("\n")
	case "table", "":
		fmt.Fprintf(&sb, "%s palette from %s (harmony score %.2f)\n\n", p.Type, p.Base, p.HarmonyScore)

		t := NewTable("Role", "Hex", "RGB", "HSV", "Name")
		for _, c := range p.Colors {
			role := string(c.Role)
			if showPreview {
				role = colour.ColourPreview(c.RGB, 4) + " " + role
			}
			t.AddRow(role, c.Hex, c.RGB.String(), formatHSV(c.HSV), c.Name)
		}
		sb.WriteString(t.Render())

		sb.WriteString("\nUsage suggestions:\n")
		for _, s := range server.UsageSuggestions(p.Type) {
			sb.WriteString("  - " + s + "\n")
		}
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
	return sb.String(), nil
}

func formatHSV(hsv colour.HSV) string {
	return fmt.Sprintf("%.0f°, %.0f%%, %.0f%%", hsv.H*360, hsv.S*100, hsv.V*100)
}

func formatPaletteTypes() string {
	t := NewTable("Type", "Description")
	t.SetColumnMaxWidth(1, 60)
	for _, pt := range colour.PaletteTypes() {
		t.AddRow(string(pt), pt.Description())
	}
	return t.Render()
}
