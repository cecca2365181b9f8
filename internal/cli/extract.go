package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/image"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/security"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/seed"
)

var (
	extractColours       int
	extractMinPercentage float64
	extractAlgorithm     string
	extractSeedMode      string
	extractSeedValue     int64
	extractFormat        string
	extractOutput        string
	extractShowPreview   bool
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Extract the dominant colours of an image",
	Long: `Extract the dominant colours of an image and report each colour's share.

The image can be a local file, an HTTP(S) URL or a data URI. Large images are
downscaled before clustering. Colours covering less than --min-percentage of
the image are dropped, so fewer than --colours may be returned.

Examples:
  colorbot extract wallpaper.jpg
  colorbot extract -c 8 --min-percentage 0.02 wallpaper.png
  colorbot extract https://example.com/hero.webp -f json -o hero.json
  colorbot extract photo.jpg -a prominent --preview
  colorbot extract photo.jpg --seed-mode content`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	def := colour.DefaultDominantOptions()
	extractCmd.Flags().IntVarP(&extractColours, "colours", "c", def.K,
		fmt.Sprintf("number of colours to extract (%d-%d)", colour.MinDominantColours, colour.MaxDominantColours))
	extractCmd.Flags().Float64Var(&extractMinPercentage, "min-percentage", def.MinPercentage,
		fmt.Sprintf("drop colours below this share of the image (%g-%g)", colour.MinPercentageFloor, colour.MinPercentageCeil))
	choiceVarP(extractCmd.Flags(), &extractAlgorithm, "algorithm", "a", string(def.Algorithm),
		"extraction algorithm", stringsOf(colour.ValidAlgorithms())...)
	choiceVarP(extractCmd.Flags(), &extractSeedMode, "seed-mode", "", string(seed.ModeFixed),
		"k-means seed mode", stringsOf(seed.ValidModes())...)
	extractCmd.Flags().Int64Var(&extractSeedValue, "seed", seed.DefaultValue, "seed value (implies --seed-mode manual)")
	choiceVarP(extractCmd.Flags(), &extractFormat, "format", "f", "table", "output format", "table", "hex", "rgb", "json")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write output to a file instead of stdout")
	extractCmd.Flags().BoolVar(&extractShowPreview, "preview", false, "show colour swatches when stdout is a 24-bit terminal")
}

func runExtract(cmd *cobra.Command, args []string) error {
	source := args[0]

	mode, err := seed.ParseMode(extractSeedMode)
	if err != nil {
		return err
	}
	var manual *int64
	if cmd.Flags().Changed("seed") {
		mode = seed.ModeManual
		manual = &extractSeedValue
	}

	loader := image.NewSmartLoader(image.LoaderOptions{
		FetchTimeout: cfg.ImageFetchTimeout,
		MaxBytes:     cfg.ImageMaxBytes,
		MaxPixels:    cfg.ImageMaxPixels,
		URLPolicy:    security.URLPolicy{AllowPrivateHosts: true},
		CacheDir:     cfg.ImageCacheDir,
	})

	verbosef(cmd, "Loading image: %s", source)
	img, err := loader.Load(cmd.Context(), source)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	verbosef(cmd, "Image loaded: %dx%d", bounds.Dx(), bounds.Dy())

	seedValue, err := seed.Calculate(img, source, seed.Config{Mode: mode, Value: manual})
	if err != nil {
		return fmt.Errorf("failed to calculate seed: %w", err)
	}
	logger.Debug("extracting colours", "source", source, "k", extractColours, "algorithm", extractAlgorithm, "seed", seedValue)

	result, err := colour.ExtractDominant(img, colour.DominantOptions{
		K:             extractColours,
		MinPercentage: extractMinPercentage,
		Algorithm:     colour.Algorithm(extractAlgorithm),
		Seed:          seedValue,
	})
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}
	verbosef(cmd, "Extracted %d colours from %dx%d pixels", len(result.Colors), result.Width, result.Height)

	output, err := formatExtraction(result, extractFormat, previewEnabled(cmd, extractShowPreview, extractOutput))
	if err != nil {
		return err
	}
	return writeOutput(cmd, extractOutput, output)
}

// formatExtraction renders an extraction as table, hex, rgb or json.
func formatExtraction(result *colour.Extraction, format string, showPreview bool) (string, error) {
	var sb strings.Builder
	switch format {
	case "hex", "rgb":
		for _, c := range result.Colors {
			value := c.Hex
			if format == "rgb" {
				value = c.RGB.String()
			}
			if showPreview {
				value = colour.FormatColourWithLabel(c.RGB, value, 4)
			}
			sb.WriteString(value + "\n")
		}
	case "json":
		if err := writeJSON(&sb, result); err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
	case "table", "":
		headers := []string{"#", "Hex", "RGB", "Share", "Name"}
		if showPreview {
			headers = append([]string{"Colour"}, headers...)
		}
		t := NewTable(headers...)
		if showPreview {
			t.AlignRight(1, 4)
		} else {
			t.AlignRight(0, 3)
		}
		for i, c := range result.Colors {
			row := []string{strconv.Itoa(i + 1), c.Hex, c.RGB.String(), percent(c.Percentage), c.Name}
			if showPreview {
				row = append([]string{colour.ColourPreview(c.RGB, 6)}, row...)
			}
			t.AddRow(row...)
		}
		sb.WriteString(t.Render())
		if len(result.Colors) == 0 {
			sb.WriteString("no colour reached the minimum share\n")
		}
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
	return sb.String(), nil
}
