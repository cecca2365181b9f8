package colour

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// PaletteType is a colour-harmony rule used to derive a palette from a base colour.
type PaletteType string

const (
	Monochromatic      PaletteType = "monochromatic"
	Analogous          PaletteType = "analogous"
	Complementary      PaletteType = "complementary"
	Triadic            PaletteType = "triadic"
	Tetradic           PaletteType = "tetradic"
	SplitComplementary PaletteType = "split_complementary"
)

// PaletteTypes returns every supported harmony type.
func PaletteTypes() []PaletteType {
	return []PaletteType{Monochromatic, Analogous, Complementary, Triadic, Tetradic, SplitComplementary}
}

// ParsePaletteType parses a harmony type name. Hyphens are accepted in place
// of underscores ("split-complementary").
func ParsePaletteType(s string) (PaletteType, error) {
	pt := PaletteType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, valid := range PaletteTypes() {
		if pt == valid {
			return pt, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %v)", ErrInvalidPaletteType, s, PaletteTypes())
}

// Description returns a one-line explanation of the harmony rule.
func (t PaletteType) Description() string {
	switch t {
	case Monochromatic:
		return "Single hue with varying saturation and lightness"
	case Analogous:
		return "Colors adjacent on the color wheel"
	case Complementary:
		return "Colors opposite on the color wheel"
	case Triadic:
		return "Three colors evenly spaced on the color wheel"
	case Tetradic:
		return "Four colors forming a square on the color wheel"
	case SplitComplementary:
		return "Base color plus two colors adjacent to its complement"
	default:
		return "Color harmony palette"
	}
}

// anchors returns the hue offsets (in turns) that define the harmony.
func (t PaletteType) anchors() []float64 {
	switch t {
	case Complementary:
		return []float64{0, 0.5}
	case Triadic:
		return []float64{0, 1.0 / 3.0, 2.0 / 3.0}
	case Tetradic:
		return []float64{0, 0.25, 0.5, 0.75}
	case SplitComplementary:
		return []float64{0, 150.0 / 360.0, 210.0 / 360.0}
	default:
		return []float64{0}
	}
}

// Role is the suggested use of a palette entry, assigned by position.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
	RoleAccent    Role = "accent"
	RoleHighlight Role = "highlight"
	RoleNeutral   Role = "neutral"
)

var roleCycle = []Role{RolePrimary, RoleSecondary, RoleAccent, RoleHighlight, RoleNeutral}

// RoleAt returns the role for the palette entry at index i.
func RoleAt(i int) Role {
	return roleCycle[i%len(roleCycle)]
}

// Range is a closed [Min, Max] interval inside [0, 1].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate checks 0 <= Min <= Max <= 1.
func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min < 0 || r.Max > 1 || r.Min > r.Max {
		return fmt.Errorf("%w: range [%g, %g] must satisfy 0 <= min <= max <= 1", ErrInvalidParameter, r.Min, r.Max)
	}
	return nil
}

// Lerp interpolates between Min and Max; t is expected in [0, 1].
func (r Range) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// RangeFromSlice converts a two-element [min, max] slice.
func RangeFromSlice(v []float64) (Range, error) {
	if len(v) != 2 {
		return Range{}, fmt.Errorf("%w: range needs exactly 2 values, got %d", ErrInvalidParameter, len(v))
	}
	r := Range{Min: v[0], Max: v[1]}
	return r, r.Validate()
}

// Palette size limits.
const (
	MinPaletteColours = 2
	MaxPaletteColours = 12
)

// GenerateOptions configures Generate.
type GenerateOptions struct {
	Type       PaletteType
	Count      int
	Saturation Range
	Lightness  Range

	// Seed fixes the sampling of saturation/value for the non-monochromatic
	// types. Nil uses a time-based seed.
	Seed *int64
}

// DefaultGenerateOptions returns the defaults for a harmony type.
func DefaultGenerateOptions(t PaletteType) GenerateOptions {
	return GenerateOptions{
		Type:       t,
		Count:      5,
		Saturation: Range{Min: 0.3, Max: 0.9},
		Lightness:  Range{Min: 0.2, Max: 0.8},
	}
}

// Validate checks the options without generating anything.
func (o GenerateOptions) Validate() error {
	if _, err := ParsePaletteType(string(o.Type)); err != nil {
		return err
	}
	if o.Count < MinPaletteColours || o.Count > MaxPaletteColours {
		return fmt.Errorf("%w: color count must be between %d and %d, got %d",
			ErrInvalidParameter, MinPaletteColours, MaxPaletteColours, o.Count)
	}
	if err := o.Saturation.Validate(); err != nil {
		return fmt.Errorf("saturation: %w", err)
	}
	if err := o.Lightness.Validate(); err != nil {
		return fmt.Errorf("lightness: %w", err)
	}
	return nil
}

// PaletteColour is one generated palette entry.
type PaletteColour struct {
	Hex  string `json:"hex"`
	RGB  RGB    `json:"rgb"`
	HSV  HSV    `json:"hsv"`
	HSL  HSL    `json:"hsl"`
	Name string `json:"color_name"`
	Role Role   `json:"role"`
}

// HarmonyPalette is the result of Generate.
type HarmonyPalette struct {
	Type         PaletteType     `json:"palette_type"`
	Base         string          `json:"base_color"`
	Colors       []PaletteColour `json:"colors"`
	HarmonyScore float64         `json:"harmony_score"`
}

// Len returns the number of colours in the palette.
func (p *HarmonyPalette) Len() int {
	return len(p.Colors)
}

// RGBs returns the palette colours in order.
func (p *HarmonyPalette) RGBs() []RGB {
	out := make([]RGB, len(p.Colors))
	for i, c := range p.Colors {
		out[i] = c.RGB
	}
	return out
}

// ToHex returns the palette colours as hex strings.
func (p *HarmonyPalette) ToHex() []string {
	out := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		out[i] = c.Hex
	}
	return out
}

// ToJSON converts the palette to indented JSON.
func (p *HarmonyPalette) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Generate derives a palette from base using the harmony rule in opts.
//
// Hues are fully determined by the rule. The monochromatic type interpolates
// saturation and value linearly across the ranges; every other type keeps the
// base colour's saturation and value for its anchor hues and samples the
// ranges for additional entries.
func Generate(base RGB, opts GenerateOptions) (*HarmonyPalette, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	// #nosec G404 -- palette sampling is not security sensitive
	rng := rand.New(rand.NewSource(seed))

	hsv := base.HSV()
	var colours []RGB
	switch opts.Type {
	case Monochromatic:
		colours = monochromatic(hsv, opts)
	case Analogous:
		colours = analogous(hsv, opts, rng)
	default:
		colours = anchored(base, hsv, opts, rng)
	}

	palette := &HarmonyPalette{
		Type:         opts.Type,
		Base:         base.Hex(),
		Colors:       make([]PaletteColour, len(colours)),
		HarmonyScore: HarmonyScore(colours),
	}
	for i, c := range colours {
		palette.Colors[i] = PaletteColour{
			Hex:  c.Hex(),
			RGB:  c,
			HSV:  c.HSV(),
			HSL:  c.HSL(),
			Name: HueName(c),
			Role: RoleAt(i),
		}
	}
	return palette, nil
}

func monochromatic(base HSV, opts GenerateOptions) []RGB {
	out := make([]RGB, opts.Count)
	for i := range out {
		t := float64(i) / float64(opts.Count-1)
		out[i] = NewHSV(base.H, opts.Saturation.Lerp(t), opts.Lightness.Lerp(t)).RGB()
	}
	return out
}

// analogous spreads hues over a 60 degree window centred on the base hue.
func analogous(base HSV, opts GenerateOptions, rng *rand.Rand) []RGB {
	const window = 60.0 / 360.0
	step := window / float64(opts.Count)

	out := make([]RGB, opts.Count)
	for i := range out {
		offset := float64(i-opts.Count/2) * step
		out[i] = NewHSV(base.H+offset, opts.Saturation.Lerp(rng.Float64()), opts.Lightness.Lerp(rng.Float64())).RGB()
	}
	return out
}

// anchored handles the rules built from fixed hue offsets: the base colour,
// then the remaining anchors at the base saturation/value, then sampled
// variations cycling through the anchors.
func anchored(base RGB, hsv HSV, opts GenerateOptions, rng *rand.Rand) []RGB {
	anchors := opts.Type.anchors()

	out := make([]RGB, 0, max(opts.Count, len(anchors)))
	out = append(out, base)
	for _, offset := range anchors[1:] {
		out = append(out, NewHSV(hsv.H+offset, hsv.S, hsv.V).RGB())
	}
	for i := 0; len(out) < opts.Count; i++ {
		offset := anchors[i%len(anchors)]
		out = append(out, NewHSV(hsv.H+offset, opts.Saturation.Lerp(rng.Float64()), opts.Lightness.Lerp(rng.Float64())).RGB())
	}

	return out[:opts.Count]
}

// HarmonyScore rates how close the average pairwise hue distance of colours
// is to the 120 degree ideal. Palettes with fewer than two colours score 1.
func HarmonyScore(colours []RGB) float64 {
	if len(colours) < 2 {
		return 1.0
	}

	hues := make([]float64, len(colours))
	for i, c := range colours {
		hues[i] = c.HSV().H
	}

	total, pairs := 0.0, 0
	for i := range hues {
		for j := i + 1; j < len(hues); j++ {
			total += HueDistance(hues[i], hues[j])
			pairs++
		}
	}

	const ideal = 1.0 / 3.0
	avg := total / float64(pairs)
	return clamp01(1.0 - math.Abs(avg-ideal)/ideal)
}
