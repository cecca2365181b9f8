// Package colour provides the colour science core: colour-space conversion,
// WCAG contrast maths, colour-blindness simulation, harmony palettes and
// dominant-colour extraction.
package colour

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a lowercase hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Slice returns the channels as a three element slice, the shape used on the wire.
func (rgb RGB) Slice() []int {
	return []int{int(rgb.R), int(rgb.G), int(rgb.B)}
}

// Color converts the value to an opaque color.RGBA.
func (rgb RGB) Color() color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ParseHex parses a colour in the exact form #RRGGBB (case-insensitive).
func ParseHex(s string) (RGB, error) {
	if !hexPattern.MatchString(s) {
		return RGB{}, fmt.Errorf("%w: %q (expected #RRGGBB)", ErrInvalidColorFormat, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrInvalidColorFormat, s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// ParseHexList parses every entry with ParseHex, failing on the first bad one.
func ParseHexList(values []string) ([]RGB, error) {
	out := make([]RGB, len(values))
	for i, v := range values {
		rgb, err := ParseHex(v)
		if err != nil {
			return nil, err
		}
		out[i] = rgb
	}
	return out, nil
}

// RGBFromInts builds an RGB value, clamping each channel to [0, 255].
func RGBFromInts(r, g, b int) RGB {
	return RGB{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

// RGBFromFloats truncates each channel to an integer, then clamps to [0, 255].
func RGBFromFloats(r, g, b float64) RGB {
	return RGBFromInts(int(r), int(g), int(b))
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// HSV is a colour in hue/saturation/value space. H is normalised to [0, 1)
// (degrees / 360); S and V are in [0, 1].
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// HSL is a colour in hue/saturation/lightness space with the same ranges as HSV.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// NewHSV wraps the hue modulo 1 and clamps saturation and value.
func NewHSV(h, s, v float64) HSV {
	return HSV{H: WrapHue(h), S: clamp01(s), V: clamp01(v)}
}

// NewHSL wraps the hue modulo 1 and clamps saturation and lightness.
func NewHSL(h, s, l float64) HSL {
	return HSL{H: WrapHue(h), S: clamp01(s), L: clamp01(l)}
}

// Slice returns [h, s, v].
func (c HSV) Slice() []float64 { return []float64{c.H, c.S, c.V} }

// Slice returns [h, s, l].
func (c HSL) Slice() []float64 { return []float64{c.H, c.S, c.L} }

// HSV converts to HSV space.
func (rgb RGB) HSV() HSV {
	h, s, v := rgb.colorful().Hsv()
	return NewHSV(h/360, s, v)
}

// HSL converts to HSL space.
func (rgb RGB) HSL() HSL {
	h, s, l := rgb.colorful().Hsl()
	return NewHSL(h/360, s, l)
}

// RGB converts back to 8-bit RGB, rounding each channel.
func (c HSV) RGB() RGB {
	c = NewHSV(c.H, c.S, c.V)
	return fromColorful(colorful.Hsv(c.H*360, c.S, c.V))
}

// RGB converts back to 8-bit RGB, rounding each channel.
func (c HSL) RGB() RGB {
	c = NewHSL(c.H, c.S, c.L)
	return fromColorful(colorful.Hsl(c.H*360, c.S, c.L))
}

func (rgb RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// WrapHue wraps a normalised hue into [0, 1).
func WrapHue(h float64) float64 {
	h = math.Mod(h, 1.0)
	if h < 0 {
		h += 1.0
	}
	if h >= 1.0 {
		h = 0
	}
	return h
}

// HueDistance returns the circular distance between two normalised hues,
// min(|h1-h2|, 1-|h1-h2|), in [0, 0.5].
func HueDistance(h1, h2 float64) float64 {
	diff := math.Abs(WrapHue(h1) - WrapHue(h2))
	return math.Min(diff, 1-diff)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
