package colour

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{name: "red", color: color.RGBA{R: 255, A: 255}, want: RGB{R: 255}},
		{name: "green", color: color.RGBA{G: 255, A: 255}, want: RGB{G: 255}},
		{name: "blue", color: color.RGBA{B: 255, A: 255}, want: RGB{B: 255}},
		{name: "white", color: color.White, want: RGB{R: 255, G: 255, B: 255}},
		{name: "black", color: color.Black, want: RGB{}},
		{name: "nrgba", color: color.NRGBA{R: 18, G: 52, B: 86, A: 255}, want: RGB{R: 18, G: 52, B: 86}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want string
	}{
		{name: "red", rgb: RGB{R: 255}, want: "#ff0000"},
		{name: "white", rgb: RGB{R: 255, G: 255, B: 255}, want: "#ffffff"},
		{name: "black", rgb: RGB{}, want: "#000000"},
		{name: "grey", rgb: RGB{R: 128, G: 128, B: 128}, want: "#808080"},
		{name: "mixed", rgb: RGB{R: 0x34, G: 0x98, B: 0xdb}, want: "#3498db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rgb.Hex(); got != tt.want {
				t.Errorf("Hex() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRGBString(t *testing.T) {
	rgb := RGB{R: 255, G: 87, B: 51}
	if got, want := rgb.String(), "rgb(255, 87, 51)"; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
	if got := rgb.Slice(); len(got) != 3 || got[0] != 255 || got[1] != 87 || got[2] != 51 {
		t.Errorf("Slice() = %v, want [255 87 51]", got)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		input   string
		want    RGB
		wantErr bool
	}{
		{input: "#FF5733", want: RGB{R: 255, G: 87, B: 51}},
		{input: "#ff5733", want: RGB{R: 255, G: 87, B: 51}},
		{input: "#000000", want: RGB{}},
		{input: "#FFFFFF", want: RGB{R: 255, G: 255, B: 255}},
		{input: "FF5733", wantErr: true},
		{input: "#FFF", wantErr: true},
		{input: "#GG5733", wantErr: true},
		{input: "#FF57331", wantErr: true},
		{input: "", wantErr: true},
		{input: " #FF5733", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColorFormat) {
					t.Fatalf("ParseHex(%q) error = %v, want ErrInvalidColorFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, rgb := range []RGB{{}, {R: 1, G: 2, B: 3}, {R: 255, G: 128, B: 7}, {R: 255, G: 255, B: 255}} {
		got, err := ParseHex(rgb.Hex())
		if err != nil {
			t.Fatalf("ParseHex(%s): %v", rgb.Hex(), err)
		}
		if got != rgb {
			t.Errorf("round trip %+v -> %s -> %+v", rgb, rgb.Hex(), got)
		}
	}
}

func TestRGBFromInts(t *testing.T) {
	if got, want := RGBFromInts(-10, 128, 300), (RGB{R: 0, G: 128, B: 255}); got != want {
		t.Errorf("RGBFromInts() = %+v, want %+v", got, want)
	}
	if got, want := RGBFromFloats(12.9, 255.7, -0.5), (RGB{R: 12, G: 255, B: 0}); got != want {
		t.Errorf("RGBFromFloats() = %+v, want %+v", got, want)
	}
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want HSV
	}{
		{name: "red", rgb: RGB{R: 255}, want: HSV{H: 0, S: 1, V: 1}},
		{name: "green", rgb: RGB{G: 255}, want: HSV{H: 1.0 / 3.0, S: 1, V: 1}},
		{name: "blue", rgb: RGB{B: 255}, want: HSV{H: 2.0 / 3.0, S: 1, V: 1}},
		{name: "white", rgb: RGB{R: 255, G: 255, B: 255}, want: HSV{H: 0, S: 0, V: 1}},
		{name: "black", rgb: RGB{}, want: HSV{H: 0, S: 0, V: 0}},
		{name: "grey", rgb: RGB{R: 51, G: 51, B: 51}, want: HSV{H: 0, S: 0, V: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rgb.HSV()
			if !approx(got.H, tt.want.H, 1e-9) || !approx(got.S, tt.want.S, 1e-9) || !approx(got.V, tt.want.V, 1e-9) {
				t.Errorf("HSV() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRGBToHSL(t *testing.T) {
	got := RGB{R: 255}.HSL()
	if !approx(got.H, 0, 1e-9) || !approx(got.S, 1, 1e-9) || !approx(got.L, 0.5, 1e-9) {
		t.Errorf("HSL(red) = %+v, want {0 1 0.5}", got)
	}
	got = RGB{R: 255, G: 255, B: 255}.HSL()
	if !approx(got.S, 0, 1e-9) || !approx(got.L, 1, 1e-9) {
		t.Errorf("HSL(white) = %+v, want {0 0 1}", got)
	}
}

func TestHSVRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 51 {
				rgb := RGBFromInts(r, g, b)

				hsv := rgb.HSV()
				if hsv.H < 0 || hsv.H >= 1 || hsv.S < 0 || hsv.S > 1 || hsv.V < 0 || hsv.V > 1 {
					t.Fatalf("HSV(%s) = %+v out of range", rgb.Hex(), hsv)
				}
				if back := hsv.RGB(); !withinOne(rgb, back) {
					t.Errorf("HSV round trip %s -> %+v -> %s", rgb.Hex(), hsv, back.Hex())
				}
				if back := rgb.HSL().RGB(); !withinOne(rgb, back) {
					t.Errorf("HSL round trip %s -> %s", rgb.Hex(), back.Hex())
				}
			}
		}
	}
}

func TestNewHSVWrapsAndClamps(t *testing.T) {
	got := NewHSV(1.25, 1.5, -0.2)
	if !approx(got.H, 0.25, 1e-12) || got.S != 1 || got.V != 0 {
		t.Errorf("NewHSV(1.25, 1.5, -0.2) = %+v", got)
	}
	if got := NewHSV(-0.25, 0.5, 0.5); !approx(got.H, 0.75, 1e-12) {
		t.Errorf("NewHSV(-0.25).H = %v, want 0.75", got.H)
	}
	if got := NewHSV(1.0, 0, 0); got.H != 0 {
		t.Errorf("NewHSV(1.0).H = %v, want 0", got.H)
	}
}

func TestHueDistance(t *testing.T) {
	tests := []struct {
		h1, h2, want float64
	}{
		{0, 0.5, 0.5},
		{0.1, 0.9, 0.2},
		{0.9, 0.1, 0.2},
		{0.25, 0.25, 0},
		{0, 1.0 / 3.0, 1.0 / 3.0},
	}
	for _, tt := range tests {
		if got := HueDistance(tt.h1, tt.h2); !approx(got, tt.want, 1e-12) {
			t.Errorf("HueDistance(%v, %v) = %v, want %v", tt.h1, tt.h2, got, tt.want)
		}
	}
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func withinOne(a, b RGB) bool {
	diff := func(x, y uint8) int {
		d := int(x) - int(y)
		if d < 0 {
			return -d
		}
		return d
	}
	return diff(a.R, b.R) <= 1 && diff(a.G, b.G) <= 1 && diff(a.B, b.B) <= 1
}
