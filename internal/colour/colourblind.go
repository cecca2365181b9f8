package colour

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Deficiency is a colour-vision deficiency that can be simulated.
type Deficiency string

const (
	Protanopia    Deficiency = "protanopia"
	Deuteranopia  Deficiency = "deuteranopia"
	Tritanopia    Deficiency = "tritanopia"
	Achromatopsia Deficiency = "achromatopsia"
)

// Deficiencies returns every supported deficiency in report order.
func Deficiencies() []Deficiency {
	return []Deficiency{Protanopia, Deuteranopia, Tritanopia, Achromatopsia}
}

// ParseDeficiency parses a deficiency name (case-insensitive).
func ParseDeficiency(s string) (Deficiency, error) {
	d := Deficiency(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := deficiencyMatrices[d]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: colour-blindness type %q", ErrInvalidParameter, s)
}

// Row-major transforms applied as M · [r g b]ᵀ on channels normalised to [0, 1].
var deficiencyMatrices = map[Deficiency]*mat.Dense{
	Protanopia: mat.NewDense(3, 3, []float64{
		0.567, 0.433, 0.000,
		0.558, 0.442, 0.000,
		0.000, 0.242, 0.758,
	}),
	Deuteranopia: mat.NewDense(3, 3, []float64{
		0.625, 0.375, 0.000,
		0.700, 0.300, 0.000,
		0.000, 0.300, 0.700,
	}),
	Tritanopia: mat.NewDense(3, 3, []float64{
		0.950, 0.050, 0.000,
		0.000, 0.433, 0.567,
		0.000, 0.475, 0.525,
	}),
	Achromatopsia: mat.NewDense(3, 3, []float64{
		0.299, 0.587, 0.114,
		0.299, 0.587, 0.114,
		0.299, 0.587, 0.114,
	}),
}

// Simulate approximates how rgb appears to someone with the given deficiency.
func Simulate(rgb RGB, d Deficiency) (RGB, error) {
	m, ok := deficiencyMatrices[d]
	if !ok {
		return RGB{}, fmt.Errorf("%w: colour-blindness type %q", ErrInvalidParameter, d)
	}

	in := mat.NewVecDense(3, []float64{
		float64(rgb.R) / 255.0,
		float64(rgb.G) / 255.0,
		float64(rgb.B) / 255.0,
	})
	var out mat.VecDense
	out.MulVec(m, in)

	return RGB{
		R: scaleChannel(out.AtVec(0)),
		G: scaleChannel(out.AtVec(1)),
		B: scaleChannel(out.AtVec(2)),
	}, nil
}

// scaleChannel rescales a [0, 1] channel to [0, 255], clamping then rounding.
func scaleChannel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v*255))))
}
