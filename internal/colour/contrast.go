package colour

import (
	"fmt"
	"math"
	"strings"
)

// Luminance calculates the relative luminance of a colour according to WCAG 2.x.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func Luminance(rgb RGB) float64 {
	r := gammaCorrect(float64(rgb.R) / 255.0)
	g := gammaCorrect(float64(rgb.G) / 255.0)
	b := gammaCorrect(float64(rgb.B) / 255.0)

	return 0.2126*r + 0.7152*g + 0.0722*b
}

// gammaCorrect linearises an sRGB channel in [0, 1].
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the contrast ratio between two colours according to WCAG 2.x.
// Returns a value between 1 and 21, where 21 is maximum contrast (black vs white).
// The result does not depend on argument order.
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef.
func ContrastRatio(c1, c2 RGB) float64 {
	l1 := Luminance(c1)
	l2 := Luminance(c2)

	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}

	return (l1 + 0.05) / (l2 + 0.05)
}

// Grade is the coarse WCAG verdict for a contrast ratio.
type Grade string

const (
	GradeAAA     Grade = "AAA"
	GradeAA      Grade = "AA"
	GradeAALarge Grade = "AA Large"
	GradeFail    Grade = "Fail"
)

// WCAGGrade maps a contrast ratio onto a grade. Lower bounds are inclusive,
// so exactly 4.5 grades AA and exactly 7.0 grades AAA.
func WCAGGrade(ratio float64) Grade {
	switch {
	case ratio >= 7.0:
		return GradeAAA
	case ratio >= 4.5:
		return GradeAA
	case ratio >= 3.0:
		return GradeAALarge
	default:
		return GradeFail
	}
}

// WCAGLevel is a WCAG conformance level.
type WCAGLevel string

const (
	LevelAA  WCAGLevel = "AA"
	LevelAAA WCAGLevel = "AAA"
)

// TextSize distinguishes normal body text from large text (18pt+, or 14pt+ bold).
type TextSize string

const (
	TextNormal TextSize = "normal"
	TextLarge  TextSize = "large"
)

// WCAGLevels returns the supported conformance levels.
func WCAGLevels() []WCAGLevel {
	return []WCAGLevel{LevelAA, LevelAAA}
}

// ParseWCAGLevel parses "AA" or "AAA" (case-insensitive). Empty means AA.
func ParseWCAGLevel(s string) (WCAGLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AA":
		return LevelAA, nil
	case "AAA":
		return LevelAAA, nil
	default:
		return "", fmt.Errorf("%w: wcag level %q (valid: AA, AAA)", ErrInvalidParameter, s)
	}
}

// ParseTextSize parses "normal" or "large" (case-insensitive). Empty means normal.
func ParseTextSize(s string) (TextSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return TextNormal, nil
	case "large":
		return TextLarge, nil
	default:
		return "", fmt.Errorf("%w: text size %q (valid: normal, large)", ErrInvalidParameter, s)
	}
}

// RequiredRatio returns the minimum contrast ratio for a level and text size.
func RequiredRatio(level WCAGLevel, size TextSize) float64 {
	if level == LevelAAA {
		if size == TextLarge {
			return 4.5
		}
		return 7.0
	}
	if size == TextLarge {
		return 3.0
	}
	return 4.5
}

// ContrastResult holds a contrast ratio and its compliance verdicts.
type ContrastResult struct {
	Ratio           float64 `json:"ratio"`
	PassesAANormal  bool    `json:"passes_aa_normal"`
	PassesAALarge   bool    `json:"passes_aa_large"`
	PassesAAANormal bool    `json:"passes_aaa_normal"`
	PassesAAALarge  bool    `json:"passes_aaa_large"`
	Grade           Grade   `json:"grade"`
}

// CheckContrast computes the contrast result for a foreground/background pair.
func CheckContrast(fg, bg RGB) ContrastResult {
	ratio := ContrastRatio(fg, bg)
	return ContrastResult{
		Ratio:           ratio,
		PassesAANormal:  ratio >= RequiredRatio(LevelAA, TextNormal),
		PassesAALarge:   ratio >= RequiredRatio(LevelAA, TextLarge),
		PassesAAANormal: ratio >= RequiredRatio(LevelAAA, TextNormal),
		PassesAAALarge:  ratio >= RequiredRatio(LevelAAA, TextLarge),
		Grade:           WCAGGrade(ratio),
	}
}

// Passes reports whether the ratio meets the requirement for level and size.
func (r ContrastResult) Passes(level WCAGLevel, size TextSize) bool {
	return r.Ratio >= RequiredRatio(level, size)
}
