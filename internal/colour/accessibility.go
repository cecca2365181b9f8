package colour

import (
	"fmt"
)

// AccessibilityOptions selects the requirement a colour pair is judged against.
type AccessibilityOptions struct {
	TextSize         TextSize
	Level            WCAGLevel
	CheckColourBlind bool
}

// DefaultAccessibilityOptions returns AA, normal text, with colour-blindness checks.
func DefaultAccessibilityOptions() AccessibilityOptions {
	return AccessibilityOptions{TextSize: TextNormal, Level: LevelAA, CheckColourBlind: true}
}

// ColourBlindResult is the contrast of a pair as seen with one deficiency.
type ColourBlindResult struct {
	Type                Deficiency `json:"type"`
	SimulatedForeground RGB        `json:"simulated_foreground"`
	SimulatedBackground RGB        `json:"simulated_background"`
	ContrastRatio       float64    `json:"contrast_ratio"`
	PassesWCAG          bool       `json:"passes_wcag"`
}

// Report is the outcome of Evaluate.
type Report struct {
	Foreground    RGB                 `json:"foreground_color"`
	Background    RGB                 `json:"background_color"`
	Level         WCAGLevel           `json:"wcag_level"`
	TextSize      TextSize            `json:"text_size"`
	RequiredRatio float64             `json:"required_ratio"`
	Contrast      ContrastResult      `json:"contrast_result"`
	Passes        bool                `json:"passes_wcag"`
	ColourBlind   []ColourBlindResult `json:"colorblindness_results"`
}

// Evaluate checks a foreground/background pair against the requirement in
// opts and, when requested, repeats the check under every simulated deficiency.
func Evaluate(fg, bg RGB, opts AccessibilityOptions) (*Report, error) {
	level, err := ParseWCAGLevel(string(opts.Level))
	if err != nil {
		return nil, err
	}
	size, err := ParseTextSize(string(opts.TextSize))
	if err != nil {
		return nil, err
	}

	required := RequiredRatio(level, size)
	contrast := CheckContrast(fg, bg)

	report := &Report{
		Foreground:    fg,
		Background:    bg,
		Level:         level,
		TextSize:      size,
		RequiredRatio: required,
		Contrast:      contrast,
		Passes:        contrast.Passes(level, size),
		ColourBlind:   []ColourBlindResult{},
	}

	if !opts.CheckColourBlind {
		return report, nil
	}

	for _, d := range Deficiencies() {
		simFg, err := Simulate(fg, d)
		if err != nil {
			return nil, err
		}
		simBg, err := Simulate(bg, d)
		if err != nil {
			return nil, err
		}
		ratio := ContrastRatio(simFg, simBg)
		report.ColourBlind = append(report.ColourBlind, ColourBlindResult{
			Type:                d,
			SimulatedForeground: simFg,
			SimulatedBackground: simBg,
			ContrastRatio:       ratio,
			PassesWCAG:          ratio >= required,
		})
	}
	return report, nil
}

// PairResult is one ordered foreground/background combination of a palette.
type PairResult struct {
	Foreground    RGB     `json:"foreground"`
	Background    RGB     `json:"background"`
	ContrastRatio float64 `json:"contrast_ratio"`
	PassesWCAG    bool    `json:"passes_wcag"`
	Grade         Grade   `json:"grade"`
}

// PaletteReport is the outcome of EvaluatePalette.
type PaletteReport struct {
	Level                  WCAGLevel    `json:"wcag_level"`
	RequiredRatio          float64      `json:"required_ratio"`
	TotalCombinations      int          `json:"total_combinations"`
	AccessibleCombinations int          `json:"accessible_combinations"`
	AccessibilityScore     float64      `json:"accessibility_score"`
	Pairs                  []PairResult `json:"color_pairs"`
}

// EvaluatePalette checks every ordered pair (i, j), i != j, of colours
// against the normal-text ratio for level. Both orders of a pair are
// reported, so n colours yield n*(n-1) combinations.
func EvaluatePalette(colours []RGB, level WCAGLevel) (*PaletteReport, error) {
	if len(colours) < 2 {
		return nil, fmt.Errorf("%w: at least 2 colors required, got %d", ErrInvalidParameter, len(colours))
	}
	level, err := ParseWCAGLevel(string(level))
	if err != nil {
		return nil, err
	}

	required := RequiredRatio(level, TextNormal)
	report := &PaletteReport{
		Level:         level,
		RequiredRatio: required,
		Pairs:         make([]PairResult, 0, len(colours)*(len(colours)-1)),
	}

	for i, fg := range colours {
		for j, bg := range colours {
			if i == j {
				continue
			}
			ratio := ContrastRatio(fg, bg)
			pass := ratio >= required
			if pass {
				report.AccessibleCombinations++
			}
			report.Pairs = append(report.Pairs, PairResult{
				Foreground:    fg,
				Background:    bg,
				ContrastRatio: ratio,
				PassesWCAG:    pass,
				Grade:         WCAGGrade(ratio),
			})
		}
	}

	report.TotalCombinations = len(report.Pairs)
	report.AccessibilityScore = float64(report.AccessibleCombinations) / float64(report.TotalCombinations)
	return report, nil
}
