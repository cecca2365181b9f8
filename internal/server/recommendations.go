package server

import (
	"fmt"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
)

var usageSuggestions = map[colour.PaletteType][]string{
	colour.Monochromatic: {
		"Use the lightest color as the background",
		"Use the mid tones for secondary elements",
		"Use the darkest color for text and emphasis",
		"Well suited to minimalist designs",
	},
	colour.Complementary: {
		"Use one color as the dominant tone (60%)",
		"Use the complement for accent elements (10%)",
		"Use neutral variations for balance (30%)",
		"The high contrast works well for calls to action",
	},
	colour.Triadic: {
		"Pick one color as the main color",
		"Use the other two sparingly as accents",
		"Balance the palette with neutral tones",
		"Well suited to vibrant, energetic designs",
	},
	colour.Analogous: {
		"Creates a harmonious, calm feel",
		"Works well for gradients and transitions",
		"Let one color dominate",
		"A natural fit for nature-themed designs",
	},
	colour.Tetradic: {
		"Pick one dominant color",
		"Use the other three as accents",
		"Keeping the colors balanced is important",
		"Well suited to rich, colorful designs",
	},
	colour.SplitComplementary: {
		"Use the base color as the dominant tone",
		"Use the split complements for accents",
		"Softer than a pure complementary scheme",
		"Good when you need contrast without it being harsh",
	},
}

// UsageSuggestions returns design guidance for a palette type.
func UsageSuggestions(t colour.PaletteType) []string {
	s, ok := usageSuggestions[t]
	if !ok {
		return []string{}
	}
	return append([]string(nil), s...)
}

// ContrastRecommendations explains a contrast result for the given requirement.
func ContrastRecommendations(ratio float64, level colour.WCAGLevel, size colour.TextSize, passes bool) []string {
	required := colour.RequiredRatio(level, size)
	var recs []string

	if !passes {
		recs = append(recs, fmt.Sprintf("Current contrast %.2f does not meet the WCAG %s %s text requirement (needs %g)",
			ratio, level, size, required))
		switch {
		case ratio < 3.0:
			recs = append(recs, "Use a completely different color with much higher contrast")
		case ratio < 4.5:
			recs = append(recs, "Try darkening the text color or lightening the background")
		}
		recs = append(recs, "Test with real users who have visual impairments")
	} else {
		recs = append(recs, fmt.Sprintf("✅ Meets the WCAG %s %s text requirement", level, size))
		if level == colour.LevelAA && ratio >= 7.0 {
			recs = append(recs, "✅ Also meets AAA - excellent accessibility!")
		}
	}

	return append(recs,
		"Test the colors under different lighting conditions",
		"Consider offering a high-contrast mode option")
}

// PaletteRecommendations summarises a palette accessibility score.
func PaletteRecommendations(score float64) []string {
	var recs []string
	switch {
	case score < 0.3:
		recs = append(recs,
			"⚠️ Low accessibility score - consider revising color choices",
			"Add more contrast between colors",
			"Consider including neutral colors (white, black, grays)")
	case score < 0.6:
		recs = append(recs,
			"Moderate accessibility - some improvements possible",
			"Test critical text/background combinations")
	default:
		recs = append(recs,
			"✅ Good accessibility score!",
			"Most color combinations meet WCAG guidelines")
	}
	return append(recs, "Always test with real users and assistive technologies")
}
