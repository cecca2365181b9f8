package server

import (
	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
)

// ExtractColorsRequest is the body of POST /extract-colors. Exactly one of
// ImageURL or ImageData must be set; ImageData may be a data URI or bare
// base64.
type ExtractColorsRequest struct {
	ImageURL      string   `json:"image_url,omitempty"`
	ImageData     string   `json:"image_data,omitempty"`
	NumColors     *int     `json:"num_colors,omitempty"`
	MinPercentage *float64 `json:"min_percentage,omitempty"`
	Algorithm     string   `json:"algorithm,omitempty"`
}

type ExtractedColor struct {
	HexCode    string  `json:"hex_code"`
	RGB        []int   `json:"rgb"`
	Percentage float64 `json:"percentage"`
	ColorName  string  `json:"color_name"`
}

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ExtractColorsResponse struct {
	Success          bool             `json:"success"`
	Colors           []ExtractedColor `json:"colors"`
	TotalColorsFound int              `json:"total_colors_found"`
	ProcessingTimeMS float64          `json:"processing_time_ms"`
	AlgorithmUsed    string           `json:"algorithm_used"`
	ImageDimensions  ImageDimensions  `json:"image_dimensions"`
}

// GeneratePaletteRequest is the body of POST /generate-palette.
type GeneratePaletteRequest struct {
	BaseColor       string    `json:"base_color"`
	PaletteType     string    `json:"palette_type"`
	NumColors       *int      `json:"num_colors,omitempty"`
	SaturationRange []float64 `json:"saturation_range,omitempty"`
	LightnessRange  []float64 `json:"lightness_range,omitempty"`
	Seed            *int64    `json:"seed,omitempty"`
}

type PaletteColor struct {
	HexCode   string    `json:"hex_code"`
	RGB       []int     `json:"rgb"`
	HSV       []float64 `json:"hsv"`
	HSL       []float64 `json:"hsl"`
	ColorName string    `json:"color_name"`
	Role      string    `json:"role"`
}

type GeneratePaletteResponse struct {
	Success          bool           `json:"success"`
	PaletteType      string         `json:"palette_type"`
	BaseColor        string         `json:"base_color"`
	Colors           []PaletteColor `json:"colors"`
	TotalColors      int            `json:"total_colors"`
	ProcessingTimeMS float64        `json:"processing_time_ms"`
	HarmonyScore     float64        `json:"harmony_score"`
	UsageSuggestions []string       `json:"usage_suggestions"`
}

type PaletteTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type PaletteTypesResponse struct {
	PaletteTypes []PaletteTypeInfo `json:"palette_types"`
}

// CheckAccessibilityRequest is the body of POST /check-accessibility.
type CheckAccessibilityRequest struct {
	ForegroundColor string `json:"foreground_color"`
	BackgroundColor string `json:"background_color"`
	TextSize        string `json:"text_size,omitempty"`
	WCAGLevel       string `json:"wcag_level,omitempty"`
	CheckColorblind *bool  `json:"check_colorblind,omitempty"`
}

type ColorblindnessResult struct {
	Type                string  `json:"type"`
	SimulatedForeground string  `json:"simulated_foreground"`
	SimulatedBackground string  `json:"simulated_background"`
	ContrastRatio       float64 `json:"contrast_ratio"`
	PassesWCAG          bool    `json:"passes_wcag"`
}

type CheckAccessibilityResponse struct {
	Success               bool                   `json:"success"`
	ForegroundColor       string                 `json:"foreground_color"`
	BackgroundColor       string                 `json:"background_color"`
	ContrastResult        colour.ContrastResult  `json:"contrast_result"`
	ColorblindnessResults []ColorblindnessResult `json:"colorblindness_results"`
	Recommendations       []string               `json:"recommendations"`
	ProcessingTimeMS      float64                `json:"processing_time_ms"`
}

// CheckPaletteAccessibilityRequest is the body of POST /check-palette-accessibility.
type CheckPaletteAccessibilityRequest struct {
	Colors    []string `json:"colors"`
	WCAGLevel string   `json:"wcag_level,omitempty"`
}

type ColorPair struct {
	Foreground    string  `json:"foreground"`
	Background    string  `json:"background"`
	ContrastRatio float64 `json:"contrast_ratio"`
	PassesWCAG    bool    `json:"passes_wcag"`
	Grade         string  `json:"grade"`
}

type CheckPaletteAccessibilityResponse struct {
	Success                bool        `json:"success"`
	TotalCombinations      int         `json:"total_combinations"`
	AccessibleCombinations int         `json:"accessible_combinations"`
	AccessibilityScore     float64     `json:"accessibility_score"`
	ColorPairs             []ColorPair `json:"color_pairs"`
	Recommendations        []string    `json:"recommendations"`
	ProcessingTimeMS       float64     `json:"processing_time_ms"`
}

type WCAGThreshold struct {
	NormalText  float64 `json:"normal_text"`
	LargeText   float64 `json:"large_text"`
	Description string  `json:"description"`
}

type WCAGRequirementsResponse struct {
	WCAGRequirements map[string]WCAGThreshold `json:"wcag_requirements"`
	TextSizes        map[string]string        `json:"text_sizes"`
}

// ChatRequest is the body of POST /chat and POST /chat/stream.
type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Success          bool    `json:"success"`
	Content          string  `json:"content"`
	Analysis         any     `json:"analysis,omitempty"`
	ProcessingTimeMS float64 `json:"processing_time_ms"`
}

type HealthResponse struct {
	Status              string   `json:"status"`
	Version             string   `json:"version"`
	Service             string   `json:"service"`
	Algorithms          []string `json:"algorithms,omitempty"`
	SupportedPalettes   []string `json:"supported_palettes,omitempty"`
	WCAGLevels          []string `json:"wcag_levels,omitempty"`
	ColorblindnessTypes []string `json:"colorblindness_types,omitempty"`
	ChatAvailable       bool     `json:"chat_available"`
}

type RootResponse struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}
