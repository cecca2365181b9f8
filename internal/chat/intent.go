package chat

import (
	"regexp"
	"strings"
)

var (
	hexPattern     = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)
	dataURIPattern = regexp.MustCompile(`data:image/[^;]+;base64,[^\s]+`)
	rgbPattern     = regexp.MustCompile(`(?i)rgb\(`)
)

var (
	imageKeywords = []string{
		"分析图片", "图片颜色", "提取颜色", "图像分析", "颜色分析", "图片中的", "图像中的",
		"analyze image", "analyse image", "analyze this image", "analyse this image",
		"extract colors", "extract colours", "image colors", "image colours",
		"colors in this image", "colours in this image", "dominant color", "dominant colour",
	}
	paletteKeywords = []string{
		"配色方案", "调色板", "颜色搭配", "配色建议", "色彩方案", "配色搭配", "搭配怎么样",
		"palette", "color scheme", "colour scheme", "color combination", "colour combination",
		"matching colors", "matching colours",
	}
	accessibilityKeywords = []string{
		"可访问性", "对比度", "色盲", "wcag", "无障碍",
		"accessibility", "accessible", "contrast", "color blind", "colour blind",
		"colorblind", "colourblind",
	}
	imageMentions = []string{"图片", "data:image", "image", "picture", "photo"}
)

// Intent describes which colour analyses a chat message asks for.
type Intent struct {
	NeedsImageAnalysis      bool `json:"needs_image_analysis"`
	NeedsPaletteGeneration  bool `json:"needs_palette_generation"`
	NeedsAccessibilityCheck bool `json:"needs_accessibility_check"`
	HasImage                bool `json:"has_image"`
	HasColour               bool `json:"has_color"`

	// ImageData is the first embedded data:image URI, if any.
	ImageData string `json:"-"`

	// Colour is the first #rrggbb colour mentioned, lower-cased.
	Colour string `json:"color,omitempty"`
}

// AnalyseIntent inspects message for keywords, embedded images and hex
// colours. A message mentioning an image together with a palette keyword is
// treated as a request to analyse the image as well.
func AnalyseIntent(message string) Intent {
	lower := strings.ToLower(message)

	intent := Intent{
		NeedsPaletteGeneration:  containsAny(lower, paletteKeywords),
		NeedsAccessibilityCheck: containsAny(lower, accessibilityKeywords),
		HasImage:                containsAny(lower, imageMentions),
	}
	intent.NeedsImageAnalysis = containsAny(lower, imageKeywords) ||
		(intent.HasImage && intent.NeedsPaletteGeneration)

	if m := dataURIPattern.FindString(message); m != "" {
		intent.ImageData = m
		intent.HasImage = true
	}
	if m := hexPattern.FindString(message); m != "" {
		intent.Colour = strings.ToLower(m)
		intent.HasColour = true
	} else if rgbPattern.MatchString(message) {
		intent.HasColour = true
	}
	return intent
}

// StripImages replaces embedded image data so the message can be sent to a
// model without the payload.
func StripImages(message string) string {
	return dataURIPattern.ReplaceAllString(message, "[image analysed]")
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
