package chat

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/image"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/seed"
)

// ErrEmptyMessage is returned for blank chat messages.
var ErrEmptyMessage = errors.New("message cannot be empty")

const (
	// maxAnalysedColours is how many extracted colours feed the palette and
	// contrast steps.
	maxAnalysedColours = 3

	// maxContrastChecks bounds the colours checked against white and black.
	maxContrastChecks = 2
)

// suggestedPalettes are generated from the base colour of a conversation.
var suggestedPalettes = []colour.PaletteType{colour.Complementary, colour.Analogous, colour.Triadic}

var (
	white = colour.RGB{R: 255, G: 255, B: 255}
	black = colour.RGB{}
)

// ColourCheck is the contrast of one colour used as text on white and on black.
type ColourCheck struct {
	Colour  string                `json:"color"`
	OnWhite colour.ContrastResult `json:"on_white"`
	OnBlack colour.ContrastResult `json:"on_black"`
}

// Analysis is the colour data gathered for a message.
type Analysis struct {
	Intent        Intent                   `json:"intent"`
	Extraction    *colour.Extraction       `json:"image_analysis,omitempty"`
	Palettes      []*colour.HarmonyPalette `json:"palettes,omitempty"`
	Accessibility []ColourCheck            `json:"accessibility_check,omitempty"`
}

// Empty reports whether no analysis step produced anything.
func (a *Analysis) Empty() bool {
	return a == nil || (a.Extraction == nil && len(a.Palettes) == 0 && len(a.Accessibility) == 0)
}

// Reply is a complete chat answer.
type Reply struct {
	Content  string    `json:"content"`
	Analysis *Analysis `json:"analysis"`
}

// ExtractionGate admits one image extraction. It blocks until the extraction
// may run or ctx ends, and returns a func that frees the admission.
type ExtractionGate func(ctx context.Context) (release func(), err error)

// Assistant runs the colour analyses a message asks for and hands the results
// to an LLM.
type Assistant struct {
	llm    LLM
	logger hclog.Logger
	system string
	gate   ExtractionGate
}

// NewAssistant creates an Assistant. A nil logger discards output.
func NewAssistant(llm LLM, logger hclog.Logger) *Assistant {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Assistant{llm: llm, logger: logger, system: SystemPrompt}
}

// SetExtractionGate bounds the image extractions run by Analyse, so that chat
// shares the extraction limit of the rest of the server.
func (a *Assistant) SetExtractionGate(gate ExtractionGate) {
	a.gate = gate
}

// Analyse runs the analyses selected by the message intent. Individual steps
// that fail are logged and skipped so the model can still answer.
func (a *Assistant) Analyse(ctx context.Context, message string) *Analysis {
	intent := AnalyseIntent(message)
	analysis := &Analysis{Intent: intent}

	var extracted []string
	if intent.NeedsImageAnalysis && intent.ImageData != "" {
		if extraction, err := a.extract(ctx, intent.ImageData); err != nil {
			a.logger.Warn("image analysis failed", "error", err)
		} else {
			analysis.Extraction = extraction
			for _, c := range extraction.Colors[:min(len(extraction.Colors), maxAnalysedColours)] {
				extracted = append(extracted, c.Hex)
			}
		}
	}

	if ctx.Err() != nil {
		return analysis
	}

	if intent.NeedsPaletteGeneration {
		base := intent.Colour
		if len(extracted) > 0 {
			base = extracted[0]
		}
		if base != "" {
			palettes, err := generatePalettes(base)
			if err != nil {
				a.logger.Warn("palette generation failed", "base", base, "error", err)
			}
			analysis.Palettes = palettes
		}
	}

	if intent.NeedsAccessibilityCheck {
		candidates := extracted
		if len(candidates) == 0 && intent.Colour != "" {
			candidates = []string{intent.Colour}
		}
		for _, hex := range candidates[:min(len(candidates), maxContrastChecks)] {
			rgb, err := colour.ParseHex(hex)
			if err != nil {
				a.logger.Warn("accessibility check skipped", "color", hex, "error", err)
				continue
			}
			analysis.Accessibility = append(analysis.Accessibility, ColourCheck{
				Colour:  rgb.Hex(),
				OnWhite: colour.CheckContrast(rgb, white),
				OnBlack: colour.CheckContrast(rgb, black),
			})
		}
	}

	a.logger.Debug("message analysed",
		"image", analysis.Extraction != nil,
		"palettes", len(analysis.Palettes),
		"contrast_checks", len(analysis.Accessibility))
	return analysis
}

func (a *Assistant) extract(ctx context.Context, dataURI string) (*colour.Extraction, error) {
	if a.gate != nil {
		release, err := a.gate(ctx)
		if err != nil {
			return nil, fmt.Errorf("waiting for extraction slot: %w", err)
		}
		defer release()
	}

	img, _, err := image.DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}
	return colour.ExtractDominant(img, colour.DefaultDominantOptions())
}

func generatePalettes(base string) ([]*colour.HarmonyPalette, error) {
	rgb, err := colour.ParseHex(base)
	if err != nil {
		return nil, err
	}

	fixed := seed.DefaultValue
	palettes := make([]*colour.HarmonyPalette, 0, len(suggestedPalettes))
	for _, t := range suggestedPalettes {
		opts := colour.DefaultGenerateOptions(t)
		opts.Seed = &fixed
		p, err := colour.Generate(rgb, opts)
		if err != nil {
			return palettes, err
		}
		palettes = append(palettes, p)
	}
	return palettes, nil
}

// BuildPrompt combines the user's message with the analysis results. Image
// payloads are removed from the message. Without analysis data the message is
// returned unchanged.
func BuildPrompt(message string, analysis *Analysis) string {
	if analysis.Empty() {
		return StripImages(message)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n\n", StripImages(message))
	b.WriteString("=== Colour analysis data ===\n")

	if analysis.Extraction != nil {
		b.WriteString("Main colours in the image:\n")
		colours := analysis.Extraction.Colors
		for _, c := range colours[:min(len(colours), 5)] {
			fmt.Fprintf(&b, "- %s %s (%.1f%%)\n", c.Hex, c.Name, c.Percentage*100)
		}
	}

	if len(analysis.Palettes) > 0 {
		b.WriteString("\nGenerated palettes:\n")
		for _, p := range analysis.Palettes {
			hexes := p.ToHex()
			fmt.Fprintf(&b, "- %s: %s (harmony %.2f)\n", p.Type, strings.Join(hexes[:min(len(hexes), 4)], ", "), p.HarmonyScore)
		}
	}

	if len(analysis.Accessibility) > 0 {
		b.WriteString("\nContrast checks:\n")
		for _, c := range analysis.Accessibility {
			fmt.Fprintf(&b, "- %s: %.2f:1 on white (%s), %.2f:1 on black (%s)\n",
				c.Colour, c.OnWhite.Ratio, c.OnWhite.Grade, c.OnBlack.Ratio, c.OnBlack.Grade)
		}
	}

	b.WriteString("\nUsing the colour data above, give professional advice on the user's UI design question. ")
	b.WriteString("Focus on the strengths and weaknesses of the colour combination, suitable scenarios and improvements.")
	return b.String()
}

// Reply analyses message and asks the LLM for a complete answer.
func (a *Assistant) Reply(ctx context.Context, message string) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	analysis := a.Analyse(ctx, message)
	prompt := BuildPrompt(message, analysis)
	a.logger.Debug("sending prompt", "length", len(prompt))

	content, err := a.llm.Complete(ctx, a.system, prompt)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	return &Reply{Content: content, Analysis: analysis}, nil
}

// Stream analyses message and returns the analysis together with the
// streamed answer.
func (a *Assistant) Stream(ctx context.Context, message string) (*Analysis, iter.Seq2[string, error], error) {
	if strings.TrimSpace(message) == "" {
		return nil, nil, ErrEmptyMessage
	}

	analysis := a.Analyse(ctx, message)
	prompt := BuildPrompt(message, analysis)
	a.logger.Debug("streaming prompt", "length", len(prompt))

	return analysis, a.llm.Stream(ctx, a.system, prompt), nil
}
