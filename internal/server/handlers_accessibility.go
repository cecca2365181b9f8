package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
)

// POST /check-accessibility
func (app *Application) checkAccessibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}
	start := time.Now()

	req := &CheckAccessibilityRequest{}
	if err := decodeJSON(w, r, maxJSONBody, req); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if req.ForegroundColor == "" || req.BackgroundColor == "" {
		app.badRequest(w, r, errors.New("foreground_color and background_color are required"))
		return
	}
	fg, err := colour.ParseHex(req.ForegroundColor)
	if err != nil {
		app.validationError(w, r, err)
		return
	}
	bg, err := colour.ParseHex(req.BackgroundColor)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	opts := colour.DefaultAccessibilityOptions()
	opts.TextSize = colour.TextSize(req.TextSize)
	opts.Level = colour.WCAGLevel(req.WCAGLevel)
	if req.CheckColorblind != nil {
		opts.CheckColourBlind = *req.CheckColorblind
	}

	report, err := colour.Evaluate(fg, bg, opts)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	resp := CheckAccessibilityResponse{
		Success:               true,
		ForegroundColor:       fg.Hex(),
		BackgroundColor:       bg.Hex(),
		ContrastResult:        report.Contrast,
		ColorblindnessResults: make([]ColorblindnessResult, 0, len(report.ColourBlind)),
		Recommendations:       ContrastRecommendations(report.Contrast.Ratio, report.Level, report.TextSize, report.Passes),
	}
	for _, cb := range report.ColourBlind {
		resp.ColorblindnessResults = append(resp.ColorblindnessResults, ColorblindnessResult{
			Type:                string(cb.Type),
			SimulatedForeground: cb.SimulatedForeground.Hex(),
			SimulatedBackground: cb.SimulatedBackground.Hex(),
			ContrastRatio:       cb.ContrastRatio,
			PassesWCAG:          cb.PassesWCAG,
		})
	}
	resp.ProcessingTimeMS = elapsedMS(start)

	app.writeJSON(w, http.StatusOK, resp)
}

// POST /check-palette-accessibility
func (app *Application) checkPaletteAccessibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}
	start := time.Now()

	req := &CheckPaletteAccessibilityRequest{}
	if err := decodeJSON(w, r, maxJSONBody, req); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	colours, err := colour.ParseHexList(req.Colors)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	report, err := colour.EvaluatePalette(colours, colour.WCAGLevel(req.WCAGLevel))
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	resp := CheckPaletteAccessibilityResponse{
		Success:                true,
		TotalCombinations:      report.TotalCombinations,
		AccessibleCombinations: report.AccessibleCombinations,
		AccessibilityScore:     report.AccessibilityScore,
		ColorPairs:             make([]ColorPair, 0, len(report.Pairs)),
		Recommendations:        PaletteRecommendations(report.AccessibilityScore),
	}
	for _, p := range report.Pairs {
		resp.ColorPairs = append(resp.ColorPairs, ColorPair{
			Foreground:    p.Foreground.Hex(),
			Background:    p.Background.Hex(),
			ContrastRatio: p.ContrastRatio,
			PassesWCAG:    p.PassesWCAG,
			Grade:         string(p.Grade),
		})
	}
	resp.ProcessingTimeMS = elapsedMS(start)

	app.writeJSON(w, http.StatusOK, resp)
}

// GET /wcag-requirements
func (app *Application) wcagRequirements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	app.writeJSON(w, http.StatusOK, WCAGRequirementsResponse{
		WCAGRequirements: map[string]WCAGThreshold{
			string(colour.LevelAA): {
				NormalText:  colour.RequiredRatio(colour.LevelAA, colour.TextNormal),
				LargeText:   colour.RequiredRatio(colour.LevelAA, colour.TextLarge),
				Description: "Minimum accessibility standard",
			},
			string(colour.LevelAAA): {
				NormalText:  colour.RequiredRatio(colour.LevelAAA, colour.TextNormal),
				LargeText:   colour.RequiredRatio(colour.LevelAAA, colour.TextLarge),
				Description: "Enhanced accessibility standard",
			},
		},
		TextSizes: map[string]string{
			string(colour.TextNormal): "Less than 18pt regular or 14pt bold",
			string(colour.TextLarge):  "18pt+ regular or 14pt+ bold",
		},
	})
}
