package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
)

// POST /generate-palette
func (app *Application) generatePalette(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}
	start := time.Now()

	req := &GeneratePaletteRequest{}
	if err := decodeJSON(w, r, maxJSONBody, req); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if req.BaseColor == "" {
		app.badRequest(w, r, errors.New("base_color is required"))
		return
	}
	base, err := colour.ParseHex(req.BaseColor)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	paletteType, err := colour.ParsePaletteType(req.PaletteType)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	opts := colour.DefaultGenerateOptions(paletteType)
	opts.Seed = req.Seed
	if req.NumColors != nil {
		opts.Count = *req.NumColors
	}
	if req.SaturationRange != nil {
		if opts.Saturation, err = colour.RangeFromSlice(req.SaturationRange); err != nil {
			app.validationError(w, r, fmt.Errorf("saturation_range: %w", err))
			return
		}
	}
	if req.LightnessRange != nil {
		if opts.Lightness, err = colour.RangeFromSlice(req.LightnessRange); err != nil {
			app.validationError(w, r, fmt.Errorf("lightness_range: %w", err))
			return
		}
	}

	palette, err := colour.Generate(base, opts)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	resp := GeneratePaletteResponse{
		Success:          true,
		PaletteType:      string(palette.Type),
		BaseColor:        palette.Base,
		Colors:           make([]PaletteColor, 0, palette.Len()),
		TotalColors:      palette.Len(),
		HarmonyScore:     palette.HarmonyScore,
		UsageSuggestions: UsageSuggestions(palette.Type),
	}
	for _, c := range palette.Colors {
		resp.Colors = append(resp.Colors, PaletteColor{
			HexCode:   c.Hex,
			RGB:       c.RGB.Slice(),
			HSV:       c.HSV.Slice(),
			HSL:       c.HSL.Slice(),
			ColorName: c.Name,
			Role:      string(c.Role),
		})
	}
	resp.ProcessingTimeMS = elapsedMS(start)

	app.writeJSON(w, http.StatusOK, resp)
}

// GET /palette-types
func (app *Application) paletteTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	resp := PaletteTypesResponse{}
	for _, t := range colour.PaletteTypes() {
		resp.PaletteTypes = append(resp.PaletteTypes, PaletteTypeInfo{Type: string(t), Description: t.Description()})
	}
	app.writeJSON(w, http.StatusOK, resp)
}
