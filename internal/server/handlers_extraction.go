package server

import (
	"context"
	"errors"
	"fmt"
	stdimage "image"
	"net/http"
	"strings"
	"time"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/image"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/security"
)

// extractionBodyLimit allows a base64 encoded image of ImageMaxBytes plus
// some room for the other fields.
func (app *Application) extractionBodyLimit() int64 {
	maxBytes := app.Config.ImageMaxBytes
	if maxBytes <= 0 {
		maxBytes = image.DefaultMaxBytes
	}
	return maxBytes*4/3 + maxJSONBody
}

// POST /extract-colors
func (app *Application) extractColors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}
	start := time.Now()

	req := &ExtractColorsRequest{}
	if err := decodeJSON(w, r, app.extractionBodyLimit(), req); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	opts := colour.DefaultDominantOptions()
	if req.NumColors != nil {
		opts.K = *req.NumColors
	}
	if req.MinPercentage != nil {
		opts.MinPercentage = *req.MinPercentage
	}
	if req.Algorithm != "" {
		opts.Algorithm = colour.Algorithm(req.Algorithm)
	}
	if err := opts.Validate(); err != nil {
		app.validationError(w, r, err)
		return
	}

	hasURL, hasData := req.ImageURL != "", req.ImageData != ""
	if hasURL == hasData {
		app.badRequest(w, r, errors.New("exactly one of image_url or image_data is required"))
		return
	}

	if hasURL && !image.IsDataURI(req.ImageURL) {
		if err := security.ValidateHTTPURL(req.ImageURL, security.URLPolicy{AllowPrivateHosts: app.Config.AllowPrivateImageHosts}); err != nil {
			app.badRequest(w, r, fmt.Errorf("invalid image_url: %w", err))
			return
		}
	}

	img, err := app.loadRequestImage(r.Context(), req)
	if err != nil {
		if errors.Is(err, colour.ErrImageDecode) {
			app.validationError(w, r, err)
			return
		}
		app.imageLoadError(w, r, err)
		return
	}

	release, err := app.acquireExtractionSlot(r.Context())
	if err != nil {
		app.serviceUnavailable(w, r, err)
		return
	}
	defer release()

	extraction, err := colour.ExtractDominant(img, opts)
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	resp := ExtractColorsResponse{
		Success:          true,
		Colors:           make([]ExtractedColor, 0, len(extraction.Colors)),
		TotalColorsFound: len(extraction.Colors),
		AlgorithmUsed:    string(extraction.Algorithm),
		ImageDimensions:  ImageDimensions{Width: extraction.Width, Height: extraction.Height},
	}
	for _, c := range extraction.Colors {
		resp.Colors = append(resp.Colors, ExtractedColor{
			HexCode:    c.Hex,
			RGB:        c.RGB.Slice(),
			Percentage: c.Percentage,
			ColorName:  c.Name,
		})
	}
	resp.ProcessingTimeMS = elapsedMS(start)

	app.Logger.Debug("colors extracted",
		"colors", resp.TotalColorsFound,
		"algorithm", resp.AlgorithmUsed,
		"request_id", RequestID(r.Context()))
	app.writeJSON(w, http.StatusOK, resp)
}

// loadRequestImage resolves image_url (http(s) or data URI) or image_data
// (data URI or bare base64).
func (app *Application) loadRequestImage(ctx context.Context, req *ExtractColorsRequest) (stdimage.Image, error) {
	if req.ImageURL != "" {
		if image.IsDataURI(req.ImageURL) {
			return app.Loader.Load(ctx, req.ImageURL)
		}
		return app.Loader.LoadURL(ctx, req.ImageURL)
	}

	data := strings.TrimSpace(req.ImageData)
	if !image.IsDataURI(data) {
		data = "data:image/unknown;base64," + data
	}
	return app.Loader.Load(ctx, data)
}
