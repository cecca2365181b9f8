package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/colour"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/version"
)

// maxJSONBody bounds request bodies that carry no image.
const maxJSONBody = 1 << 20

func (app *Application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.Logger.Error("failed to write response", "error", err)
	}
}

// decodeJSON reads a JSON body of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("request body is empty")
		}
		return err
	}
	return nil
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// GET /
func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}
	app.writeJSON(w, http.StatusOK, RootResponse{
		Service:   app.Service.Name(),
		Version:   version.Version,
		Status:    "running",
		Endpoints: app.Routes(),
	})
}

// GET /health
func (app *Application) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	resp := HealthResponse{
		Status:        "healthy",
		Version:       version.Version,
		Service:       string(app.Service),
		ChatAvailable: app.Assistant != nil,
	}
	if app.Service.includes(ServiceExtraction) {
		for _, a := range colour.ValidAlgorithms() {
			resp.Algorithms = append(resp.Algorithms, string(a))
		}
	}
	if app.Service.includes(ServicePalette) {
		for _, t := range colour.PaletteTypes() {
			resp.SupportedPalettes = append(resp.SupportedPalettes, string(t))
		}
	}
	if app.Service.includes(ServiceAccessibility) {
		for _, l := range colour.WCAGLevels() {
			resp.WCAGLevels = append(resp.WCAGLevels, string(l))
		}
		for _, d := range colour.Deficiencies() {
			resp.ColorblindnessTypes = append(resp.ColorblindnessTypes, string(d))
		}
	}
	app.writeJSON(w, http.StatusOK, resp)
}

// GET /metrics
func (app *Application) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}
	app.writeJSON(w, http.StatusOK, app.Metrics.Snapshot())
}
