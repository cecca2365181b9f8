package client

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/config"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/logging"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/server"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	app, err := server.New(config.Defaults(), logging.Discard(), nil)
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	srv := httptest.NewServer(app.BuildRoutes(http.NewServeMux()))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := newTestServer(t)
	return New(Options{
		ExtractionURL:    srv.URL,
		PaletteURL:       srv.URL + "/",
		AccessibilityURL: srv.URL,
	})
}

func TestGeneratePalette(t *testing.T) {
	c := newTestClient(t)
	n := 3

	got, err := c.GeneratePalette(context.Background(), server.GeneratePaletteRequest{
		BaseColor:   "#ff5733",
		PaletteType: "triadic",
		NumColors:   &n,
	})
	if err != nil {
		t.Fatalf("GeneratePalette() error = %v", err)
	}
	if got.TotalColors != 3 || got.PaletteType != "triadic" {
		t.Errorf("GeneratePalette() = %+v", got)
	}
}

func TestCheckAccessibility(t *testing.T) {
	c := newTestClient(t)

	got, err := c.CheckAccessibility(context.Background(), server.CheckAccessibilityRequest{
		ForegroundColor: "#000000",
		BackgroundColor: "#FFFFFF",
	})
	if err != nil {
		t.Fatalf("CheckAccessibility() error = %v", err)
	}
	if math.Abs(got.ContrastResult.Ratio-21) > 1e-3 {
		t.Errorf("Ratio = %v, want 21", got.ContrastResult.Ratio)
	}
}

func TestCheckPaletteAccessibility(t *testing.T) {
	c := newTestClient(t)

	got, err := c.CheckPaletteAccessibility(context.Background(), server.CheckPaletteAccessibilityRequest{
		Colors: []string{"#000000", "#ffffff", "#777777"},
	})
	if err != nil {
		t.Fatalf("CheckPaletteAccessibility() error = %v", err)
	}
	if got.TotalCombinations != 6 {
		t.Errorf("TotalCombinations = %d, want 6", got.TotalCombinations)
	}
}

func TestPaletteTypesAndRequirements(t *testing.T) {
	c := newTestClient(t)

	types, err := c.PaletteTypes(context.Background())
	if err != nil {
		t.Fatalf("PaletteTypes() error = %v", err)
	}
	if len(types.PaletteTypes) != 6 {
		t.Errorf("len(PaletteTypes) = %d, want 6", len(types.PaletteTypes))
	}

	reqs, err := c.WCAGRequirements(context.Background())
	if err != nil {
		t.Fatalf("WCAGRequirements() error = %v", err)
	}
	if reqs.WCAGRequirements["AAA"].NormalText != 7 {
		t.Errorf("AAA normal = %v, want 7", reqs.WCAGRequirements["AAA"].NormalText)
	}
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GeneratePalette(context.Background(), server.GeneratePaletteRequest{
		BaseColor:   "#ff5733",
		PaletteType: "rainbow",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Name != "Invalid Palette Type" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestExtractColorsError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.ExtractColors(context.Background(), server.ExtractColorsRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("ExtractColors() error = %v, want 400 APIError", err)
	}
}

func TestHealthAll(t *testing.T) {
	srv := newTestServer(t)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer down.Close()

	c := New(Options{ExtractionURL: srv.URL, PaletteURL: srv.URL, AccessibilityURL: down.URL})
	got := c.HealthAll(context.Background())

	if len(got) != 3 {
		t.Fatalf("len(HealthAll()) = %d, want 3", len(got))
	}
	if !got[0].Healthy || !got[1].Healthy {
		t.Errorf("extraction/palette = %+v, %+v, want healthy", got[0], got[1])
	}
	if got[2].Healthy || got[2].Error == "" {
		t.Errorf("accessibility = %+v, want unhealthy with error", got[2])
	}
}
