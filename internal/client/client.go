// Package client calls the colour services over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/config"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/server"
	httputil "github.com/Fifi-Huo/UI-Color-Bot/internal/util/http"
)

// DefaultTimeout bounds each request; extraction may download and cluster a
// large image.
const DefaultTimeout = 60 * time.Second

// APIError is a non-2xx answer from a colour service.
type APIError struct {
	StatusCode  int
	Name        string
	Description string
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("HTTP %d: %s: %s", e.StatusCode, e.Name, e.Description)
}

// Options configures a Client.
type Options struct {
	ExtractionURL    string
	PaletteURL       string
	AccessibilityURL string

	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     hclog.Logger
}

// Client talks to the extraction, palette and accessibility services. The
// three base URLs may point at the same server.
type Client struct {
	urls   map[server.Service]string
	fetch  httputil.FetchOptions
	logger hclog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		urls: map[server.Service]string{
			server.ServiceExtraction:    strings.TrimRight(opts.ExtractionURL, "/"),
			server.ServicePalette:       strings.TrimRight(opts.PaletteURL, "/"),
			server.ServiceAccessibility: strings.TrimRight(opts.AccessibilityURL, "/"),
		},
		fetch:  httputil.FetchOptions{Timeout: timeout, Client: opts.HTTPClient},
		logger: logger,
	}
}

// FromConfig creates a Client for the service URLs in cfg.
func FromConfig(cfg config.Config, logger hclog.Logger) *Client {
	return New(Options{
		ExtractionURL:    cfg.ExtractionURL,
		PaletteURL:       cfg.PaletteURL,
		AccessibilityURL: cfg.AccessibilityURL,
		Logger:           logger,
	})
}

func (c *Client) url(svc server.Service, path string) string {
	return c.urls[svc] + path
}

func (c *Client) post(ctx context.Context, svc server.Service, path string, body, out any) error {
	url := c.url(svc, path)
	c.logger.Debug("calling service", "service", svc, "url", url)
	return apiError(httputil.PostJSON(ctx, url, body, out, c.fetch))
}

func (c *Client) get(ctx context.Context, svc server.Service, path string, out any) error {
	url := c.url(svc, path)
	c.logger.Debug("calling service", "service", svc, "url", url)
	return apiError(httputil.GetJSON(ctx, url, out, c.fetch))
}

// apiError converts a StatusError carrying a HandlerError body to an APIError.
func apiError(err error) error {
	var statusErr *httputil.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	var body server.HandlerError
	if jsonErr := json.Unmarshal(statusErr.Body, &body); jsonErr != nil || body.Description == "" {
		return err
	}
	return &APIError{StatusCode: statusErr.Code, Name: body.ErrorName, Description: body.Description}
}

// ExtractColors calls POST /extract-colors.
func (c *Client) ExtractColors(ctx context.Context, req server.ExtractColorsRequest) (*server.ExtractColorsResponse, error) {
	resp := &server.ExtractColorsResponse{}
	if err := c.post(ctx, server.ServiceExtraction, "/extract-colors", req, resp); err != nil {
		return nil, fmt.Errorf("extract colors: %w", err)
	}
	return resp, nil
}

// GeneratePalette calls POST /generate-palette.
func (c *Client) GeneratePalette(ctx context.Context, req server.GeneratePaletteRequest) (*server.GeneratePaletteResponse, error) {
	resp := &server.GeneratePaletteResponse{}
	if err := c.post(ctx, server.ServicePalette, "/generate-palette", req, resp); err != nil {
		return nil, fmt.Errorf("generate palette: %w", err)
	}
	return resp, nil
}

// PaletteTypes calls GET /palette-types.
func (c *Client) PaletteTypes(ctx context.Context) (*server.PaletteTypesResponse, error) {
	resp := &server.PaletteTypesResponse{}
	if err := c.get(ctx, server.ServicePalette, "/palette-types", resp); err != nil {
		return nil, fmt.Errorf("palette types: %w", err)
	}
	return resp, nil
}

// CheckAccessibility calls POST /check-accessibility.
func (c *Client) CheckAccessibility(ctx context.Context, req server.CheckAccessibilityRequest) (*server.CheckAccessibilityResponse, error) {
	resp := &server.CheckAccessibilityResponse{}
	if err := c.post(ctx, server.ServiceAccessibility, "/check-accessibility", req, resp); err != nil {
		return nil, fmt.Errorf("check accessibility: %w", err)
	}
	return resp, nil
}

// CheckPaletteAccessibility calls POST /check-palette-accessibility.
func (c *Client) CheckPaletteAccessibility(ctx context.Context, req server.CheckPaletteAccessibilityRequest) (*server.CheckPaletteAccessibilityResponse, error) {
	resp := &server.CheckPaletteAccessibilityResponse{}
	if err := c.post(ctx, server.ServiceAccessibility, "/check-palette-accessibility", req, resp); err != nil {
		return nil, fmt.Errorf("check palette accessibility: %w", err)
	}
	return resp, nil
}

// WCAGRequirements calls GET /wcag-requirements.
func (c *Client) WCAGRequirements(ctx context.Context) (*server.WCAGRequirementsResponse, error) {
	resp := &server.WCAGRequirementsResponse{}
	if err := c.get(ctx, server.ServiceAccessibility, "/wcag-requirements", resp); err != nil {
		return nil, fmt.Errorf("wcag requirements: %w", err)
	}
	return resp, nil
}

// HealthStatus is the health of one service.
type HealthStatus struct {
	Service server.Service         `json:"service"`
	URL     string                 `json:"url"`
	Healthy bool                   `json:"healthy"`
	Health  *server.HealthResponse `json:"health,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// HealthAll checks GET /health on every service. Failures are reported per
// service rather than returned.
func (c *Client) HealthAll(ctx context.Context) []HealthStatus {
	services := []server.Service{server.ServiceExtraction, server.ServicePalette, server.ServiceAccessibility}
	out := make([]HealthStatus, 0, len(services))
	for _, svc := range services {
		status := HealthStatus{Service: svc, URL: c.urls[svc]}
		health := &server.HealthResponse{}
		if err := c.get(ctx, svc, "/health", health); err != nil {
			c.logger.Warn("service unhealthy", "service", svc, "error", err)
			status.Error = err.Error()
		} else {
			status.Health = health
			status.Healthy = health.Status == "healthy"
		}
		out = append(out, status)
	}
	return out
}
