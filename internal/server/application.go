// Package server exposes the colour core over HTTP.
package server

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/chat"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/config"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/image"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/security"
)

// Service selects which route groups a server mounts.
type Service string

const (
	ServiceAll           Service = "all"
	ServiceExtraction    Service = "extraction"
	ServicePalette       Service = "palette"
	ServiceAccessibility Service = "accessibility"
	ServiceChat          Service = "chat"
)

// Services returns every mountable service.
func Services() []Service {
	return []Service{ServiceAll, ServiceExtraction, ServicePalette, ServiceAccessibility, ServiceChat}
}

// ParseService parses a service name.
func ParseService(s string) (Service, error) {
	svc := Service(strings.ToLower(strings.TrimSpace(s)))
	if svc == "" {
		return ServiceAll, nil
	}
	if slices.Contains(Services(), svc) {
		return svc, nil
	}
	return "", fmt.Errorf("unknown service %q (valid: %v)", s, Services())
}

func (s Service) includes(group Service) bool {
	return s == ServiceAll || s == group
}

// Name is the banner shown by GET /.
func (s Service) Name() string {
	switch s {
	case ServiceExtraction:
		return "Color Extraction Service"
	case ServicePalette:
		return "Palette Generation Service"
	case ServiceAccessibility:
		return "Accessibility Check Service"
	case ServiceChat:
		return "UI Color Chat Service"
	default:
		return "UI Color Bot"
	}
}

// Application holds the dependencies shared by every handler.
type Application struct {
	Config    config.Config
	Service   Service
	Logger    hclog.Logger
	Loader    *image.SmartLoader
	Assistant *chat.Assistant
	Metrics   *Metrics

	extractSlots chan struct{}
}

// New creates an Application from cfg. assistant may be nil, in which case
// the chat routes answer 503.
func New(cfg config.Config, logger hclog.Logger, assistant *chat.Assistant) (*Application, error) {
	service, err := ParseService(cfg.Service)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	slots := cfg.MaxConcurrentExtractions
	if slots <= 0 {
		slots = 1
	}

	app := &Application{
		Config:  cfg,
		Service: service,
		Logger:  logger,
		Loader: image.NewSmartLoader(image.LoaderOptions{
			FetchTimeout: cfg.ImageFetchTimeout,
			MaxBytes:     cfg.ImageMaxBytes,
			MaxPixels:    cfg.ImageMaxPixels,
			URLPolicy:    security.URLPolicy{AllowPrivateHosts: cfg.AllowPrivateImageHosts},
			CacheDir:     cfg.ImageCacheDir,
		}),
		Assistant:    assistant,
		Metrics:      NewMetrics(),
		extractSlots: make(chan struct{}, slots),
	}
	if assistant != nil {
		assistant.SetExtractionGate(app.acquireExtractionSlot)
	}
	return app, nil
}

// acquireExtractionSlot blocks until one of MaxConcurrentExtractions slots is
// free or ctx ends.
func (app *Application) acquireExtractionSlot(ctx context.Context) (func(), error) {
	select {
	case app.extractSlots <- struct{}{}:
		return func() { <-app.extractSlots }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
