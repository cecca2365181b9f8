package server

import (
	"net/http"
)

// Routes lists the paths mounted for the application's service, in
// registration order.
func (app *Application) Routes() []string {
	routes := []string{"/", "/health", "/metrics"}
	if app.Service.includes(ServiceExtraction) {
		routes = append(routes, "/extract-colors")
	}
	if app.Service.includes(ServicePalette) {
		routes = append(routes, "/generate-palette", "/palette-types")
	}
	if app.Service.includes(ServiceAccessibility) {
		routes = append(routes, "/check-accessibility", "/check-palette-accessibility", "/wcag-requirements")
	}
	if app.Service.includes(ServiceChat) {
		routes = append(routes, "/chat", "/chat/stream")
	}
	return routes
}

func (app *Application) handlerFor(route string) http.HandlerFunc {
	switch route {
	case "/":
		return app.home
	case "/health":
		return app.health
	case "/metrics":
		return app.metrics
	case "/extract-colors":
		return app.extractColors
	case "/generate-palette":
		return app.generatePalette
	case "/palette-types":
		return app.paletteTypes
	case "/check-accessibility":
		return app.checkAccessibility
	case "/check-palette-accessibility":
		return app.checkPaletteAccessibility
	case "/wcag-requirements":
		return app.wcagRequirements
	case "/chat":
		return app.chat
	case "/chat/stream":
		return app.chatStream
	default:
		return http.NotFound
	}
}

// BuildRoutes registers the service's routes on mux and wraps it with the
// request id, access log, panic recovery and CORS layers.
func (app *Application) BuildRoutes(mux *http.ServeMux) http.Handler {
	for _, route := range app.Routes() {
		mux.HandleFunc(route, app.instrument(route, app.handlerFor(route)))
	}

	finalMux := http.NewServeMux()
	finalMux.Handle("/", app.wrapMuxWithCorsAndOrigins(mux))

	return withRequestID(app.logRequests(app.recoverPanic(finalMux)))
}
