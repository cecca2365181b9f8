package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Serve listens on Config.HTTPAddr until ctx is cancelled or the process
// receives SIGINT/SIGTERM, then shuts down gracefully.
func (app *Application) Serve(ctx context.Context, mux *http.ServeMux) error {
	srv := &http.Server{
		Addr:         app.Config.HTTPAddr,
		Handler:      app.BuildRoutes(mux),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     app.Logger.StandardLogger(nil),
	}
	shutdownErr := make(chan error, 1)

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case s := <-shutdown:
			app.Logger.Info("shutting down server", "signal", s.String())
		case <-ctx.Done():
			app.Logger.Info("shutting down server", "reason", ctx.Err())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	app.Logger.Info("starting server", "addr", app.Config.HTTPAddr, "service", app.Service)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	app.Logger.Info("stopped server", "addr", app.Config.HTTPAddr)
	return nil
}
