package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// NewHTTPServer builds the HTTP server for the app
func NewHTTPServer(app *App) *http.Server {
	return &http.Server{
		Addr:         ":" + app.Config.Port,
		Handler:      NewRouter(app),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured shutdown timeout
func Run(ctx context.Context, app *App) error {
	srv := NewHTTPServer(app)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Book club directory listening", "addr", srv.Addr, "environment", app.Config.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server", "timeout", app.Config.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("Server exited gracefully")
	return nil
}
