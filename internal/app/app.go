// Package app provides application lifecycle management for the decoration helper.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Girbilcannon/DecoToolsHelper/internal/config"
	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
)

// DecoApp encapsulates all components needed to run the front door and the
// background builds. It provides lifecycle management and graceful shutdown.
type DecoApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start listens on the configured address and serves until Stop is called
func (app *DecoApp) Start() error {
	listener, err := net.Listen("tcp", app.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.httpServer.Addr, err)
	}
	return app.Serve(listener)
}

// Serve starts the coordinator, whose startup build runs in the background,
// and serves HTTP on l. It blocks until the server stops.
func (app *DecoApp) Serve(l net.Listener) error {
	if err := app.components.Coordinator.Start(app.ctx); err != nil {
		_ = l.Close()
		return fmt.Errorf("failed to start build coordinator: %w", err)
	}

	logger.Infof("Server listening on %s", l.Addr())
	if err := app.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// Running builds are cancelled before the HTTP server shuts down.
func (app *DecoApp) Stop(timeout time.Duration) error {
	logger.Info("Shutting down server...")

	if err := app.components.Coordinator.Stop(); err != nil {
		logger.Errorf("Failed to stop build coordinator: %v", err)
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *DecoApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server
func (app *DecoApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// Components returns the wired components
func (app *DecoApp) Components() *AppComponents {
	return app.components
}
