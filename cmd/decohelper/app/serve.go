package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Girbilcannon/DecoToolsHelper/internal/app"
	"github.com/Girbilcannon/DecoToolsHelper/internal/config"
	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
	"github.com/Girbilcannon/DecoToolsHelper/internal/telemetry"
)

const (
	defaultGracefulTimeout   = 30 * time.Second
	telemetryShutdownTimeout = 5 * time.Second
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Keep the decoration database current and serve it over HTTP",
		Long: `Start the local front door. A build runs on startup unless disabled, and
optionally again on the configured refresh interval. Companion tools read the
database from GET /decorations and look up single entries with
GET /decorations/lookup?name=.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	cmd.Flags().String("address", "", fmt.Sprintf("Address to listen on (default %s)", config.DefaultAddress))
	cmd.Flags().String("refresh-interval", "", "Re-check the catalogs at this interval, e.g. 6h")
	cmd.Flags().Bool("build-on-startup", true, "Run a build when the server starts")

	mustBind(v, config.KeyAddress, cmd.Flags().Lookup("address"))
	mustBind(v, config.KeyRefreshInterval, cmd.Flags().Lookup("refresh-interval"))
	mustBind(v, config.KeyBuildOnStartup, cmd.Flags().Lookup("build-on-startup"))

	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	logger.Infof("Starting decoration helper on %s (data directory: %s)", cfg.Address, cfg.DataDir)

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Failed to shutdown telemetry: %v", err)
		}
	}()

	decoApp, err := app.NewDecoApp(ctx,
		app.WithConfig(cfg),
		app.WithTelemetry(tel),
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- decoApp.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	if err := decoApp.Stop(defaultGracefulTimeout); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
		return err
	}
	return nil
}
