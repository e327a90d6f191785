package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Girbilcannon/DecoToolsHelper/internal/api"
	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
	"github.com/Girbilcannon/DecoToolsHelper/internal/config"
	"github.com/Girbilcannon/DecoToolsHelper/internal/httpclient"
	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
	"github.com/Girbilcannon/DecoToolsHelper/internal/service"
	"github.com/Girbilcannon/DecoToolsHelper/internal/service/cached"
	"github.com/Girbilcannon/DecoToolsHelper/internal/status"
	"github.com/Girbilcannon/DecoToolsHelper/internal/store"
	pkgsync "github.com/Girbilcannon/DecoToolsHelper/internal/sync"
	"github.com/Girbilcannon/DecoToolsHelper/internal/sync/coordinator"
	"github.com/Girbilcannon/DecoToolsHelper/internal/telemetry"
	"github.com/Girbilcannon/DecoToolsHelper/internal/versions"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// DecoAppOptions is a function that configures the app builder
type DecoAppOptions func(*decoAppConfig) error

// decoAppConfig holds everything the builder needs. Component overrides are
// mostly for tests.
type decoAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	fetcher     catalog.Fetcher
	syncManager pkgsync.Manager

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	telemetry *telemetry.Telemetry
}

func baseConfig(opts ...DecoAppOptions) (*decoAppConfig, error) {
	cfg := &decoAppConfig{
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		cfg.config = config.Default()
	}
	if cfg.address == "" {
		cfg.address = cfg.config.Address
	}

	return cfg, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) DecoAppOptions {
	return func(cfg *decoAppConfig) error {
		if c == nil {
			return fmt.Errorf("config cannot be nil")
		}
		cfg.config = c
		return nil
	}
}

// WithAddress overrides the listen address of the configuration
func WithAddress(addr string) DecoAppOptions {
	return func(cfg *decoAppConfig) error {
		if err := validateAddress(addr); err != nil {
			return err
		}
		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) DecoAppOptions {
	return func(cfg *decoAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithFetcher allows injecting a catalog fetcher (for testing)
func WithFetcher(f catalog.Fetcher) DecoAppOptions {
	return func(cfg *decoAppConfig) error {
		cfg.fetcher = f
		return nil
	}
}

// WithSyncManager allows injecting a custom sync manager (for testing)
func WithSyncManager(sm pkgsync.Manager) DecoAppOptions {
	return func(cfg *decoAppConfig) error {
		cfg.syncManager = sm
		return nil
	}
}

// WithTelemetry wires build metrics, spans and HTTP instrumentation to t
func WithTelemetry(t *telemetry.Telemetry) DecoAppOptions {
	return func(cfg *decoAppConfig) error {
		cfg.telemetry = t
		return nil
	}
}

func validateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("address is not valid: %w", err)
	}
	if port == "" {
		return fmt.Errorf("address is not a valid port: %s", addr)
	}
	if host == "localhost" {
		host = "127.0.0.1"
	}
	if host == "" {
		host = "0.0.0.0"
	}
	if _, err := netip.ParseAddrPort(net.JoinHostPort(host, port)); err != nil {
		return fmt.Errorf("address is not a valid port: %w", err)
	}
	return nil
}

// warnIfExposed logs when the front door listens beyond loopback
func warnIfExposed(addr string) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "localhost" {
		return
	}
	ip, err := netip.ParseAddr(host)
	if err != nil || !ip.IsLoopback() {
		logger.Warnf("Front door address %s is not a loopback address; decoration data will be reachable from the network", addr)
	}
}

// NewCoordinator builds the sync stack alone, for one-shot builds
func NewCoordinator(_ context.Context, opts ...DecoAppOptions) (*coordinator.DefaultCoordinator, store.Store, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	st := store.NewFileStore(cfg.config.DataDir)
	coord, err := buildSyncComponents(cfg, st)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build sync components: %w", err)
	}
	return coord, st, nil
}

// NewDecoApp creates the serve application with the given options
func NewDecoApp(ctx context.Context, opts ...DecoAppOptions) (*DecoApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}
	if err := validateAddress(cfg.address); err != nil {
		return nil, err
	}

	st := store.NewFileStore(cfg.config.DataDir)

	coord, err := buildSyncComponents(cfg, st)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync components: %w", err)
	}

	svc, err := buildServiceComponents(ctx, cfg, st, coord)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	httpServer, err := buildHTTPServer(cfg, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	return &DecoApp{
		config: cfg.config,
		components: &AppComponents{
			Coordinator: coord,
			Service:     svc,
			Store:       st,
		},
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancel,
	}, nil
}

// buildSyncComponents builds the fetcher, sync manager and coordinator
func buildSyncComponents(b *decoAppConfig, st store.Store) (*coordinator.DefaultCoordinator, error) {
	logger.Info("Initializing sync components")
	cfg := b.config

	if b.syncManager == nil {
		if b.fetcher == nil {
			client := httpclient.NewDefaultClient(cfg.GetHTTPTimeout(),
				httpclient.WithUserAgent(versions.UserAgent()))
			b.fetcher = catalog.NewAPIFetcher(client, catalog.WithBatchSize(cfg.Build.BatchSize))
		}

		var managerOpts []pkgsync.ManagerOption
		if b.telemetry != nil {
			managerOpts = append(managerOpts,
				pkgsync.WithTracer(b.telemetry.Tracer(telemetry.BuildTracerName)))
		}
		b.syncManager = pkgsync.NewDefaultManager(
			b.fetcher, st, cfg.GuildSource(), cfg.HomesteadSource(), managerOpts...)
	}

	coordOpts := []coordinator.Option{
		coordinator.WithLockFile(filepath.Join(cfg.DataDir, coordinator.LockFileName)),
		coordinator.WithStatusPersistence(status.NewFileStatusPersistence(cfg.DataDir)),
		coordinator.WithBuildOnStartup(cfg.BuildOnStartup()),
		coordinator.WithRefreshInterval(cfg.GetRefreshInterval()),
	}

	if b.telemetry != nil {
		buildMetrics, err := telemetry.NewBuildMetrics(b.telemetry.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create build metrics: %w", err)
		}
		if buildMetrics != nil {
			coordOpts = append(coordOpts, coordinator.WithBuildMetrics(buildMetrics))
			logger.Info("Build metrics enabled")
		}
		coordOpts = append(coordOpts, coordinator.WithTracer(b.telemetry.Tracer(telemetry.BuildTracerName)))
	}

	coord := coordinator.New(b.syncManager, st.Path(), coordOpts...)
	logger.Infof("Sync components initialized (data directory: %s)", cfg.DataDir)
	return coord, nil
}

// buildServiceComponents builds the decoration service
func buildServiceComponents(
	ctx context.Context,
	b *decoAppConfig,
	st store.Store,
	trigger cached.Trigger,
) (service.DecorationService, error) {
	logger.Info("Initializing service components")

	svc, err := cached.New(ctx, st,
		cached.WithTrigger(trigger),
		cached.WithStatusPersistence(status.NewFileStatusPersistence(b.config.DataDir)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoration service: %w", err)
	}
	return svc, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(b *decoAppConfig, svc service.DecorationService) (*http.Server, error) {
	logger.Info("Initializing HTTP server")

	// Use default middlewares if not provided
	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	serverOpts := []api.ServerOption{}

	if b.telemetry != nil {
		httpMetrics, err := telemetry.NewHTTPMetrics(b.telemetry.MeterProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
		}
		// Prepend so that every request is measured and traced
		prefix := []func(http.Handler) http.Handler{telemetry.TracingMiddleware(b.telemetry.TracerProvider())}
		if httpMetrics != nil {
			prefix = append(prefix, httpMetrics.Middleware)
			logger.Info("HTTP metrics middleware enabled")
		}
		b.middlewares = append(prefix, b.middlewares...)

		if h := b.telemetry.MetricsHandler(); h != nil {
			serverOpts = append(serverOpts, api.WithMetricsHandler(h))
		}
	}

	serverOpts = append(serverOpts, api.WithMiddlewares(b.middlewares...))
	router := api.NewServer(svc, serverOpts...)

	warnIfExposed(b.address)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	logger.Infof("HTTP server configured on %s", b.address)
	return server, nil
}
