package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"athletepulse/internal/config"
	"athletepulse/internal/dataprocessing"
	apierrors "athletepulse/internal/errors"
	"athletepulse/internal/exporter"
	"athletepulse/internal/infrastructure"
	customMiddleware "athletepulse/internal/middleware"
	"athletepulse/internal/services"
	handlers "athletepulse/internal/transport/http"
	ws "athletepulse/internal/websocket"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.Metrics
	ErrorHandler  *apierrors.ErrorHandler

	Dashboard    *services.DashboardService
	Health       *services.HealthService
	Exporter     *exporter.Exporter
	WebSocketHub *ws.Hub

	Router *chi.Mux
	Server *http.Server
}

// Bootstrap loads the configuration and initializes the global logger.
func Bootstrap(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// NewApplication wires every component. baseDir anchors relative paths; empty
// means the working directory.
func NewApplication(cfg *config.Config, baseDir string, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.Version),
		slog.String("commit", config.Commit))

	paths, err := config.ResolvePaths(cfg.Paths, baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.NewMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.setupRouter()
	app.createServer()
	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	loader, err := NewTableLoader(a.Config, a.Paths, a.Logger)
	if err != nil {
		return err
	}

	a.Dashboard = services.NewDashboardService(
		loader,
		services.DashboardOptionsFromConfig(a.Config.Dashboard),
		a.OTelProviders.Tracer,
		a.Metrics,
		a.Logger,
	)
	a.Exporter = exporter.NewExporter(a.Paths.ExportDir, a.Logger)
	a.WebSocketHub = ws.NewHub(a.Metrics, a.Logger)
	a.Health = services.NewHealthService(
		services.BuildInfo{Version: config.Version, BuildTime: config.BuildTime, Commit: config.Commit},
		a.Dashboard,
		a.WebSocketHub,
		a.Logger,
	)

	a.Dashboard.OnReload(func(ctx context.Context, report dataprocessing.BuildReport) {
		a.WebSocketHub.Broadcast(ctx, ws.TypeDatasetUpdated, report)
	})
	return nil
}

// setupRouter builds the chi router. /ws and /metrics skip the request
// timeout and compression.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	wsHandler := ws.NewHandler(a.WebSocketHub, a.Dashboard, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.OTelProviders.Tracer, a.Logger)).Handle("/ws", wsHandler)
	r.Mount("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP).Routes())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.SecurityHeaders)
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}
		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
		}
		r.Use(middleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.Compress(5))

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes mounts the JSON API
func (a *Application) setupAPIRoutes(r chi.Router) {
	athletes := handlers.NewAthleteHandler(a.Dashboard, a.Exporter, a.Logger, a.ErrorHandler)
	dataset := handlers.NewDatasetHandler(a.Dashboard, a.Exporter, a.Logger, a.ErrorHandler)
	health := handlers.NewHealthHandler(a.Health, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/athletes", athletes.Routes())
		r.Mount("/health", health.Routes())
		r.Get("/version", health.Version)
		r.Mount("/", dataset.Routes())
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// LoadDataset runs the first reload. A failure leaves the service not ready
// until POST /api/reload succeeds.
func (a *Application) LoadDataset(ctx context.Context) error {
	report, err := a.Dashboard.Reload(ctx)
	if err != nil {
		a.Logger.WarnContext(ctx, "initial dataset load failed",
			slog.String("data_dir", a.Paths.DataDir),
			slog.String("error", err.Error()))
		return err
	}
	a.Logger.InfoContext(ctx, "initial dataset loaded",
		slog.Int("athletes", report.Athletes),
		slog.Int("filtered_rows", report.Filtered))
	return nil
}

// Start loads the dataset and serves in the background. A listener failure
// calls cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	_ = a.LoadDataset(ctx)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", a.Server.Addr),
		slog.String("data_dir", a.Paths.DataDir),
		slog.String("export_dir", a.Paths.ExportDir))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	// Hijacked websocket connections are not closed by Shutdown.
	a.WebSocketHub.CloseAll()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown error: %w", err))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return errors.Join(errs...)
}

// Run serves until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}
	<-ctx.Done()
	a.Logger.Info("received shutdown signal")

	return a.Stop(context.Background())
}
