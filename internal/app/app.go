package app

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/blake2b"

	"maintcli/internal/analytics"
	"maintcli/internal/config"
	apierrors "maintcli/internal/errors"
	"maintcli/internal/infrastructure"
	customMiddleware "maintcli/internal/middleware"
	"maintcli/internal/services"
	handlers "maintcli/internal/transport/http"
	"maintcli/pkg/contracts"
)

const (
	VERSION = contracts.Version
	AppName = "maintcli reliability API"
)

var (
	// BuildTime is set at compile time
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	sum := blake2b.Sum256([]byte(VERSION + time.Now().Format("2006-01-02")))
	return hex.EncodeToString(sum[:])[:12]
}

// Application wires configuration, telemetry, services and the HTTP server
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Runtime       *infrastructure.RuntimeCollector
	Analysis      *services.AnalysisService
	Health        *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler

	mu       sync.Mutex
	listener net.Listener
	served   chan struct{}
}

// NewApplication loads configuration from the environment and config file
// and builds the application with the global logger
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New builds the application from an explicit configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.String("build_id", BuildID))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := a.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	a.createServer()

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}
	a.Metrics = metrics

	mappings, err := config.LoadMappings(a.Config.Data.MappingsFile)
	if err != nil {
		return fmt.Errorf("failed to load mappings: %w", err)
	}

	engine := analytics.NewEngine(analytics.OptionsFromConfig(a.Config.Analysis), a.Logger).WithMetrics(metrics)
	a.Analysis = services.NewAnalysisService(a.Config.Data.InputFile, mappings, engine, a.Logger).WithMetrics(metrics)

	collector, err := infrastructure.NewRuntimeCollector(a.OTelProviders.Meter, 15*time.Second)
	if err != nil {
		return fmt.Errorf("failed to create runtime collector: %w", err)
	}
	a.Runtime = collector

	a.Health = services.NewHealthService(VERSION, a.Analysis, collector, a.Logger)
	a.ErrorHandler = apierrors.NewErrorHandler(a.Logger, a.isDevelopmentMode())

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return err
	}
	r.Use(otelMiddleware.Handler)

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
		ExposedHeaders: []string{"X-Request-ID"},
		Logger:         a.Logger,
	}))

	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	r.Get("/healthz", healthHandler.HealthCheck)
	r.Get("/version", healthHandler.Version)
	r.Method(http.MethodGet, "/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	a.setupAPIRoutes(r)

	a.Router = r
	return nil
}

// setupAPIRoutes mounts the versioned analysis API
func (a *Application) setupAPIRoutes(r chi.Router) {
	analysisHandler := handlers.NewAnalysisHandler(a.Analysis, a.Logger, a.ErrorHandler)
	r.With(customMiddleware.Compress(5)).Mount("/api/v1", analysisHandler.Routes())
}

// isDevelopmentMode reports whether problem responses may carry stacks
func (a *Application) isDevelopmentMode() bool {
	switch a.Config.Telemetry.Environment {
	case "development", "dev", "local":
		return true
	}
	return false
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start loads the dataset, starts background watchers and begins serving.
// cancel is called if the server stops unexpectedly.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.Int("port", a.Config.Server.Port),
		slog.String("input", a.Config.Data.InputFile))

	if err := a.Analysis.Load(ctx); err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	if a.Config.Data.WatchMappings && a.Config.Data.MappingsFile != "" {
		go func() {
			if err := a.Analysis.WatchMappings(ctx, a.Config.Data.MappingsFile); err != nil {
				a.Logger.ErrorContext(ctx, "Mapping watcher stopped",
					slog.String("path", a.Config.Data.MappingsFile),
					slog.String("error", err.Error()))
			}
		}()
	}

	go a.Runtime.Start(ctx)

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		a.Runtime.Stop()
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	a.mu.Lock()
	a.listener = ln
	a.served = make(chan struct{})
	served := a.served
	a.mu.Unlock()

	go func() {
		defer close(served)
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			if cancel != nil {
				cancel()
			}
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", ln.Addr().String()))

	return nil
}

// Addr returns the bound listen address, or "" before Start
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.mu.Lock()
	served := a.served
	a.mu.Unlock()
	if served != nil {
		<-served
	}

	if a.Runtime != nil {
		a.Runtime.Stop()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}
