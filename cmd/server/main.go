// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, starts the HTTP server, and handles graceful shutdown
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"go.mongodb.org/mongo-driver/v2/mongo"

	adapthttp "github.com/jsamuelsen11/project-intake-service/internal/adapters/http"
	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/project-intake-service/internal/adapters/storage/instrumented"
	"github.com/jsamuelsen11/project-intake-service/internal/adapters/storage/memory"
	"github.com/jsamuelsen11/project-intake-service/internal/adapters/storage/mongostore"
	"github.com/jsamuelsen11/project-intake-service/internal/app"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/config"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/health"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/logging"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/schema"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/project-intake-service/internal/ports"
)

const (
	otelShutdownTimeout  = 5 * time.Second
	storeShutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	startedAt := time.Now()

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		_ = otel.Shutdown(ctx)
		return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.Metrics)
	do.ProvideValue(injector, backend)

	registerDependencies(injector, cfg, logger, startedAt)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		backend.close(ctx, logger)
		_ = otel.Shutdown(ctx)
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	if backend.checker != nil {
		registry.Register(backend.checker)
	}
	registry.Register(do.MustInvoke[*instrumented.Store](injector))

	logger.Info("service configured",
		slog.String("environment", cfg.Environment),
		slog.String("store", cfg.Store.Driver),
		slog.Bool("dev_mode", cfg.DevMode()),
		slog.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		backend.close(ctx, logger)
		_ = otel.Shutdown(ctx)
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Release the store only after in-flight requests have drained.
	backend.close(context.Background(), logger)

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// storeBackend is the configured persistence backend before decoration.
type storeBackend struct {
	repo ports.ProjectRepository
	// system names the backend in spans and metrics.
	system string
	// checker is nil for backends without a health check.
	checker ports.HealthChecker
	// disconnect is nil for backends without connections to release.
	disconnect func(context.Context) error
}

func (b *storeBackend) close(ctx context.Context, logger *slog.Logger) {
	if b.disconnect == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, storeShutdownTimeout)
	defer cancel()

	if err := b.disconnect(ctx); err != nil {
		logger.Error("store disconnect error", slog.Any("error", err))
	}
}

// openStore builds the backend selected by store.driver. For mongo it
// connects, verifies with a ping and ensures indexes.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storeBackend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return &storeBackend{repo: memory.New(), system: "memory"}, nil

	case config.DriverMongo:
		client, err := mongostore.Connect(ctx, cfg.Store.Mongo, logger)
		if err != nil {
			return nil, err
		}
		store := mongostore.New(client.Database(cfg.Store.Mongo.Database).Collection(cfg.Store.Mongo.Collection))

		idxCtx, cancel := context.WithTimeout(ctx, cfg.Store.Mongo.ConnectTimeout)
		defer cancel()
		if err := store.EnsureIndexes(idxCtx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensuring indexes: %w", err)
		}

		return &storeBackend{
			repo:       store,
			system:     "mongodb",
			checker:    store,
			disconnect: disconnectFunc(client),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func disconnectFunc(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Disconnect(ctx)
	}
}

// initTelemetry returns a zero Provider, with nil Metrics, when telemetry is
// disabled.
func initTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Provider, error) {
	if !cfg.Telemetry.Enabled {
		return &telemetry.Provider{}, nil
	}
	return telemetry.Setup(ctx, telemetry.Settings{
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Environment,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger, startedAt time.Time) {
	// Rule sets and the validator are built once and shared read-only.
	do.Provide(injector, func(_ do.Injector) (*schema.Validator, error) {
		return schema.New(), nil
	})

	do.Provide(injector, func(_ do.Injector) (*dto.ProjectRules, error) {
		return dto.NewProjectRules(), nil
	})

	do.Provide(injector, func(i do.Injector) (*instrumented.Store, error) {
		backend := do.MustInvoke[*storeBackend](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return instrumented.New(backend.repo, cfg.Store, backend.system, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ProjectService, error) {
		repo := do.MustInvoke[*instrumented.Store](i)
		return app.NewProjectService(repo, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(_ do.Injector) (*handlers.Responder, error) {
		return handlers.NewResponder(logger, cfg.DevMode()), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ProjectHandler, error) {
		svc := do.MustInvoke[ports.ProjectService](i)
		v := do.MustInvoke[*schema.Validator](i)
		rules := do.MustInvoke[*dto.ProjectRules](i)
		return handlers.NewProjectHandler(svc, v, rules), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry, startedAt), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		responder := do.MustInvoke[*handlers.Responder](i)
		projH := do.MustInvoke[*handlers.ProjectHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		stack := middleware.Chain(
			middleware.Recovery(logger, cfg.DevMode()),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
		)
		return adapthttp.NewRouter(responder, projH, healthH, stack), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
