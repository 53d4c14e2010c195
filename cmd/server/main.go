// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, attaches the change consumers to the project store,
// starts the HTTP server, and handles graceful shutdown on SIGINT/SIGTERM.
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

	"github.com/jsamuelsen11/projectboard/internal/adapters/broadcast"
	adapthttp "github.com/jsamuelsen11/projectboard/internal/adapters/http"
	"github.com/jsamuelsen11/projectboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/projectboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/projectboard/internal/adapters/natspub"
	"github.com/jsamuelsen11/projectboard/internal/adapters/webhook"
	"github.com/jsamuelsen11/projectboard/internal/app"
	"github.com/jsamuelsen11/projectboard/internal/app/store"
	"github.com/jsamuelsen11/projectboard/internal/platform/config"
	"github.com/jsamuelsen11/projectboard/internal/platform/health"
	"github.com/jsamuelsen11/projectboard/internal/platform/logging"
	"github.com/jsamuelsen11/projectboard/internal/platform/telemetry"
	"github.com/jsamuelsen11/projectboard/internal/ports"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
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
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer flushTelemetry(providers, logger)

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, providers.Metrics)
	registerDependencies(injector, cfg, logger)

	// Invoking the server resolves the whole HTTP graph up front.
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Workers get their own context so they outlive the signal until the
	// HTTP side has drained.
	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	consumers, err := attachConsumers(workerCtx, injector, cfg)
	if err != nil {
		stopWorkers()
		return fmt.Errorf("attaching consumers: %w", err)
	}
	defer func() {
		stopWorkers()
		if err := consumers.Close(); err != nil {
			logger.Error("consumer shutdown error", slog.Any("error", err))
		}
	}()
	server.RegisterOnShutdown(consumers.hub.Close)

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested", slog.Any("cause", context.Cause(ctx)))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}
	<-serverErr

	logger.Info("http server stopped")
	return nil
}

func flushTelemetry(p *telemetry.Providers, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}

func registerDependencies(injector do.Injector, cfg *config.Config, logger *slog.Logger) {
	// One store per process; every invoke returns the same instance.
	do.Provide(injector, store.Provide)

	do.Provide(injector, func(i do.Injector) (ports.ProjectService, error) {
		s := do.MustInvoke[ports.ProjectStore](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewProjectService(s, logger, metrics), nil
	})

	do.Provide(injector, func(_ do.Injector) (*broadcast.Hub, error) {
		return broadcast.NewHub(), nil
	})

	do.Provide(injector, func(i do.Injector) (*webhook.Notifier, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return webhook.New(&cfg.Webhook, metrics, logger)
	})

	do.Provide(injector, func(_ do.Injector) (*natspub.Publisher, error) {
		return natspub.Connect(&cfg.NATS, logger)
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ProjectHandler, error) {
		svc := do.MustInvoke[ports.ProjectService](i)
		return handlers.NewProjectHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.EventsHandler, error) {
		svc := do.MustInvoke[ports.ProjectService](i)
		hub := do.MustInvoke[*broadcast.Hub](i)
		return handlers.NewEventsHandler(svc, hub, 0), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		projH := do.MustInvoke[*handlers.ProjectHandler](i)
		eventsH := do.MustInvoke[*handlers.EventsHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(projH, eventsH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}

// consumers holds the store listeners attached at startup.
type consumers struct {
	hub       *broadcast.Hub
	publisher *natspub.Publisher
	workers   chan error
}

// attachConsumers registers the broadcast hub and, when enabled, the webhook
// notifier and NATS publisher as store listeners. The webhook worker runs
// until ctx is canceled.
func attachConsumers(ctx context.Context, injector do.Injector, cfg *config.Config) (*consumers, error) {
	s := do.MustInvoke[ports.ProjectStore](injector)
	registry := do.MustInvoke[ports.HealthRegistry](injector)

	c := &consumers{
		hub:     do.MustInvoke[*broadcast.Hub](injector),
		workers: make(chan error, 1),
	}
	s.AddListener(c.hub.Publish)

	if cfg.Webhook.Enabled {
		notifier, err := do.Invoke[*webhook.Notifier](injector)
		if err != nil {
			return nil, err
		}
		s.AddListener(notifier.Notify)
		registry.Register(notifier)
		go func() {
			c.workers <- notifier.Run(ctx)
		}()
	} else {
		c.workers <- nil
	}

	if cfg.NATS.Enabled {
		publisher, err := do.Invoke[*natspub.Publisher](injector)
		if err != nil {
			return nil, err
		}
		s.AddListener(publisher.Publish)
		registry.Register(publisher)
		c.publisher = publisher
	}

	return c, nil
}

// Close waits for the webhook worker (its context must already be canceled)
// and drains the NATS connection.
func (c *consumers) Close() error {
	errs := []error{<-c.workers}
	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}
	return errors.Join(errs...)
}
