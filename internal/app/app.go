// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/msgames/cursos-bot-go/internal/bot"
	"github.com/msgames/cursos-bot-go/internal/buildinfo"
	"github.com/msgames/cursos-bot-go/internal/catalog"
	"github.com/msgames/cursos-bot-go/internal/config"
	"github.com/msgames/cursos-bot-go/internal/intent"
	"github.com/msgames/cursos-bot-go/internal/logger"
	"github.com/msgames/cursos-bot-go/internal/metrics"
	"github.com/msgames/cursos-bot-go/internal/reply"
	"github.com/msgames/cursos-bot-go/internal/sentry"
	"github.com/msgames/cursos-bot-go/internal/webhook"
)

const serviceName = "cursos-bot-go"

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg           *config.Config
	logger        *logger.Logger
	metrics       *metrics.Metrics
	registry      *prometheus.Registry
	catalog       *catalog.Catalog
	twilioHandler *webhook.TwilioHandler
	lineHandler   *webhook.LINEHandler // nil unless LINE credentials are set
	server        *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	return initialize(ctx, cfg, os.Stdout)
}

func initialize(_ context.Context, cfg *config.Config, logOutput io.Writer) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, logOutput, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", serviceName)
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// ContextHandler picks request_id, sender and channel out of the context
	// for package-level slog.*Context calls.
	slog.SetDefault(log.Logger)

	log.WithFields(buildinfo.Fields()).Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(serviceName),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error tracking enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	cat := catalog.Default()
	log.WithField("courses", len(cat.Courses)).
		WithField("upcoming", cat.Upcoming.Key).
		Info("Catalog loaded")

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Resolver:         intent.NewResolver(cat),
		Renderer:         reply.NewRenderer(cat),
		Logger:           log,
		Metrics:          m,
		MaxMessageLength: cfg.MaxMessageLength,
	})

	app := &Application{
		cfg:      cfg,
		logger:   log,
		metrics:  m,
		registry: registry,
		catalog:  cat,
		twilioHandler: webhook.NewTwilioHandler(webhook.TwilioConfig{
			Replier:    processor,
			Logger:     log,
			Metrics:    m,
			AuthToken:  cfg.TwilioAuthToken,
			WebhookURL: cfg.TwilioWebhookURL,
		}),
	}
	if !cfg.TwilioSignatureEnabled() {
		log.Warn("TWILIO_AUTH_TOKEN not set, Twilio signature validation disabled")
	}

	if cfg.LINEEnabled() {
		lineHandler, err := webhook.NewLINEHandler(webhook.LINEConfig{
			ChannelSecret: cfg.LineChannelSecret,
			ChannelToken:  cfg.LineChannelToken,
			Replier:       processor,
			Logger:        log,
			Metrics:       m,
		})
		if err != nil {
			return nil, fmt.Errorf("line handler: %w", err)
		}
		app.lineHandler = lineHandler
		log.Info("LINE channel enabled")
	}

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: config.WebhookHTTPReadHeader,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// Handler returns the HTTP handler serving every route.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP until SIGINT/SIGTERM or a server error, then shuts down.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.serve(ctx)
}

// serve runs the HTTP server until ctx is done. A listen failure cancels the
// group so shutdown still runs.
func (a *Application) serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Error("HTTP server error")
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Info("Received shutdown signal")
		}
		return a.shutdown()
	})

	return g.Wait()
}

// shutdown stops accepting requests, drains in-flight work and flushes
// remote sinks, in that order.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}

	if a.lineHandler != nil {
		a.logger.Info("Waiting for LINE events to complete...")
		if err := a.lineHandler.Shutdown(shutdownCtx); err != nil {
			a.logger.WithError(err).Warn("LINE handler shutdown timeout")
		}
	}

	if sentry.IsEnabled() && !sentry.Flush(flushTimeout(shutdownCtx)) {
		a.logger.Warn("Sentry flush timed out")
	}

	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		// The async sink may be gone; stdout still works.
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}

	return errors.Join(errs...)
}

// flushTimeout returns what is left of ctx's deadline, capped at 2s.
func flushTimeout(ctx context.Context) time.Duration {
	const maxFlush = 2 * time.Second
	deadline, ok := ctx.Deadline()
	if !ok {
		return maxFlush
	}
	return min(time.Until(deadline), maxFlush)
}
