package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/nearpharma/internal/backend"
	"github.com/UnknownOlympus/nearpharma/internal/config"
	"github.com/UnknownOlympus/nearpharma/internal/console"
	"github.com/UnknownOlympus/nearpharma/internal/geolocation"
	"github.com/UnknownOlympus/nearpharma/internal/metrics"
	"github.com/UnknownOlympus/nearpharma/internal/notify"
	"github.com/UnknownOlympus/nearpharma/internal/service"
	"github.com/UnknownOlympus/nearpharma/internal/view"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// The console owns stdout, logs go to stderr.
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	api := backend.NewClient(cfg.APIBase, cfg.RequestTimeout, cfg.SearchRateLimit, logger)

	locator, err := geolocation.NewProvider(geolocation.ProviderConfig{
		Type:    geolocation.ProviderType(cfg.Location.ProviderType),
		APIKey:  cfg.Location.APIKey,
		Address: cfg.Location.Address,
		Static:  cfg.Location.Static,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geolocation provider: %v", err)
	}
	logger.InfoContext(ctx, "Geolocation provider initialized", "type", cfg.Location.ProviderType)

	printer := console.NewPrinter(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
	renderers := view.Renderers{printer}
	if cfg.GeoJSONPath != "" {
		renderers = append(renderers, view.NewGeoJSONWriter(cfg.GeoJSONPath, logger))
	}

	session := service.NewSession(
		ctx,
		logger,
		api,
		locator,
		notify.Multi{printer, notify.NewLogNotifier(logger)},
		renderers,
		appMetrics,
		service.Options{DebounceDelay: cfg.DebounceDelay, MinQueryLength: cfg.MinQueryLength},
	)
	defer session.Close()

	logger.InfoContext(ctx, "Application started", "api", cfg.APIBase)

	grp, grpCtx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		return startMonitoringServer(grpCtx, logger, reg, cfg.Port)
	})

	grp.Go(func() error {
		defer stop()
		return console.New(os.Stdin, printer, session, logger).Run(grpCtx)
	})

	if err = grp.Wait(); err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", "error", err)
		return
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// startMonitoringServer serves health check and metrics endpoints until ctx is cancelled.
func startMonitoringServer(ctx context.Context, log *slog.Logger, reg *prometheus.Registry, port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
		if _, err := writer.Write([]byte("OK")); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(readTimeout)*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(shutdownCtx, "Monitoring server shutdown failed", "error", err)
		}
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitoring server failed: %w", err)
	}

	return nil
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
