package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Houeta/pulsemarket/internal/api"
	"github.com/Houeta/pulsemarket/internal/bot"
	"github.com/Houeta/pulsemarket/internal/config"
	"github.com/Houeta/pulsemarket/internal/metrics"
	"github.com/Houeta/pulsemarket/internal/repository/sqlite"
	"github.com/Houeta/pulsemarket/internal/services/featured"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 5 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine, the environment may already be set.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o750); err != nil {
		log.Fatalf("Failed to create storage directory: %v", err)
	}
	repo, err := sqlite.NewRepository(ctx, logger, cfg.StoragePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer repo.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := api.NewClient(logger, cfg.APIURL, api.WithTimeout(cfg.HTTP.Timeout))

	marketBot, err := bot.NewBot(logger, bot.Settings{
		Token:       cfg.Tg.Token,
		Poller:      cfg.Tg.Timeout,
		MaxPrice:    cfg.Feed.MaxPrice,
		FeedTimeout: cfg.HTTP.Timeout,
		Metrics:     metrics.NewFeedMetrics(reg),
	}, client, repo)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	checker := featured.NewChecker(logger, client, repo, metrics.NewFeaturedMetrics(reg))

	metricsSrv := startMetricsServer(logger, cfg.MetricsAddr, reg)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the bot in a goroutine to allow main to listen for signals.
	go marketBot.Start()

	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		checker.Run(ctx, cfg.Feed.FeaturedInterval, marketBot.NotifyFeatured)
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.Info("Shutdown signal received. Stopping application...")

	// Stop the bot gracefully.
	marketBot.Stop()
	<-watcherDone

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err = metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to stop metrics server", "error", err)
		}
	}

	// Log graceful shutdown completion.
	logger.Info("Application stopped gracefully.")
}

// startMetricsServer serves /metrics on addr. An empty addr disables it.
func startMetricsServer(log *slog.Logger, addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", "error", err)
		}
	}()

	return srv
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
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
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
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
