package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Northstar/internal/api"
	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
	"github.com/MikeSquared-Agency/Northstar/internal/config"
	"github.com/MikeSquared-Agency/Northstar/internal/essay"
	"github.com/MikeSquared-Agency/Northstar/internal/events"
	"github.com/MikeSquared-Agency/Northstar/internal/inference"
	"github.com/MikeSquared-Agency/Northstar/internal/metrics"
	"github.com/MikeSquared-Agency/Northstar/internal/ranking"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	snapshot, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load catalog", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "source", cfg.Catalog.Source, "scholarships", snapshot.Len())

	// Inference
	client, err := newInferenceClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to build inference client", "provider", cfg.Inference.Provider, "error", err)
		os.Exit(1)
	}
	client = metrics.Instrument(cfg.Inference.Provider, client)

	// Events (optional)
	var publisher events.Publisher
	if cfg.Events.NATSURL != "" {
		np, err := events.NewNATSPublisher(ctx, cfg.Events.NATSURL, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			publisher = np
			defer np.Close()
			logger.Info("connected to nats")
		}
	}

	ranker := ranking.NewRanker(client, logger)
	orchestrator := essay.NewOrchestrator(snapshot, client, logger)

	// API server
	router := api.NewRouter(snapshot, ranker, orchestrator, publisher, api.RouterConfig{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		TopK:               cfg.Ranking.TopK,
	}, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Snapshot, error) {
	switch cfg.Catalog.Source {
	case "s3":
		s3cfg := cfg.Catalog.S3
		client, err := catalog.NewS3Client(ctx, catalog.S3Config{
			Bucket:    s3cfg.Bucket,
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return catalog.LoadS3(ctx, client, s3cfg.Bucket, s3cfg.ScholarshipsKey, s3cfg.NarrativesKey, logger)
	case "postgres":
		return catalog.LoadPostgres(ctx, cfg.Catalog.DatabaseURL)
	default:
		return catalog.LoadFile(cfg.Catalog.ScholarshipsPath, cfg.Catalog.NarrativesPath, logger)
	}
}

func newInferenceClient(ctx context.Context, cfg *config.Config) (inference.Client, error) {
	ic := cfg.Inference
	switch ic.Provider {
	case "gemini":
		gc, err := inference.NewGeminiClient(ctx, ic.GoogleAPIKey, ic.Model, ic.MaxTokens)
		if err != nil {
			return nil, err
		}
		return gc, nil
	default:
		if ic.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		return inference.NewAnthropicClient(inference.AnthropicConfig{
			APIKey:    ic.AnthropicAPIKey,
			BaseURL:   ic.BaseURL,
			Model:     ic.Model,
			MaxTokens: ic.MaxTokens,
			Timeout:   cfg.InferenceTimeout(),
		}), nil
	}
}
