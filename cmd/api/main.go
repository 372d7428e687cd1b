// Package main is the entrypoint for the diario API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/diario/diario/internal/cache"
	"github.com/diario/diario/internal/config"
	"github.com/diario/diario/internal/events"
	"github.com/diario/diario/internal/logging"
	"github.com/diario/diario/internal/metrics"
	"github.com/diario/diario/internal/repository"
	"github.com/diario/diario/internal/schema"
	"github.com/diario/diario/internal/server"
	"github.com/diario/diario/internal/service"
	"github.com/diario/diario/web"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.AutoMigrate {
		if err := schema.Up(cfg.DatabaseURL); err != nil {
			logger.Error("failed to apply migrations",
				slog.String("error", logging.SanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", logging.SanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", logging.RedactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", logging.SanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", logging.RedactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	frontend, err := web.Files(cfg.StaticDir)
	if err != nil {
		logger.Error("failed to load frontend", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metricsRecorder := metrics.NewInMemory()

	var publisher events.Publisher = events.NewNoop()
	if cfg.EventsEnabled() {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger, metricsRecorder)
		if err != nil {
			logger.Error("failed to create event publisher", slog.String("error", err.Error()))
			os.Exit(1)
		}
		publisher = kafka
		logger.Info("publishing events", "topic", cfg.KafkaTopic, "brokers", len(cfg.KafkaBrokers))
	}

	journal := service.NewJournalService(service.JournalConfig{
		Store:         repo,
		Cache:         cacheClient,
		Publisher:     publisher,
		Metrics:       metricsRecorder,
		Logger:        logger,
		PostsCacheTTL: cfg.PostsCacheTTL,
	})

	r := setupRouter(routerDeps{
		Config:   cfg,
		Logger:   logger,
		Journal:  journal,
		DB:       repo,
		Cache:    cacheClient,
		Limiter:  cacheClient,
		Metrics:  metricsRecorder,
		Frontend: frontend,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("events", func(context.Context) error {
		return publisher.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
