package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"desguace/internal/config"
	"desguace/internal/database"
	"desguace/internal/logger"
	"desguace/internal/services/settings"
	"desguace/internal/services/woocommerce"
	"desguace/internal/worker"
	"desguace/internal/worker/processors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Env: cfg.Env, File: cfg.LogFile})
	defer logger.Sync()

	if !cfg.KafkaEnabled() {
		logger.Fatal("KAFKA_BROKERS is required to run the worker")
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL, logger, cfg.LogLevel)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := settings.NewStore(db.DB)
	wooService := woocommerce.NewService(store, logger,
		woocommerce.WithHTTPTimeout(cfg.WooCommerceTimeout),
		woocommerce.WithAdapterOptions(woocommerce.WithInitPolicy(woocommerce.InitPolicy{
			Attempts: cfg.WooCommerceInitAttempts,
			Interval: cfg.WooCommerceInitInterval,
		})),
	)
	processor := processors.NewEventProcessor(db.DB, store, wooService, logger.Named("processor"))

	// Initialize worker
	w := worker.New(cfg, logger, processor)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start worker
	if err := w.Start(ctx); err != nil {
		logger.Error("Worker stopped: %v", err)
	}

	if err := w.Stop(); err != nil {
		logger.Error("Failed to close reader: %v", err)
	}
}
