package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"desguace/internal/api"
	"desguace/internal/config"
	"desguace/internal/database"
	"desguace/internal/events"
	"desguace/internal/logger"
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

	// Initialize database
	db, err := database.New(cfg.DatabaseURL, logger, cfg.LogLevel)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Part events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaEnabled() {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("Publishing part events to %s on %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	} else {
		logger.Warn("KAFKA_BROKERS not set, part events are not published")
	}
	defer publisher.Close()

	// Initialize API server
	server := api.New(cfg, logger, db.DB, publisher)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}
}
