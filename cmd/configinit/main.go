// Command configinit writes the default settings that are not present yet.
// Existing values are never overwritten, so it is safe to run on every deploy.
package main

import (
	"context"
	"log"
	"time"

	"desguace/internal/config"
	"desguace/internal/database"
	"desguace/internal/logger"
	"desguace/internal/services/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Env: cfg.Env, File: cfg.LogFile})
	defer logger.Sync()

	db, err := database.New(cfg.DatabaseURL, logger, cfg.LogLevel)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defaults := settings.DefaultSettings()
	created, err := settings.NewStore(db.DB).Seed(ctx, defaults)
	if err != nil {
		logger.Fatal("Failed to seed settings: %v", err)
	}

	logger.Info("Settings initialized: %d created, %d already present", created, len(defaults)-created)
}
