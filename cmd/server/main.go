package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"energy-trading-platform/internal/api"
	"energy-trading-platform/internal/config"
	"energy-trading-platform/internal/database"
	"energy-trading-platform/internal/logger"
	"energy-trading-platform/internal/market"
	"energy-trading-platform/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs", nil)
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	gin.SetMode(cfg.Server.Mode)

	// Connect to the database and create the schema once, before serving
	db, err := database.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.", zap.String("driver", cfg.Database.Driver))

	tradeStore := store.NewGormStore(db, log)
	feed := market.NewFeed(cfg.Market.Volatility, cfg.Market.Seed)
	handler := api.NewHandler(tradeStore, feed, log)
	server := api.NewServer(cfg.Server, handler, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-server.Start():
		if err != nil {
			log.Error("API server stopped unexpectedly", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received, gracefully shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server has been shut down.")
}
