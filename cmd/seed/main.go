package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"energy-trading-platform/internal/client"
	"energy-trading-platform/internal/config"
	"energy-trading-platform/internal/database"
	"energy-trading-platform/internal/logger"
	"energy-trading-platform/internal/seed"
	"energy-trading-platform/internal/store"
	"energy-trading-platform/internal/trade"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	flags.String("seed.target", "db", `where to write sample trades: "db" or "api"`)
	flags.Int("seed.count", 50, "number of sample trades")
	flags.Int("seed.days", 30, "spread timestamps over this many past days")
	flags.String("client.base_url", "http://localhost:8000", "trades API base URL, used with --seed.target=api")
	flags.Int64("market.seed", 0, "random seed, 0 seeds from the clock")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadConfig("./configs", flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var target seed.Target
	switch cfg.Seed.Target {
	case "db":
		db, err := database.NewDatabase(cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database schema", zap.Error(err))
		}
		target = seed.StoreTarget{Store: store.NewGormStore(db, log)}
	case "api":
		restClient := client.NewRestClient(&cfg.Client, log)
		status, err := restClient.Health(ctx)
		if err != nil {
			log.Fatal("Failed to reach trades API", zap.String("base_url", cfg.Client.BaseURL), zap.Error(err))
		}
		if !status.DatabaseConnected {
			log.Fatal("Trades API is unhealthy", zap.String("status", status.Status))
		}
		target = seed.APITarget{Client: restClient}
	default:
		log.Fatal("Unknown seed target", zap.String("target", cfg.Seed.Target))
	}

	before, err := target.Count(ctx, trade.Filter{})
	if err != nil {
		log.Fatal("Failed to count existing trades", zap.Error(err))
	}
	log.Info("Current trades", zap.Int64("count", before))

	trades := seed.NewGenerator(cfg.Market.Seed, cfg.Seed.Days).Generate(cfg.Seed.Count)
	inserted, err := seed.Populate(ctx, target, trades)
	if err != nil {
		log.Fatal("Failed to insert sample data", zap.Int("inserted", inserted), zap.Error(err))
	}
	log.Info("Sample trades inserted", zap.Int("count", inserted), zap.String("target", cfg.Seed.Target))

	summary, err := seed.Summarize(ctx, target)
	if err != nil {
		log.Fatal("Failed to summarize trades", zap.Error(err))
	}
	seed.Render(os.Stdout, summary)
}
