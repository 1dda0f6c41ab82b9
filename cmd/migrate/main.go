package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/db"
	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/logger"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		slog.Error("load config", logger.Err(err))
		os.Exit(1)
	}
	log := logger.New(cfg.Log).With(slog.String("process", "migrate"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, cfg.Database.URL())
	if err != nil {
		log.Error("connect", logger.Err(err))
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.Storage.MigrationsDir); err != nil {
		log.Error("migrate", logger.Err(err))
		os.Exit(1)
	}
	log.Info("migrations applied", slog.String("dir", cfg.Storage.MigrationsDir))

	if !cfg.Storage.SeedFlights {
		return
	}
	inserted, err := db.SeedFlights(ctx, database, domain.SeedFlights())
	if err != nil {
		log.Error("seed flights", logger.Err(err))
		os.Exit(1)
	}
	total, err := db.CountFlights(ctx, database)
	if err != nil {
		log.Error("count flights", logger.Err(err))
		os.Exit(1)
	}
	log.Info("flights seeded", slog.Int64("inserted", inserted), slog.Int("total", total))
}
