package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/skyfare/api"
	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/app"
	"github.com/Domenick1991/skyfare/internal/bootstrap"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/ticket"
	"github.com/Domenick1991/skyfare/internal/worker"
	"github.com/gin-gonic/gin"
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
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("build application", logger.Err(err))
		os.Exit(1)
	}
	defer a.Close()

	if !cfg.Worker.DisableEmbeddedPurge {
		go worker.RunPurgeLoop(ctx, a.Bookings, cfg.Worker.PurgeInterval(), log)
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(cfg.HTTP, cfg.Auth, api.Deps{
		Flights:  a.Flights,
		Bookings: a.Bookings,
		Wallets:  a.Wallets,
		Tickets:  ticket.NewRenderer(time.Local),
		Health:   a.Health,
		Log:      log,
	})

	if err := bootstrap.Run(ctx, cfg, router, log); err != nil {
		log.Error("server error", logger.Err(err))
		os.Exit(1)
	}
}
