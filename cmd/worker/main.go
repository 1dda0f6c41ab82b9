package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/app"
	"github.com/Domenick1991/skyfare/internal/kafka"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/notify"
	"github.com/Domenick1991/skyfare/internal/ticket"
	"github.com/Domenick1991/skyfare/internal/worker"
	kafkaGo "github.com/segmentio/kafka-go"
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
	log := logger.New(cfg.Log).With(slog.String("process", "worker"))

	if cfg.Storage.Driver == config.DriverMemory && cfg.Surge.AttemptsBackend == config.AttemptsBackendStore {
		log.Warn("worker shares no attempt ledger with the api in memory mode; purging only its own store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("build application", logger.Err(err))
		os.Exit(1)
	}
	defer a.Close()

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()

		sender := notify.NewSender(a.Flights, ticket.NewRenderer(time.Local), cfg.Worker.TicketOutboxDir, log)
		go func() {
			err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
				if err := sender.HandleMessage(ctx, msg); err != nil {
					log.Error("notification failed", slog.Int64("offset", msg.Offset), logger.Err(err))
				}
				return nil
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("consumer stopped", logger.Err(err))
			}
		}()
		log.Info("notification consumer started", slog.String("topic", cfg.Kafka.NotificationsTopic))
	}

	log.Info("purge loop started", slog.Duration("interval", cfg.Worker.PurgeInterval()))
	worker.RunPurgeLoop(ctx, a.Bookings, cfg.Worker.PurgeInterval(), log)
	log.Info("worker stopped")
}
