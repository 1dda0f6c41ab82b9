// Package app wires configuration into repositories and services. Both
// binaries build their dependency graph through New.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Domenick1991/skyfare/api"
	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/cache"
	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/kafka"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/repository"
	"github.com/Domenick1991/skyfare/internal/repository/memory"
	"github.com/Domenick1991/skyfare/internal/service/booking"
	"github.com/Domenick1991/skyfare/internal/service/flights"
	"github.com/Domenick1991/skyfare/internal/service/pricing"
	"github.com/Domenick1991/skyfare/internal/service/wallet"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Flights  *flights.FlightService
	Bookings *booking.BookingService
	Wallets  *wallet.WalletService
	// Health holds the external dependencies that were configured.
	Health map[string]api.Pinger

	closers []func()
}

type stores struct {
	flights  repository.FlightRepository
	wallets  repository.WalletRepository
	bookings repository.BookingRepository
	attempts repository.AttemptRepository
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = logger.Discard()
	}
	a := &App{Health: make(map[string]api.Pinger)}

	st, err := a.openStores(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	var flightCache flights.FlightCache
	if cfg.Redis.Addr != "" {
		client := cache.NewRedisClient(cfg.Redis)
		a.closers = append(a.closers, func() { _ = client.Close() })
		redisCache := cache.NewRedisCache(client, cfg.Flights.CacheTTL())
		flightCache = redisCache
		a.Health["redis"] = redisCache
		if cfg.Surge.AttemptsBackend == config.AttemptsBackendRedis {
			st.attempts = cache.NewAttemptLedger(client, cfg.Surge.Reset())
		}
		log.Info("redis enabled", slog.String("addr", cfg.Redis.Addr), slog.String("attempts_backend", cfg.Surge.AttemptsBackend))
	}

	a.Flights = flights.NewFlightService(st.flights, flightCache,
		flights.WithDefaultLimit(cfg.Flights.SearchLimit),
		flights.WithLogger(log),
	)
	a.Wallets = wallet.NewWalletService(st.wallets, log)

	opts := []booking.BookingServiceOption{booking.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		a.closers = append(a.closers, func() { _ = producer.Close() })
		opts = append(opts,
			booking.WithProducer(producer, cfg.Kafka.BookingTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}
	a.Bookings = booking.NewBookingService(st.bookings, st.wallets, st.attempts, a.Flights,
		pricing.NewEngine(policyFromConfig(cfg.Surge)), opts...)

	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (stores, error) {
	ids := repository.Identifiers{}

	if cfg.Storage.Driver == config.DriverPostgres {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return stores{}, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := pool.Ping(ctx); err != nil {
			return stores{}, fmt.Errorf("ping postgres: %w", err)
		}
		a.Health["postgres"] = pool
		log.Info("using postgres storage", slog.String("host", cfg.Database.Host), slog.String("db", cfg.Database.Name))
		return stores{
			flights:  repository.NewFlightRepository(pool),
			wallets:  repository.NewWalletRepository(pool, cfg.Wallet.DefaultBalance),
			bookings: repository.NewBookingRepository(pool, ids, cfg.Wallet.DefaultBalance),
			attempts: repository.NewAttemptRepository(pool),
		}, nil
	}

	flightRepo := memory.NewFlightRepository(domain.SeedFlights())
	wallets := memory.NewWalletRepository(memory.WithDefaultBalance(cfg.Wallet.DefaultBalance))
	log.Info("using in-memory storage")
	return stores{
		flights:  flightRepo,
		wallets:  wallets,
		bookings: memory.NewBookingRepository(flightRepo, wallets, ids),
		attempts: memory.NewAttemptRepository(),
	}, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func policyFromConfig(s config.SurgeConfig) pricing.Policy {
	return pricing.Policy{
		Threshold:        s.Threshold,
		Window:           s.Window(),
		SurchargePercent: s.Percent,
		ResetWindow:      s.Reset(),
	}
}
