package app

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Surge: config.SurgeConfig{
			Threshold:       3,
			WindowMinutes:   5,
			Percent:         10,
			ResetMinutes:    10,
			AttemptsBackend: config.AttemptsBackendStore,
		},
		Wallet:  config.WalletConfig{DefaultBalance: 300000},
		Flights: config.FlightsConfig{SearchLimit: 10},
	}
}

func TestNew_memory(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.Health)

	ctx := context.Background()
	list, err := a.Flights.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 15)

	admission, err := a.Bookings.SubmitBooking(ctx, booking.SubmitBookingInput{
		UserID: "u1", FlightID: "AI101", PassengerName: "Asha Rao",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250000), admission.FinalPrice)

	balance, err := a.Wallets.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance.Balance, "configured default balance is used")
}

func TestNew_optionalBackends(t *testing.T) {
	cfg := memoryConfig()
	cfg.Redis.Addr = "127.0.0.1:0"
	cfg.Surge.AttemptsBackend = config.AttemptsBackendRedis
	cfg.Kafka.Brokers = []string{"127.0.0.1:0"}
	cfg.Kafka.BookingTopic = "bookings"

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Contains(t, a.Health, "redis")
	assert.Len(t, a.closers, 2)

	a.Close()
	assert.Empty(t, a.closers)
}

func TestPolicyFromConfig(t *testing.T) {
	p := policyFromConfig(config.SurgeConfig{Threshold: 4, WindowMinutes: 2, Percent: 15, ResetMinutes: 6})

	assert.Equal(t, 4, p.Threshold)
	assert.Equal(t, 2*time.Minute, p.Window)
	assert.Equal(t, int64(15), p.SurchargePercent)
	assert.Equal(t, 6*time.Minute, p.ResetWindow)
}
