package memory

import (
	"bytes"
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func newStores(t *testing.T, clock *fakeClock, ids repository.Identifiers) (*FlightRepository, *WalletRepository, *BookingRepository) {
	t.Helper()
	flights := NewFlightRepository(domain.SeedFlights(), WithClock(clock.Now))
	wallets := NewWalletRepository(WithClock(clock.Now))
	bookings := NewBookingRepository(flights, wallets, ids, WithClock(clock.Now))
	return flights, wallets, bookings
}

func TestFlightRepository_Search(t *testing.T) {
	repo := NewFlightRepository(domain.SeedFlights())
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 15)

	tests := []struct {
		name   string
		filter repository.FlightFilter
		want   []string
	}{
		{name: "case insensitive departure", filter: repository.FlightFilter{Departure: "mUmB"}, want: []string{"AI101", "SG202", "UK603"}},
		{name: "departure and arrival", filter: repository.FlightFilter{Departure: "delhi", Arrival: "mumbai"}, want: []string{"UK601"}},
		{name: "substring", filter: repository.FlightFilter{Arrival: "ban"}, want: []string{"AI102", "SG202"}},
		{name: "limit", filter: repository.FlightFilter{Departure: "delhi", Limit: 2}, want: []string{"AI102", "UK601"}},
		{name: "no match", filter: repository.FlightFilter{Departure: "paris"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, f := range got {
				ids = append(ids, f.FlightID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFlightRepository_GetByID(t *testing.T) {
	repo := NewFlightRepository(domain.SeedFlights())

	f, err := repo.GetByID(context.Background(), "AI101")
	require.NoError(t, err)
	assert.Equal(t, int64(250000), f.BasePrice)
	assert.Equal(t, "Air India", f.Airline)

	_, err = repo.GetByID(context.Background(), "ZZ999")
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}

func TestWalletRepository_GetOrCreateIsIdempotent(t *testing.T) {
	clock := newClock()
	repo := NewWalletRepository(WithClock(clock.Now))
	ctx := context.Background()

	w, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWalletBalance, w.Balance)

	ok, err := repo.CheckAndDebit(ctx, "user-1", 1000)
	require.NoError(t, err)
	require.True(t, ok)

	w, err = repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWalletBalance-1000, w.Balance)
}

func TestWalletRepository_CheckAndDebit(t *testing.T) {
	clock := newClock()
	repo := NewWalletRepository(WithClock(clock.Now), WithDefaultBalance(280000))
	ctx := context.Background()

	ok, err := repo.CheckAndDebit(ctx, "u", 275000)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CheckAndDebit(ctx, "u", 5001)
	require.NoError(t, err)
	assert.False(t, ok)

	w, err := repo.GetOrCreate(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), w.Balance)

	ok, err = repo.CheckAndDebit(ctx, "u", 5000)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.CheckAndDebit(ctx, "u", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestWalletRepository_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	repo := NewWalletRepository(WithDefaultBalance(100))
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CheckAndDebit(ctx, "u", 100)
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	w, err := repo.GetOrCreate(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
}

func TestWalletRepository_Credit(t *testing.T) {
	clock := newClock()
	repo := NewWalletRepository(WithClock(clock.Now))
	ctx := context.Background()

	clock.Advance(time.Minute)
	w, err := repo.Credit(ctx, "u", 2500)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWalletBalance+2500, w.Balance)
	assert.Equal(t, clock.Now(), w.UpdatedAt)

	_, err = repo.Credit(ctx, "u", -5)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestWalletRepository_Credit_Overflow(t *testing.T) {
	repo := NewWalletRepository()
	ctx := context.Background()

	w, err := repo.Credit(ctx, "u", math.MaxInt64)
	assert.ErrorIs(t, err, domain.ErrBalanceOverflow)
	assert.Nil(t, w)

	w, err = repo.GetOrCreate(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWalletBalance, w.Balance)

	w, err = repo.Credit(ctx, "u", math.MaxInt64-domain.DefaultWalletBalance)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), w.Balance)

	_, err = repo.Credit(ctx, "u", 1)
	assert.ErrorIs(t, err, domain.ErrBalanceOverflow)
}

func TestAttemptRepository_Window(t *testing.T) {
	repo := NewAttemptRepository()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, "u", "AI101", now.Add(-5*time.Minute)))
	require.NoError(t, repo.Record(ctx, "u", "AI101", now.Add(-4*time.Minute)))
	require.NoError(t, repo.Record(ctx, "u", "AI101", now))
	require.NoError(t, repo.Record(ctx, "u", "AI102", now))
	require.NoError(t, repo.Record(ctx, "other", "AI101", now))

	// The attempt exactly at now-window is outside the window.
	n, err := repo.CountRecent(ctx, "u", "AI101", 5*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountRecent(ctx, "u", "AI101", 10*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.CountRecent(ctx, "nobody", "AI101", 10*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAttemptRepository_PurgeOlderThan(t *testing.T) {
	repo := NewAttemptRepository()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, "u", "AI101", now.Add(-11*time.Minute)))
	require.NoError(t, repo.Record(ctx, "u", "AI101", now.Add(-10*time.Minute)))
	require.NoError(t, repo.Record(ctx, "u", "AI101", now.Add(-time.Minute)))
	require.NoError(t, repo.Record(ctx, "v", "SG201", now.Add(-20*time.Minute)))

	removed, err := repo.PurgeOlderThan(ctx, 10*time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	n, err := repo.CountRecent(ctx, "u", "AI101", time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.CountRecent(ctx, "v", "SG201", time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBookingRepository_CommitBooking(t *testing.T) {
	clock := newClock()
	_, wallets, bookings := newStores(t, clock, repository.Identifiers{})
	ctx := context.Background()

	b, err := bookings.CommitBooking(ctx, domain.NewBooking{UserID: "u", FlightID: "AI101", PassengerName: "Asha Rao", FinalPrice: 275000})
	require.NoError(t, err)
	assert.NotEmpty(t, b.BookingID)
	assert.True(t, domain.IsValidPNR(b.PNR))
	assert.Equal(t, int64(275000), b.FinalPrice)
	assert.Equal(t, clock.Now(), b.BookingDate)

	w, err := wallets.GetOrCreate(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWalletBalance-275000, w.Balance)
}

func TestBookingRepository_CommitBookingInsufficientFunds(t *testing.T) {
	clock := newClock()
	flights := NewFlightRepository(domain.SeedFlights())
	wallets := NewWalletRepository(WithDefaultBalance(270000))
	bookings := NewBookingRepository(flights, wallets, repository.Identifiers{}, WithClock(clock.Now))
	ctx := context.Background()

	_, err := bookings.CommitBooking(ctx, domain.NewBooking{UserID: "u", FlightID: "AI101", PassengerName: "Asha", FinalPrice: 275000})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	list, err := bookings.ListByUser(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, list)

	w, err := wallets.GetOrCreate(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(270000), w.Balance)
}

func TestBookingRepository_ConcurrentCommitsOneWinner(t *testing.T) {
	flights := NewFlightRepository(domain.SeedFlights())
	wallets := NewWalletRepository(WithDefaultBalance(250000))
	bookings := NewBookingRepository(flights, wallets, repository.Identifiers{})
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bookings.CommitBooking(ctx, domain.NewBooking{UserID: "u", FlightID: "AI101", PassengerName: "Asha", FinalPrice: 250000})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	list, err := bookings.ListByUser(ctx, "u")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	w, err := wallets.GetOrCreate(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
}

func TestBookingRepository_UniquePNRUnderConcurrency(t *testing.T) {
	_, _, bookings := newStores(t, newClock(), repository.Identifiers{})
	ctx := context.Background()

	const workers = 200
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bookings.Create(ctx, domain.NewBooking{UserID: "u", FlightID: "AI101", PassengerName: "Asha", FinalPrice: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := bookings.ListByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, list, workers)
	seenPNR := make(map[string]struct{}, workers)
	seenID := make(map[string]struct{}, workers)
	for _, b := range list {
		seenPNR[b.PNR] = struct{}{}
		seenID[b.BookingID] = struct{}{}
	}
	assert.Len(t, seenPNR, workers)
	assert.Len(t, seenID, workers)
}

func TestBookingRepository_RetriesPNRCollision(t *testing.T) {
	entropy := append(bytes.Repeat([]byte{0}, 24), bytes.Repeat([]byte{1}, 12)...)
	_, _, bookings := newStores(t, newClock(), repository.Identifiers{Entropy: bytes.NewReader(entropy)})
	ctx := context.Background()

	first, err := bookings.Create(ctx, domain.NewBooking{UserID: "u", FlightID: "AI101", PassengerName: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", first.PNR)

	second, err := bookings.Create(ctx, domain.NewBooking{UserID: "u", FlightID: "AI101", PassengerName: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", second.PNR)
}

func TestBookingRepository_PNRExhausted(t *testing.T) {
	entropy := bytes.Repeat([]byte{0}, 12*(repository.MaxPNRAttempts+1))
	_, wallets, bookings := newStores(t, newClock(), repository.Identifiers{Entropy: bytes.NewReader(entropy)})
	ctx := context.Background()

	_, err := bookings.Create(ctx, domain.NewBooking{UserID: "u", FlightID: "AI101", PassengerName: "Asha"})
	require.NoError(t, err)

	_, err = bookings.CommitBooking(ctx, domain.NewBooking{UserID: "u", FlightID: "AI101", PassengerName: "Asha", FinalPrice: 100})
	assert.ErrorIs(t, err, domain.ErrPNRExhausted)

	// No debit happened without a booking.
	w, err := wallets.GetOrCreate(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWalletBalance, w.Balance)
}

func TestBookingRepository_ListAndGet(t *testing.T) {
	clock := newClock()
	_, _, bookings := newStores(t, clock, repository.Identifiers{})
	ctx := context.Background()

	older, err := bookings.Create(ctx, domain.NewBooking{UserID: "u", FlightID: "AI101", PassengerName: "Asha", FinalPrice: 250000})
	require.NoError(t, err)
	clock.Advance(time.Hour)
	newer, err := bookings.Create(ctx, domain.NewBooking{UserID: "u", FlightID: "GONE1", PassengerName: "Asha", FinalPrice: 1})
	require.NoError(t, err)
	_, err = bookings.Create(ctx, domain.NewBooking{UserID: "other", FlightID: "AI101", PassengerName: "Ravi", FinalPrice: 1})
	require.NoError(t, err)

	list, err := bookings.ListByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.BookingID, list[0].BookingID)
	assert.Equal(t, domain.UnknownFlightField, list[0].Airline)
	assert.Equal(t, older.BookingID, list[1].BookingID)
	assert.Equal(t, "Air India", list[1].Airline)
	assert.Equal(t, "Mumbai", list[1].DepartureCity)
	assert.Equal(t, "Delhi", list[1].ArrivalCity)

	got, err := bookings.GetByID(ctx, older.BookingID, "u")
	require.NoError(t, err)
	assert.Equal(t, older.PNR, got.PNR)

	_, err = bookings.GetByID(ctx, older.BookingID, "other")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	_, err = bookings.GetByID(ctx, "missing", "u")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}
