package repository

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/google/uuid"
)

// MaxPNRAttempts bounds PNR regeneration after unique-index collisions.
const MaxPNRAttempts = 10

// FlightFilter matches cities by case-insensitive substring. Empty fields
// match everything; Limit <= 0 means no limit.
type FlightFilter struct {
	Departure string
	Arrival   string
	Limit     int
}

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	// GetByID returns domain.ErrFlightNotFound for unknown ids.
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
}

type WalletRepository interface {
	// GetOrCreate is idempotent: the wallet is created with the default
	// balance on first access and never reset afterwards.
	GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error)
	// CheckAndDebit subtracts amount only if the balance covers it. An
	// insufficient balance is reported as false, not as an error.
	CheckAndDebit(ctx context.Context, userID string, amount int64) (bool, error)
	Credit(ctx context.Context, userID string, amount int64) (*domain.Wallet, error)
}

type BookingRepository interface {
	// Create stores a booking without touching the wallet.
	Create(ctx context.Context, nb domain.NewBooking) (*domain.Booking, error)
	// CommitBooking debits nb.FinalPrice and stores the booking as one
	// atomic step. A failed debit returns domain.ErrInsufficientFunds and
	// leaves both wallet and ledger untouched.
	CommitBooking(ctx context.Context, nb domain.NewBooking) (*domain.Booking, error)
	// ListByUser returns the user's bookings newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.BookingSummary, error)
	// GetByID returns domain.ErrBookingNotFound when the booking does not
	// exist or belongs to another user.
	GetByID(ctx context.Context, bookingID, userID string) (*domain.BookingSummary, error)
}

type AttemptRepository interface {
	Record(ctx context.Context, userID, flightID string, at time.Time) error
	// CountRecent counts attempts with timestamp strictly after now-window.
	CountRecent(ctx context.Context, userID, flightID string, window time.Duration, now time.Time) (int, error)
	// PurgeOlderThan deletes attempts with timestamp at or before now-window.
	PurgeOlderThan(ctx context.Context, window time.Duration, now time.Time) (int64, error)
}

// Identifiers allocates booking ids and PNRs. Entropy defaults to crypto/rand.
type Identifiers struct {
	Entropy io.Reader
}

func (g Identifiers) BookingID() string {
	return uuid.NewString()
}

func (g Identifiers) PNR() (string, error) {
	r := g.Entropy
	if r == nil {
		r = rand.Reader
	}
	return domain.NewPNR(r)
}
