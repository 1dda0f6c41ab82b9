package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/repository"
)

type BookingRepository struct {
	mu       sync.Mutex
	bookings []domain.Booking
	byID     map[string]int
	byPNR    map[string]struct{}

	flights *FlightRepository
	wallets *WalletRepository
	ids     repository.Identifiers
	now     func() time.Time
}

// NewBookingRepository joins bookings with flights for display and debits
// wallets in CommitBooking.
func NewBookingRepository(flights *FlightRepository, wallets *WalletRepository, ids repository.Identifiers, opts ...Option) *BookingRepository {
	o := buildOptions(opts)
	return &BookingRepository{
		byID:    make(map[string]int),
		byPNR:   make(map[string]struct{}),
		flights: flights,
		wallets: wallets,
		ids:     ids,
		now:     o.now,
	}
}

func (r *BookingRepository) Create(_ context.Context, nb domain.NewBooking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := r.allocateLocked(nb)
	if err != nil {
		return nil, err
	}
	r.insertLocked(b)
	return &b, nil
}

func (r *BookingRepository) CommitBooking(_ context.Context, nb domain.NewBooking) (*domain.Booking, error) {
	if nb.FinalPrice < 0 {
		return nil, domain.ErrInvalidAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Identifiers are allocated before the debit so nothing after it can fail.
	b, err := r.allocateLocked(nb)
	if err != nil {
		return nil, err
	}

	r.wallets.mu.Lock()
	ok := r.wallets.debitLocked(nb.UserID, nb.FinalPrice)
	r.wallets.mu.Unlock()
	if !ok {
		return nil, domain.ErrInsufficientFunds
	}

	r.insertLocked(b)
	return &b, nil
}

func (r *BookingRepository) ListByUser(_ context.Context, userID string) ([]domain.BookingSummary, error) {
	r.mu.Lock()
	owned := make([]domain.Booking, 0)
	for i := len(r.bookings) - 1; i >= 0; i-- {
		if r.bookings[i].UserID == userID {
			owned = append(owned, r.bookings[i])
		}
	}
	r.mu.Unlock()

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].BookingDate.After(owned[j].BookingDate)
	})

	out := make([]domain.BookingSummary, 0, len(owned))
	for _, b := range owned {
		out = append(out, r.summarize(b))
	}
	return out, nil
}

func (r *BookingRepository) GetByID(_ context.Context, bookingID, userID string) (*domain.BookingSummary, error) {
	r.mu.Lock()
	idx, ok := r.byID[bookingID]
	var b domain.Booking
	if ok {
		b = r.bookings[idx]
	}
	r.mu.Unlock()

	if !ok || b.UserID != userID {
		return nil, domain.ErrBookingNotFound
	}
	s := r.summarize(b)
	return &s, nil
}

func (r *BookingRepository) allocateLocked(nb domain.NewBooking) (domain.Booking, error) {
	id := r.ids.BookingID()
	for {
		if _, taken := r.byID[id]; !taken {
			break
		}
		id = r.ids.BookingID()
	}

	for attempt := 0; attempt < repository.MaxPNRAttempts; attempt++ {
		pnr, err := r.ids.PNR()
		if err != nil {
			return domain.Booking{}, fmt.Errorf("generate pnr: %w", err)
		}
		if _, taken := r.byPNR[pnr]; taken {
			continue
		}
		return domain.Booking{
			BookingID:     id,
			UserID:        nb.UserID,
			FlightID:      nb.FlightID,
			PassengerName: nb.PassengerName,
			PNR:           pnr,
			FinalPrice:    nb.FinalPrice,
			BookingDate:   r.now(),
		}, nil
	}
	return domain.Booking{}, domain.ErrPNRExhausted
}

func (r *BookingRepository) insertLocked(b domain.Booking) {
	r.byID[b.BookingID] = len(r.bookings)
	r.byPNR[b.PNR] = struct{}{}
	r.bookings = append(r.bookings, b)
}

func (r *BookingRepository) summarize(b domain.Booking) domain.BookingSummary {
	if r.flights == nil {
		return domain.Summarize(b, nil)
	}
	f, ok := r.flights.lookup(b.FlightID)
	if !ok {
		return domain.Summarize(b, nil)
	}
	return domain.Summarize(b, &f)
}

var _ repository.BookingRepository = (*BookingRepository)(nil)
