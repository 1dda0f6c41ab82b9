package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/jackc/pgx/v5"
)

const bookingSummarySelect = `SELECT b.booking_id, b.user_id, b.flight_id, b.passenger_name, b.pnr, b.final_price, b.booking_date,
	COALESCE(f.airline, 'Unknown'), COALESCE(f.departure_city, 'Unknown'), COALESCE(f.arrival_city, 'Unknown')
	FROM bookings b LEFT JOIN flights f ON f.flight_id = b.flight_id`

type PGBookingRepository struct {
	db             DB
	ids            Identifiers
	defaultBalance int64
}

func NewBookingRepository(db DB, ids Identifiers, defaultBalance int64) BookingRepository {
	return &PGBookingRepository{db: db, ids: ids, defaultBalance: defaultBalance}
}

func (r *PGBookingRepository) Create(ctx context.Context, nb domain.NewBooking) (*domain.Booking, error) {
	return r.insert(ctx, r.db, nb)
}

func (r *PGBookingRepository) CommitBooking(ctx context.Context, nb domain.NewBooking) (*domain.Booking, error) {
	if nb.FinalPrice < 0 {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := ensureWallet(ctx, tx, nb.UserID, r.defaultBalance); err != nil {
		return nil, err
	}
	ok, err := debitWallet(ctx, tx, nb.UserID, nb.FinalPrice)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInsufficientFunds
	}

	b, err := r.insert(ctx, tx, nb)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// insert retries on booking_id or pnr conflicts with fresh identifiers.
func (r *PGBookingRepository) insert(ctx context.Context, q querier, nb domain.NewBooking) (*domain.Booking, error) {
	for attempt := 0; attempt < MaxPNRAttempts; attempt++ {
		pnr, err := r.ids.PNR()
		if err != nil {
			return nil, err
		}
		b := domain.Booking{
			BookingID:     r.ids.BookingID(),
			UserID:        nb.UserID,
			FlightID:      nb.FlightID,
			PassengerName: nb.PassengerName,
			PNR:           pnr,
			FinalPrice:    nb.FinalPrice,
		}
		err = q.QueryRow(ctx, `INSERT INTO bookings (booking_id, user_id, flight_id, passenger_name, pnr, final_price, booking_date)
			VALUES ($1, $2, $3, $4, $5, $6, now())
			ON CONFLICT DO NOTHING
			RETURNING booking_date`, b.BookingID, b.UserID, b.FlightID, b.PassengerName, b.PNR, b.FinalPrice).
			Scan(&b.BookingDate)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &b, nil
	}
	return nil, domain.ErrPNRExhausted
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.BookingSummary, error) {
	rows, err := r.db.Query(ctx, bookingSummarySelect+` WHERE b.user_id=$1 ORDER BY b.booking_date DESC, b.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.BookingSummary, 0)
	for rows.Next() {
		s, err := scanBookingSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, bookingID, userID string) (*domain.BookingSummary, error) {
	row := r.db.QueryRow(ctx, bookingSummarySelect+` WHERE b.booking_id=$1 AND b.user_id=$2`, bookingID, userID)
	s, err := scanBookingSummary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanBookingSummary(row pgx.Row) (*domain.BookingSummary, error) {
	var s domain.BookingSummary
	if err := row.Scan(&s.BookingID, &s.UserID, &s.FlightID, &s.PassengerName, &s.PNR, &s.FinalPrice, &s.BookingDate,
		&s.Airline, &s.DepartureCity, &s.ArrivalCity); err != nil {
		return nil, err
	}
	return &s, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
