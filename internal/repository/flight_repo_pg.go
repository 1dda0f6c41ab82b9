package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/jackc/pgx/v5"
)

const flightColumns = `flight_id, airline, departure_city, arrival_city, base_price, created_at`

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanFlights(rows)
}

func (r *PGFlightRepository) Search(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE ($1 = '' OR departure_city ILIKE $2)
		  AND ($3 = '' OR arrival_city ILIKE $4)
		ORDER BY id
		LIMIT $5`,
		filter.Departure, containsPattern(filter.Departure),
		filter.Arrival, containsPattern(filter.Arrival),
		limitArg(filter.Limit))
	if err != nil {
		return nil, err
	}
	return scanFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_id=$1`, flightID)
	var f domain.Flight
	if err := row.Scan(&f.FlightID, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.BasePrice, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func scanFlights(rows pgx.Rows) ([]domain.Flight, error) {
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.FlightID, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.BasePrice, &f.CreatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
