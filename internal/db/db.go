// Package db owns schema management for the postgres driver: connecting with
// database/sql, applying migrations and loading the reference flights.
package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func RunMigrations(db *sqlx.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", absPath), "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

type flightRow struct {
	FlightID      string `db:"flight_id"`
	Airline       string `db:"airline"`
	DepartureCity string `db:"departure_city"`
	ArrivalCity   string `db:"arrival_city"`
	BasePrice     int64  `db:"base_price"`
}

const insertFlight = `INSERT INTO flights (flight_id, airline, departure_city, arrival_city, base_price)
VALUES (:flight_id, :airline, :departure_city, :arrival_city, :base_price)
ON CONFLICT (flight_id) DO NOTHING`

// SeedFlights inserts flights that are not present yet and reports how many
// rows were added. Existing flights keep their current values.
func SeedFlights(ctx context.Context, db *sqlx.DB, flights []domain.Flight) (int64, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, f := range flights {
		res, err := tx.NamedExecContext(ctx, insertFlight, flightRow{
			FlightID:      f.FlightID,
			Airline:       f.Airline,
			DepartureCity: f.DepartureCity,
			ArrivalCity:   f.ArrivalCity,
			BasePrice:     f.BasePrice,
		})
		if err != nil {
			return 0, fmt.Errorf("seed flight %s: %w", f.FlightID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return inserted, nil
}

func CountFlights(ctx context.Context, db *sqlx.DB) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT count(*) FROM flights`); err != nil {
		return 0, err
	}
	return n, nil
}
