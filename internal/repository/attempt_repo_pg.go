package repository

import (
	"context"
	"time"
)

type PGAttemptRepository struct {
	db DB
}

func NewAttemptRepository(db DB) AttemptRepository {
	return &PGAttemptRepository{db: db}
}

func (r *PGAttemptRepository) Record(ctx context.Context, userID, flightID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `INSERT INTO booking_attempts (user_id, flight_id, attempt_time) VALUES ($1, $2, $3)`, userID, flightID, at)
	return err
}

func (r *PGAttemptRepository) CountRecent(ctx context.Context, userID, flightID string, window time.Duration, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM booking_attempts
		WHERE user_id=$1 AND flight_id=$2 AND attempt_time > $3`, userID, flightID, now.Add(-window)).Scan(&n)
	return n, err
}

func (r *PGAttemptRepository) PurgeOlderThan(ctx context.Context, window time.Duration, now time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM booking_attempts WHERE attempt_time <= $1`, now.Add(-window))
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ AttemptRepository = (*PGAttemptRepository)(nil)
