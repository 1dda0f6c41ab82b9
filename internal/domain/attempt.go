package domain

import "time"

// BookingAttempt records intent, not commitment.
type BookingAttempt struct {
	UserID   string
	FlightID string
	At       time.Time
}
