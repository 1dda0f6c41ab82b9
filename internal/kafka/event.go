package kafka

import "time"

const EventBookingCommitted = "booking_committed"

// BookingEvent is published after a booking reaches BOOKED. It carries
// enough of the booking to render a ticket without a database read.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"booking_id"`
	PNR           string    `json:"pnr"`
	UserID        string    `json:"user_id"`
	FlightID      string    `json:"flight_id"`
	PassengerName string    `json:"passenger_name"`
	BasePrice     int64     `json:"base_price"`
	FinalPrice    int64     `json:"final_price"`
	IsSurged      bool      `json:"is_surged"`
	BookedAt      time.Time `json:"booked_at"`
}
