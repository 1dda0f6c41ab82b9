package domain

import "time"

// Booking is immutable once committed. FinalPrice is what was debited.
type Booking struct {
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id"`
	FlightID      string    `json:"flight_id"`
	PassengerName string    `json:"passenger_name"`
	PNR           string    `json:"pnr"`
	FinalPrice    int64     `json:"final_price"`
	BookingDate   time.Time `json:"booking_date"`
}

// NewBooking carries the priced request into the booking ledger.
type NewBooking struct {
	UserID        string
	FlightID      string
	PassengerName string
	FinalPrice    int64
}

// BookingSummary is a booking joined with the display fields of its flight.
type BookingSummary struct {
	Booking
	Airline       string `json:"airline"`
	DepartureCity string `json:"departure_city"`
	ArrivalCity   string `json:"arrival_city"`
}

const UnknownFlightField = "Unknown"

// Summarize joins b with f. A nil flight yields "Unknown" display fields.
func Summarize(b Booking, f *Flight) BookingSummary {
	s := BookingSummary{
		Booking:       b,
		Airline:       UnknownFlightField,
		DepartureCity: UnknownFlightField,
		ArrivalCity:   UnknownFlightField,
	}
	if f != nil {
		s.Airline = f.Airline
		s.DepartureCity = f.DepartureCity
		s.ArrivalCity = f.ArrivalCity
	}
	return s
}
