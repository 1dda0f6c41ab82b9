package domain

import "time"

type Flight struct {
	FlightID      string    `json:"flight_id"`
	Airline       string    `json:"airline"`
	DepartureCity string    `json:"departure_city"`
	ArrivalCity   string    `json:"arrival_city"`
	BasePrice     int64     `json:"base_price"`
	CreatedAt     time.Time `json:"created_at"`
}

// SeedFlights is the reference catalog loaded by the memory store and by
// the migrate command when seeding is enabled.
func SeedFlights() []Flight {
	return []Flight{
		{FlightID: "AI101", Airline: "Air India", DepartureCity: "Mumbai", ArrivalCity: "Delhi", BasePrice: 250000},
		{FlightID: "AI102", Airline: "Air India", DepartureCity: "Delhi", ArrivalCity: "Bangalore", BasePrice: 280000},
		{FlightID: "SG201", Airline: "SpiceJet", DepartureCity: "Hyderabad", ArrivalCity: "Chennai", BasePrice: 220000},
		{FlightID: "SG202", Airline: "SpiceJet", DepartureCity: "Mumbai", ArrivalCity: "Bangalore", BasePrice: 270000},
		{FlightID: "UK601", Airline: "Vistara", DepartureCity: "Delhi", ArrivalCity: "Mumbai", BasePrice: 290000},
		{FlightID: "UK602", Airline: "Vistara", DepartureCity: "Bangalore", ArrivalCity: "Kolkata", BasePrice: 310000},
		{FlightID: "G8301", Airline: "GoAir", DepartureCity: "Chennai", ArrivalCity: "Delhi", BasePrice: 240000},
		{FlightID: "G8302", Airline: "GoAir", DepartureCity: "Pune", ArrivalCity: "Mumbai", BasePrice: 210000},
		{FlightID: "I5401", Airline: "IndiGo", DepartureCity: "Hyderabad", ArrivalCity: "Mumbai", BasePrice: 260000},
		{FlightID: "I5402", Airline: "IndiGo", DepartureCity: "Bangalore", ArrivalCity: "Delhi", BasePrice: 300000},
		{FlightID: "AI103", Airline: "Air India", DepartureCity: "Kolkata", ArrivalCity: "Pune", BasePrice: 265000},
		{FlightID: "SG203", Airline: "SpiceJet", DepartureCity: "Delhi", ArrivalCity: "Hyderabad", BasePrice: 255000},
		{FlightID: "UK603", Airline: "Vistara", DepartureCity: "Mumbai", ArrivalCity: "Kolkata", BasePrice: 295000},
		{FlightID: "G8303", Airline: "GoAir", DepartureCity: "Bangalore", ArrivalCity: "Pune", BasePrice: 235000},
		{FlightID: "I5403", Airline: "IndiGo", DepartureCity: "Delhi", ArrivalCity: "Chennai", BasePrice: 285000},
	}
}
