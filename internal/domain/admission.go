package domain

import "time"

type AdmissionState string

const (
	StateReceived        AdmissionState = "RECEIVED"
	StateAttemptRecorded AdmissionState = "ATTEMPT_RECORDED"
	StatePriced          AdmissionState = "PRICED"
	StateFundsChecked    AdmissionState = "FUNDS_CHECKED"
	StateDebited         AdmissionState = "DEBITED"
	StateBooked          AdmissionState = "BOOKED"
	StateRejected        AdmissionState = "REJECTED"
)

// Admission is the result of a booking request that reached BOOKED.
type Admission struct {
	BookingID     string
	PNR           string
	FlightID      string
	BasePrice     int64
	FinalPrice    int64
	IsSurged      bool
	SurgeResetsAt *time.Time
	BookedAt      time.Time
	State         AdmissionState
}
