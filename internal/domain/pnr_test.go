package domain

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPNR_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		pnr, err := NewPNR(rand.Reader)
		require.NoError(t, err)
		assert.True(t, IsValidPNR(pnr), "unexpected pnr %q", pnr)
	}
}

func TestNewPNR_SkipsBiasedBytes(t *testing.T) {
	// 252..255 are rejected, 0 -> 'A', 35 -> '9', 36 -> 'A'
	src := bytes.NewReader([]byte{255, 0, 35, 36, 252, 1, 2, 3, 0, 0, 0, 0})
	pnr, err := NewPNR(src)
	require.NoError(t, err)
	assert.Equal(t, "A9ABCD", pnr)
}

func TestNewPNR_ReaderError(t *testing.T) {
	_, err := NewPNR(bytes.NewReader(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read pnr entropy")
}

func TestIsValidPNR(t *testing.T) {
	assert.True(t, IsValidPNR("AB12CD"))
	assert.False(t, IsValidPNR("ab12cd"))
	assert.False(t, IsValidPNR("AB12C"))
	assert.False(t, IsValidPNR("AB12C-"))
}

func TestInsufficientFundsError(t *testing.T) {
	err := error(InsufficientFundsError{Required: 275000, Available: 270000})
	assert.Equal(t, "insufficient balance: required 2750.00, available 2700.00", err.Error())
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.True(t, IsInsufficientFunds(err))

	raced := InsufficientFundsError{Required: 1, Available: 1, Raced: true}
	assert.Equal(t, "payment failed", raced.Error())
}

func TestRejectedErrorUnwraps(t *testing.T) {
	err := error(&RejectedError{
		State: StateReceived,
		Err:   ValidationError{Field: "flight_id", Msg: "flight not found", Err: ErrFlightNotFound},
	})
	assert.True(t, IsValidation(err))
	assert.True(t, errors.Is(err, ErrFlightNotFound))
	assert.Equal(t, "flight_id: flight not found", err.Error())
}

func TestSummarizeUnknownFlight(t *testing.T) {
	s := Summarize(Booking{BookingID: "b1"}, nil)
	assert.Equal(t, UnknownFlightField, s.Airline)
	assert.Equal(t, UnknownFlightField, s.DepartureCity)

	f := SeedFlights()[0]
	s = Summarize(Booking{BookingID: "b1"}, &f)
	assert.Equal(t, "Air India", s.Airline)
	assert.Equal(t, "Mumbai", s.DepartureCity)
	assert.Equal(t, "Delhi", s.ArrivalCity)
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "2750.00", FormatMinor(275000))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "50000.00", FormatMinor(DefaultWalletBalance))
}
