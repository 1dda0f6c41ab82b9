package api

import (
	"context"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/service/booking"
	"github.com/Domenick1991/skyfare/internal/service/flights"
	"github.com/Domenick1991/skyfare/internal/service/wallet"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) SubmitBooking(ctx context.Context, input booking.SubmitBookingInput) (*domain.Admission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admission), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, userID string) ([]domain.BookingSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingSummary), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, bookingID, userID string) (*domain.BookingSummary, error) {
	args := m.Called(ctx, bookingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingSummary), args.Error(1)
}

func (m *MockBookingUseCase) PurgeExpiredAttempts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, input flights.SearchInput) ([]domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

// MockWalletUseCase is a mock implementation of wallet.WalletUseCase
type MockWalletUseCase struct {
	mock.Mock
}

func (m *MockWalletUseCase) GetBalance(ctx context.Context, userID string) (*wallet.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Balance), args.Error(1)
}

func (m *MockWalletUseCase) TopUp(ctx context.Context, input wallet.TopUpInput) (*wallet.Balance, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Balance), args.Error(1)
}

type MockTicketRenderer struct {
	mock.Mock
}

func (m *MockTicketRenderer) Render(b domain.BookingSummary) ([]byte, string, error) {
	args := m.Called(b)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
