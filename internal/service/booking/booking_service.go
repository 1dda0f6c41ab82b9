package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/kafka"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/metrics"
	"github.com/Domenick1991/skyfare/internal/repository"
	"github.com/Domenick1991/skyfare/internal/service/pricing"
	"github.com/Domenick1991/skyfare/internal/validation"
)

type BookingUseCase interface {
	SubmitBooking(ctx context.Context, input SubmitBookingInput) (*domain.Admission, error)
	ListBookings(ctx context.Context, userID string) ([]domain.BookingSummary, error)
	GetBooking(ctx context.Context, bookingID, userID string) (*domain.BookingSummary, error)
	PurgeExpiredAttempts(ctx context.Context) (int64, error)
}

// FlightLookup is the only catalog operation admission needs.
type FlightLookup interface {
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type SubmitBookingInput struct {
	UserID        string `json:"user_id" validate:"required"`
	FlightID      string `json:"flight_id" validate:"required"`
	PassengerName string `json:"passenger_name" validate:"required,min=3"`
}

type BookingService struct {
	bookings repository.BookingRepository
	wallets  repository.WalletRepository
	attempts repository.AttemptRepository
	flights  FlightLookup
	pricing  *pricing.Engine

	producer           Producer
	bookingTopic       string
	notificationsTopic string

	now func() time.Time
	log *slog.Logger
}

type BookingServiceOption func(*BookingService)

func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithLogger(log *slog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	wallets repository.WalletRepository,
	attempts repository.AttemptRepository,
	flights FlightLookup,
	engine *pricing.Engine,
	opts ...BookingServiceOption,
) *BookingService {
	s := &BookingService{
		bookings: bookings,
		wallets:  wallets,
		attempts: attempts,
		flights:  flights,
		pricing:  engine,
		now:      time.Now,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitBooking runs one request through admission control. Rejections are
// returned as *domain.RejectedError wrapping a ValidationError or an
// InsufficientFundsError; storage failures come back as domain.InternalError.
func (s *BookingService) SubmitBooking(ctx context.Context, input SubmitBookingInput) (*domain.Admission, error) {
	input.PassengerName = strings.TrimSpace(input.PassengerName)
	input.FlightID = strings.TrimSpace(input.FlightID)
	log := s.log.With(slog.String("op", "booking.SubmitBooking"),
		slog.String("user_id", input.UserID), slog.String("flight_id", input.FlightID))

	state := domain.StateReceived
	if err := validation.Struct(input); err != nil {
		return nil, s.reject(ctx, log, state, err)
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			return nil, s.reject(ctx, log, state, domain.ValidationError{Msg: "flight not found", Err: domain.ErrFlightNotFound})
		}
		return nil, s.fail(ctx, log, state, "failed to load flight", err)
	}

	now := s.now()
	if err := s.attempts.Record(ctx, input.UserID, flight.FlightID, now); err != nil {
		return nil, s.fail(ctx, log, state, "failed to record attempt", err)
	}
	state = domain.StateAttemptRecorded

	policy := s.pricing.Policy()
	recent, err := s.attempts.CountRecent(ctx, input.UserID, flight.FlightID, policy.Window, now)
	if err != nil {
		return nil, s.fail(ctx, log, state, "failed to count attempts", err)
	}
	quote := s.pricing.Quote(flight.BasePrice, recent)
	metrics.RecordQuote(quote.IsSurged)
	state = domain.StatePriced

	wallet, err := s.wallets.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return nil, s.fail(ctx, log, state, "failed to load wallet", err)
	}
	if wallet.Balance < quote.FinalPrice {
		return nil, s.reject(ctx, log, state, domain.InsufficientFundsError{
			Required:  quote.FinalPrice,
			Available: wallet.Balance,
		})
	}
	state = domain.StateFundsChecked

	booking, err := s.bookings.CommitBooking(ctx, domain.NewBooking{
		UserID:        input.UserID,
		FlightID:      flight.FlightID,
		PassengerName: input.PassengerName,
		FinalPrice:    quote.FinalPrice,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return nil, s.reject(ctx, log, state, domain.InsufficientFundsError{
				Required:  quote.FinalPrice,
				Available: wallet.Balance,
				Raced:     true,
			})
		}
		return nil, s.fail(ctx, log, state, "failed to commit booking", err)
	}
	metrics.RecordDebit(booking.FinalPrice)

	admission := &domain.Admission{
		BookingID:  booking.BookingID,
		PNR:        booking.PNR,
		FlightID:   booking.FlightID,
		BasePrice:  quote.BasePrice,
		FinalPrice: booking.FinalPrice,
		IsSurged:   quote.IsSurged,
		BookedAt:   booking.BookingDate,
		State:      domain.StateBooked,
	}
	if quote.IsSurged {
		resetAt := s.pricing.ResetAt(now)
		admission.SurgeResetsAt = &resetAt
	}

	metrics.RecordAdmission("booked", string(domain.StateBooked))
	log.InfoContext(ctx, "booking committed",
		slog.String("booking_id", booking.BookingID),
		slog.String("pnr", booking.PNR),
		slog.Int64("final_price", booking.FinalPrice),
		slog.Bool("surged", quote.IsSurged))

	s.publish(ctx, log, booking, admission)
	return admission, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]domain.BookingSummary, error) {
	if userID == "" {
		return nil, domain.ValidationError{Field: "user_id", Msg: "is required"}
	}
	list, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to list bookings", slog.String("op", "booking.ListBookings"), logger.Err(err))
		return nil, domain.InternalError{Msg: "failed to fetch bookings", Err: err}
	}
	return list, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID string) (*domain.BookingSummary, error) {
	if userID == "" {
		return nil, domain.ValidationError{Field: "user_id", Msg: "is required"}
	}
	if bookingID == "" {
		return nil, domain.ValidationError{Field: "booking_id", Msg: "is required"}
	}
	b, err := s.bookings.GetByID(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return nil, domain.NotFoundError{Resource: "booking", Err: err}
		}
		s.log.ErrorContext(ctx, "failed to load booking", slog.String("op", "booking.GetBooking"), logger.Err(err))
		return nil, domain.InternalError{Msg: "failed to fetch booking", Err: err}
	}
	return b, nil
}

// PurgeExpiredAttempts drops attempts older than the surge reset window.
func (s *BookingService) PurgeExpiredAttempts(ctx context.Context) (int64, error) {
	removed, err := s.attempts.PurgeOlderThan(ctx, s.pricing.Policy().ResetWindow, s.now())
	if err != nil {
		return 0, err
	}
	metrics.RecordPurge(removed)
	return removed, nil
}

func (s *BookingService) reject(ctx context.Context, log *slog.Logger, state domain.AdmissionState, err error) error {
	metrics.RecordAdmission("rejected", string(state))
	log.InfoContext(ctx, "booking rejected", slog.String("state", string(state)), logger.Err(err))
	return &domain.RejectedError{State: state, Err: err}
}

func (s *BookingService) fail(ctx context.Context, log *slog.Logger, state domain.AdmissionState, msg string, err error) error {
	metrics.RecordAdmission("error", string(state))
	log.ErrorContext(ctx, msg, slog.String("state", string(state)), logger.Err(err))
	return domain.InternalError{Msg: "failed to create booking", Err: err}
}

// publish is best effort: the booking is already committed.
func (s *BookingService) publish(ctx context.Context, log *slog.Logger, b *domain.Booking, a *domain.Admission) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          kafka.EventBookingCommitted,
		BookingID:     b.BookingID,
		PNR:           b.PNR,
		UserID:        b.UserID,
		FlightID:      b.FlightID,
		PassengerName: b.PassengerName,
		BasePrice:     a.BasePrice,
		FinalPrice:    b.FinalPrice,
		IsSurged:      a.IsSurged,
		BookedAt:      b.BookingDate,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, b.BookingID, event); err != nil {
		log.WarnContext(ctx, "failed to publish booking event", logger.Err(err))
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, b.BookingID, event); err != nil {
			log.WarnContext(ctx, "failed to publish notification event", logger.Err(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
