// Package notify turns booking events into rendered tickets for the
// passenger. Delivery is a file drop plus a log line; a mail or push
// transport would plug in at deliver.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/kafka"
	"github.com/Domenick1991/skyfare/internal/logger"
	kafkago "github.com/segmentio/kafka-go"
)

type FlightLookup interface {
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
}

type TicketRenderer interface {
	Render(b domain.BookingSummary) ([]byte, string, error)
}

type Sender struct {
	flights   FlightLookup
	renderer  TicketRenderer
	outboxDir string
	log       *slog.Logger
}

func NewSender(flights FlightLookup, renderer TicketRenderer, outboxDir string, log *slog.Logger) *Sender {
	if log == nil {
		log = logger.Discard()
	}
	return &Sender{flights: flights, renderer: renderer, outboxDir: outboxDir, log: log}
}

// HandleMessage is a kafka.Consumer handler. Undecodable messages are logged
// and skipped so one bad payload does not stall the partition.
func (s *Sender) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	var event kafka.BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		s.log.WarnContext(ctx, "skipping undecodable event", slog.String("op", "notify.HandleMessage"), logger.Err(err))
		return nil
	}
	if event.Type != kafka.EventBookingCommitted {
		return nil
	}
	return s.Send(ctx, event)
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log := s.log.With(slog.String("op", "notify.Send"), slog.String("pnr", event.PNR), slog.String("user_id", event.UserID))

	var flight *domain.Flight
	f, err := s.flights.GetByID(ctx, event.FlightID)
	switch {
	case err == nil:
		flight = f
	case errors.Is(err, domain.ErrFlightNotFound):
	default:
		return fmt.Errorf("load flight %s: %w", event.FlightID, err)
	}

	summary := domain.Summarize(domain.Booking{
		BookingID:     event.BookingID,
		UserID:        event.UserID,
		FlightID:      event.FlightID,
		PassengerName: event.PassengerName,
		PNR:           event.PNR,
		FinalPrice:    event.FinalPrice,
		BookingDate:   event.BookedAt,
	}, flight)

	pdf, filename, err := s.renderer.Render(summary)
	if err != nil {
		return err
	}
	if err := s.deliver(filename, pdf); err != nil {
		return err
	}

	log.InfoContext(ctx, "ticket sent",
		slog.String("file", filename),
		slog.Int("bytes", len(pdf)),
		slog.String("price", domain.FormatMinor(event.FinalPrice)),
		slog.Bool("surged", event.IsSurged))
	return nil
}

func (s *Sender) deliver(filename string, pdf []byte) error {
	if s.outboxDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.outboxDir, 0o755); err != nil {
		return fmt.Errorf("create outbox: %w", err)
	}
	return os.WriteFile(filepath.Join(s.outboxDir, filename), pdf, 0o644)
}
