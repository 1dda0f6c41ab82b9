package flights

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/repository"
)

const DefaultSearchLimit = 10

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, input SearchInput) ([]domain.Flight, error)
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
}

// FlightCache is optional; a nil cache sends every read to the repository.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	GetFlight(ctx context.Context, flightID string) (*domain.Flight, error)
	SetFlight(ctx context.Context, f domain.Flight) error
}

type SearchInput struct {
	Departure string
	Arrival   string
	Limit     int
}

type FlightService struct {
	repo         repository.FlightRepository
	cache        FlightCache
	defaultLimit int
	log          *slog.Logger
}

type Option func(*FlightService)

func WithDefaultLimit(limit int) Option {
	return func(s *FlightService) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *FlightService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache, opts ...Option) *FlightService {
	s := &FlightService{repo: repo, cache: cache, defaultLimit: DefaultSearchLimit, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		switch {
		case err != nil:
			s.log.WarnContext(ctx, "flight cache read failed", slog.String("op", "flights.List"), logger.Err(err))
		case cached != nil:
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

// Search matches cities by case-insensitive substring. A non-positive limit
// falls back to the default.
func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.Flight, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	departure := strings.TrimSpace(input.Departure)
	arrival := strings.TrimSpace(input.Arrival)

	// Unfiltered searches page the cached catalog.
	if departure == "" && arrival == "" {
		all, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(all) > limit {
			all = all[:limit]
		}
		return all, nil
	}

	return s.repo.Search(ctx, repository.FlightFilter{
		Departure: departure,
		Arrival:   arrival,
		Limit:     limit,
	})
}

func (s *FlightService) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlight(ctx, flightID); err == nil && cached != nil {
			return cached, nil
		}
	}

	f, err := s.repo.GetByID(ctx, flightID)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			return nil, domain.NotFoundError{Resource: "flight", Err: err}
		}
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlight(ctx, *f)
	}
	return f, nil
}

var _ FlightUseCase = (*FlightService)(nil)
