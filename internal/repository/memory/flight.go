package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/repository"
)

type FlightRepository struct {
	mu      sync.RWMutex
	flights []domain.Flight
	byID    map[string]int
}

// NewFlightRepository keeps flights in the given order; later duplicates of a
// flight id are ignored.
func NewFlightRepository(flights []domain.Flight, opts ...Option) *FlightRepository {
	o := buildOptions(opts)
	r := &FlightRepository{byID: make(map[string]int, len(flights))}
	for _, f := range flights {
		if _, ok := r.byID[f.FlightID]; ok {
			continue
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = o.now()
		}
		r.byID[f.FlightID] = len(r.flights)
		r.flights = append(r.flights, f)
	}
	return r
}

func (r *FlightRepository) List(_ context.Context) ([]domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Flight, len(r.flights))
	copy(out, r.flights)
	return out, nil
}

func (r *FlightRepository) Search(_ context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	dep := strings.ToLower(filter.Departure)
	arr := strings.ToLower(filter.Arrival)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Flight, 0)
	for _, f := range r.flights {
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
		if dep != "" && !strings.Contains(strings.ToLower(f.DepartureCity), dep) {
			continue
		}
		if arr != "" && !strings.Contains(strings.ToLower(f.ArrivalCity), arr) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *FlightRepository) GetByID(_ context.Context, flightID string) (*domain.Flight, error) {
	f, ok := r.lookup(flightID)
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	return &f, nil
}

func (r *FlightRepository) lookup(flightID string) (domain.Flight, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[flightID]
	if !ok {
		return domain.Flight{}, false
	}
	return r.flights[idx], true
}

var _ repository.FlightRepository = (*FlightRepository)(nil)
