package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/skyfare/internal/repository"
)

type attemptKey struct {
	userID   string
	flightID string
}

type AttemptRepository struct {
	mu       sync.Mutex
	attempts map[attemptKey][]time.Time
}

func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{attempts: make(map[attemptKey][]time.Time)}
}

func (r *AttemptRepository) Record(_ context.Context, userID, flightID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := attemptKey{userID: userID, flightID: flightID}
	r.attempts[k] = append(r.attempts[k], at)
	return nil
}

func (r *AttemptRepository) CountRecent(_ context.Context, userID, flightID string, window time.Duration, now time.Time) (int, error) {
	cutoff := now.Add(-window)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, at := range r.attempts[attemptKey{userID: userID, flightID: flightID}] {
		if at.After(cutoff) {
			n++
		}
	}
	return n, nil
}

func (r *AttemptRepository) PurgeOlderThan(_ context.Context, window time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-window)

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for k, times := range r.attempts {
		kept := times[:0]
		for _, at := range times {
			if at.After(cutoff) {
				kept = append(kept, at)
				continue
			}
			removed++
		}
		if len(kept) == 0 {
			delete(r.attempts, k)
			continue
		}
		r.attempts[k] = kept
	}
	return removed, nil
}

var _ repository.AttemptRepository = (*AttemptRepository)(nil)
