package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/Domenick1991/skyfare/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	attemptKeyPrefix = "surge:attempts:"
	purgeScanCount   = 100
)

// AttemptLedger keeps one sorted set per (user, flight) scored by attempt
// time in unix milliseconds. Keys expire after the retention window so idle
// pairs disappear without a purge.
type AttemptLedger struct {
	client    *redis.Client
	retention time.Duration
	newMember func() string
}

func NewAttemptLedger(client *redis.Client, retention time.Duration) *AttemptLedger {
	return &AttemptLedger{client: client, retention: retention, newMember: uuid.NewString}
}

func (l *AttemptLedger) Record(ctx context.Context, userID, flightID string, at time.Time) error {
	key := attemptKey(userID, flightID)
	if err := l.client.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixMilli()), Member: l.newMember()}).Err(); err != nil {
		return err
	}
	return l.client.PExpire(ctx, key, l.retention).Err()
}

func (l *AttemptLedger) CountRecent(ctx context.Context, userID, flightID string, window time.Duration, now time.Time) (int, error) {
	n, err := l.client.ZCount(ctx, attemptKey(userID, flightID), "("+millis(now.Add(-window)), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (l *AttemptLedger) PurgeOlderThan(ctx context.Context, window time.Duration, now time.Time) (int64, error) {
	cutoff := millis(now.Add(-window))

	var (
		removed int64
		cursor  uint64
	)
	for {
		keys, next, err := l.client.Scan(ctx, cursor, attemptKeyPrefix+"*", purgeScanCount).Result()
		if err != nil {
			return removed, err
		}
		for _, key := range keys {
			n, err := l.client.ZRemRangeByScore(ctx, key, "-inf", cutoff).Result()
			if err != nil {
				return removed, err
			}
			removed += n
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// attemptKey length-prefixes the user id so ids containing ':' cannot alias
// another pair.
func attemptKey(userID, flightID string) string {
	return attemptKeyPrefix + strconv.Itoa(len(userID)) + ":" + userID + ":" + flightID
}

func millis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

var _ repository.AttemptRepository = (*AttemptLedger)(nil)
