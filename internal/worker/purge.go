package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Domenick1991/skyfare/internal/logger"
)

type AttemptPurger interface {
	PurgeExpiredAttempts(ctx context.Context) (int64, error)
}

// RunPurgeLoop purges expired booking attempts every interval until ctx is
// done. Failures are logged and retried on the next tick.
func RunPurgeLoop(ctx context.Context, purger AttemptPurger, interval time.Duration, log *slog.Logger) {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(slog.String("op", "worker.RunPurgeLoop"))

	if interval <= 0 {
		log.ErrorContext(ctx, "purge loop not started", slog.Duration("interval", interval))
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := purger.PurgeExpiredAttempts(ctx)
			if err != nil {
				log.ErrorContext(ctx, "purge attempts failed", logger.Err(err))
				continue
			}
			if removed > 0 {
				log.InfoContext(ctx, "purged expired attempts", slog.Int64("removed", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}
