package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartStandingsScheduler recomputes the standings of every active
// round-robin fixture each interval. Call Shutdown on the returned
// scheduler when the server stops.
func StartStandingsScheduler(standings StandingsService, interval time.Duration, logger *slog.Logger) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: standings refresh interval must be positive, got %s", ErrValidationFailed, interval)
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if err := standings.RefreshActive(ctx); err != nil {
				logger.Error("[Scheduler] standings refresh failed", slog.Any("error", err))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("standings-refresh"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule standings refresh: %w", err)
	}

	sched.Start()
	return sched, nil
}
