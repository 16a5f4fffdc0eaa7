package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// StartSweeper purges expired browser sessions on a cron schedule (standard
// 5-field format) until ctx is cancelled
func StartSweeper(ctx context.Context, svc *Service, schedule string, maxAge time.Duration) error {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		sweep(ctx, svc, maxAge)
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule '%s': %w", schedule, err)
	}

	c.Start()
	svc.logger.Info().
		Str("schedule", schedule).
		Dur("max_age", maxAge).
		Msg("Session sweeper started")

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		svc.logger.Info().Msg("Session sweeper stopped")
	}()

	return nil
}

func sweep(ctx context.Context, svc *Service, maxAge time.Duration) {
	purged, err := svc.PurgeExpired(ctx, maxAge)
	if err != nil {
		svc.logger.Error().Err(err).Msg("Failed to sweep sessions")
		return
	}

	if purged > 0 {
		svc.logger.Info().Int64("purged", purged).Msg("Swept expired session values")
	} else {
		svc.logger.Debug().Msg("No expired sessions to sweep")
	}
}
