package worker

import (
	"context"
	"time"

	"hygpos/internal/dto"

	"github.com/rs/zerolog/log"
)

// ArchiveRunner is the weekly archive entry point.
type ArchiveRunner interface {
	RunWeekly(ctx context.Context) (*dto.ArchiveRunResponse, error)
}

type ArchiveSchedulerConfig struct {
	Runner   ArchiveRunner
	Weekday  time.Weekday
	Hour     int
	Location *time.Location
}

// StartArchiveScheduler runs the weekly archive at Weekday/Hour in the
// business timezone until ctx is cancelled. Retries and operator alerts
// live in the runner.
func StartArchiveScheduler(ctx context.Context, cfg ArchiveSchedulerConfig) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	go func() {
		log.Info().
			Str("weekday", cfg.Weekday.String()).
			Int("hour", cfg.Hour).
			Msg("archive_scheduler: started")
		for {
			next := NextRun(time.Now(), cfg.Weekday, cfg.Hour, cfg.Location)
			log.Info().Time("next_run", next).Msg("archive_scheduler: waiting")

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Info().Msg("archive_scheduler: shutting down")
				return
			case <-timer.C:
			}

			resp, err := cfg.Runner.RunWeekly(ctx)
			if err != nil {
				log.Error().Err(err).Msg("archive_scheduler: weekly archive failed")
				continue
			}
			log.Info().Int("orders", resp.Orders).Str("backup", resp.BackupPath).Msg("archive_scheduler: weekly archive done")
		}
	}()
}

// NextRun returns the first weekday/hour strictly after now, in loc.
func NextRun(now time.Time, weekday time.Weekday, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	days := (int(weekday) - int(local.Weekday()) + 7) % 7
	next := time.Date(local.Year(), local.Month(), local.Day()+days, hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
