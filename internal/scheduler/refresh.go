package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tradecal/internal/calendar"
	"github.com/aristath/tradecal/internal/registry"
	"github.com/aristath/tradecal/internal/store"
)

// RefreshJob rebuilds the configured calendars for the current date.
// Calendars cache by construction date, so running this shortly after
// the UTC day rolls over keeps the default-window calendars warm, and
// the snapshot store keeps a daily record of each schedule.
type RefreshJob struct {
	registry  *registry.Registry
	store     *store.Store
	calendars []string
	log       zerolog.Logger
}

// NewRefreshJob creates a refresh job for the named calendars. The
// store may be nil to skip snapshotting.
func NewRefreshJob(reg *registry.Registry, st *store.Store, calendars []string, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		registry:  reg,
		store:     st,
		calendars: calendars,
		log:       log.With().Str("component", "refresh_job").Logger(),
	}
}

// Name implements Job
func (j *RefreshJob) Name() string { return "calendar_refresh" }

// Run implements Job. Failures are collected per calendar so one broken
// definition does not block the rest.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var errs []error
	for _, name := range j.calendars {
		cal, err := j.registry.Get(name, calendar.Options{})
		if err != nil {
			j.log.Error().Err(err).Str("calendar", name).Msg("refresh failed")
			errs = append(errs, err)
			continue
		}
		j.log.Debug().
			Str("calendar", name).
			Int("sessions", len(cal.Sessions())).
			Msg("calendar refreshed")

		if j.store == nil {
			continue
		}
		if _, err := j.store.SaveSnapshot(ctx, cal); err != nil {
			j.log.Error().Err(err).Str("calendar", name).Msg("snapshot failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
