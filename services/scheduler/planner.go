package scheduler

import (
	"context"
	"fmt"
	"time"

	"evently/models"

	"go.uber.org/zap"
)

// ReminderOffset pairs a job type with its offset relative to the event
// start time. Negative offsets fire before the event, zero at start.
type ReminderOffset struct {
	Type   models.EventJobType
	Offset time.Duration
}

// DefaultOffsets returns the configured reminder ladder: one day, four hours
// and one hour before the start, plus the start itself.
func DefaultOffsets() []ReminderOffset {
	return []ReminderOffset{
		{Type: models.JobTypeRemindBefore1Day, Offset: -24 * time.Hour},
		{Type: models.JobTypeRemindBefore4Hours, Offset: -4 * time.Hour},
		{Type: models.JobTypeRemindBefore1Hour, Offset: -1 * time.Hour},
		{Type: models.JobTypeEventStarted, Offset: 0},
	}
}

// Planner computes and upserts the scheduled jobs for an event whenever the
// event is written. Invoked synchronously from the event create/update path;
// callers swallow planner errors so the surrounding write still succeeds.
type Planner struct {
	Jobs    JobStore
	Offsets []ReminderOffset
	Logger  *zap.Logger
	// Now is overridable for tests.
	Now func() time.Time
}

func NewPlanner(jobs JobStore, logger *zap.Logger) *Planner {
	return &Planner{
		Jobs:    jobs,
		Offsets: DefaultOffsets(),
		Logger:  logger,
		Now:     time.Now,
	}
}

// PlanReminders upserts one job per configured offset whose due time is still
// in the future. Non-published events get nothing scheduled; any jobs already
// pending for them are left alone and resolve themselves as completed when
// the executor re-checks the event status.
func (p *Planner) PlanReminders(ctx context.Context, event *models.Event) error {
	if !event.IsPublished() {
		p.Logger.Debug("skip planning reminders for unpublished event",
			zap.String("eventId", event.ID),
			zap.String("status", string(event.Status)))
		return nil
	}

	now := p.Now()
	for _, off := range p.Offsets {
		runAt := event.StartTime.Add(off.Offset)
		if !runAt.After(now) {
			p.Logger.Debug("skip reminder offset already in the past",
				zap.String("eventId", event.ID),
				zap.String("type", string(off.Type)),
				zap.Time("runAt", runAt))
			continue
		}

		payload := map[string]any{
			"eventId":   event.ID,
			"eventCode": event.Code,
			"type":      string(off.Type),
		}
		if _, err := p.Jobs.Upsert(ctx, event.ID, off.Type, runAt, payload); err != nil {
			return fmt.Errorf("upsert %s job for event %s: %w", off.Type, event.ID, err)
		}
		p.Logger.Info("scheduled event job",
			zap.String("eventId", event.ID),
			zap.String("type", string(off.Type)),
			zap.Time("runAt", runAt))
	}
	return nil
}
