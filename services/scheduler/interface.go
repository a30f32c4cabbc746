// Package scheduler contains the event reminder engine: the planner that
// turns event writes into scheduled jobs, the executor that carries a due
// job through notification fan-out and the external callback, and the
// polling loop that drives execution.
package scheduler

import (
	"context"
	"time"

	"evently/models"
)

// JobStore is the slice of the job repository the scheduler needs.
// Satisfied by jobRepo.EventJobRepository.
type JobStore interface {
	Upsert(ctx context.Context, eventID string, jobType models.EventJobType, runAt time.Time, payload map[string]any) (*models.EventJob, error)
	FindDue(ctx context.Context, now time.Time, limit int64) ([]models.EventJob, error)
	Transition(ctx context.Context, id string, status models.EventJobStatus, executedAt *time.Time, lastError string) error
}

// EventSource re-loads events at execution time. Satisfied by
// eventRepo.EventRepository.
type EventSource interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
}

// Fanout delivers the in-app notification for a due job. Satisfied by
// notification.NotificationService.
type Fanout interface {
	NotifyEventParticipants(ctx context.Context, event *models.Event, title, message string, ntype models.NotificationType, scheduledTime *time.Time) (*models.Notification, error)
}

// JobExecutor processes one due job. Satisfied by *Executor.
type JobExecutor interface {
	Execute(ctx context.Context, job models.EventJob)
}
