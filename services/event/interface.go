package event

import (
	"context"
	"time"

	eventRepo "evently/database/repository/event"
	participantRepo "evently/database/repository/participant"
	"evently/models"
	"evently/services/notification"

	"go.uber.org/zap"
)

// ReminderPlanner is the slice of the scheduler the event service needs.
// Satisfied by *scheduler.Planner.
type ReminderPlanner interface {
	PlanReminders(ctx context.Context, event *models.Event) error
}

// EventService is the thin write surface around events that the reminder
// engine hangs off: every create/update re-plans reminders and notifies
// participants of the change; checkin triggers the synchronous side-channel
// notification.
type EventService interface {
	Create(ctx context.Context, input CreateEventInput) (*models.Event, error)
	Update(ctx context.Context, id string, input UpdateEventInput) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	CheckIn(ctx context.Context, eventID, participantID string) (*models.EventParticipant, error)
}

type CreateEventInput struct {
	Code          string             `json:"code" binding:"required"`
	Name          string             `json:"name" binding:"required"`
	Description   string             `json:"description"`
	Location      string             `json:"location"`
	OrganizerUnit string             `json:"organizerUnit"`
	Status        models.EventStatus `json:"status"`
	StartTime     time.Time          `json:"startTime" binding:"required"`
	EndTime       *time.Time         `json:"endTime"`
}

type UpdateEventInput struct {
	Name          *string             `json:"name"`
	Description   *string             `json:"description"`
	Location      *string             `json:"location"`
	OrganizerUnit *string             `json:"organizerUnit"`
	Status        *models.EventStatus `json:"status"`
	StartTime     *time.Time          `json:"startTime"`
	EndTime       *time.Time          `json:"endTime"`
}

// DefaultEventService is the production implementation.
type DefaultEventService struct {
	Repo         eventRepo.EventRepository
	Participants participantRepo.EventParticipantRepository
	Planner      ReminderPlanner
	Notifier     notification.NotificationService
	Logger       *zap.Logger
}
