package event

import (
	"context"
	"fmt"

	"evently/models"

	"go.uber.org/zap"
)

// Create stores a new event, then plans its reminder jobs and announces it
// to participants. Planning and notification failures never fail the create.
func (s *DefaultEventService) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	status := input.Status
	if status == "" {
		status = models.EventStatusDraft
	}

	created, err := s.Repo.Create(ctx, models.Event{
		Code:          input.Code,
		Name:          input.Name,
		Description:   input.Description,
		Location:      input.Location,
		OrganizerUnit: input.OrganizerUnit,
		Status:        status,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.afterWrite(ctx, created, true)
	return created, nil
}

// Update applies the changes and re-plans reminders against the new start
// time and status; exactly one job per type continues to exist.
func (s *DefaultEventService) Update(ctx context.Context, id string, input UpdateEventInput) (*models.Event, error) {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Location != nil {
		existing.Location = *input.Location
	}
	if input.OrganizerUnit != nil {
		existing.OrganizerUnit = *input.OrganizerUnit
	}
	if input.Status != nil {
		existing.Status = *input.Status
	}
	if input.StartTime != nil {
		existing.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		existing.EndTime = input.EndTime
	}

	updated, err := s.Repo.Update(ctx, *existing)
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}

	s.afterWrite(ctx, updated, false)
	return updated, nil
}

func (s *DefaultEventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return s.Repo.GetByID(ctx, id)
}

// CheckIn marks the participant checked in and sends them the synchronous
// checkin notification.
func (s *DefaultEventService) CheckIn(ctx context.Context, eventID, participantID string) (*models.EventParticipant, error) {
	relation, err := s.Participants.SetCheckedIn(ctx, eventID, participantID)
	if err != nil {
		return nil, err
	}

	ev, err := s.Repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Checked in to %s", ev.Name)
	message := fmt.Sprintf("You have checked in to event %s", ev.Name)
	if _, err := s.Notifier.NotifyParticipant(ctx, ev, participantID, title, message, models.NotificationTypeCheckin); err != nil {
		s.Logger.Warn("checkin notification failed",
			zap.String("eventId", eventID),
			zap.String("participantId", participantID),
			zap.Error(err))
	}

	return relation, nil
}

// afterWrite runs the write side effects: reminder planning always, and the
// created/updated announcement for published events. Both are swallowed so
// the caller's write still succeeds.
func (s *DefaultEventService) afterWrite(ctx context.Context, ev *models.Event, created bool) {
	if err := s.Planner.PlanReminders(ctx, ev); err != nil {
		s.Logger.Error("reminder planning failed",
			zap.String("eventId", ev.ID), zap.Error(err))
	}

	if !ev.IsPublished() {
		return
	}

	var (
		title   string
		message string
		ntype   models.NotificationType
	)
	organizer := ev.OrganizerUnit
	if organizer == "" {
		organizer = "The organizer"
	}
	if created {
		title = fmt.Sprintf("Invitation: %s", ev.Name)
		message = fmt.Sprintf("%s invited you to event %s on %s at %s, please check",
			organizer, ev.Name, ev.StartTime.Format("02/01/2006"), ev.StartTime.Format("15:04"))
		ntype = models.NotificationTypeReminder
	} else {
		title = fmt.Sprintf("Event updated: %s", ev.Name)
		message = fmt.Sprintf("%s changed the details of event %s, please review", organizer, ev.Name)
		ntype = models.NotificationTypeChange
	}

	if _, err := s.Notifier.NotifyEventParticipants(ctx, ev, title, message, ntype, nil); err != nil {
		s.Logger.Warn("event change notification failed",
			zap.String("eventId", ev.ID), zap.Error(err))
	}
}
