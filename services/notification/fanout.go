package notification

import (
	"context"
	"fmt"
	"time"

	"evently/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotifyEventParticipants creates the notification, then fans it out to every
// participant of the event except those marked absent.
func (s *DefaultNotificationService) NotifyEventParticipants(ctx context.Context, event *models.Event, title, message string, ntype models.NotificationType, scheduledTime *time.Time) (*models.Notification, error) {
	notif, err := s.Repo.Create(ctx, models.Notification{
		EventID:       event.ID,
		Title:         title,
		Message:       message,
		Type:          ntype,
		ScheduledTime: scheduledTime,
	})
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	relations, err := s.Participants.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants for event %s: %w", event.ID, err)
	}

	recipients := make([]string, 0, len(relations))
	for _, rel := range relations {
		if rel.Status == models.ParticipantStatusAbsent {
			continue
		}
		recipients = append(recipients, rel.ParticipantID)
	}

	s.fanOut(ctx, notif, recipients)

	s.Logger.Info("notification fanned out",
		zap.String("notificationId", notif.ID),
		zap.String("eventId", event.ID),
		zap.Int("recipients", len(recipients)))
	return notif, nil
}

// NotifyParticipant delivers one message to a single participant.
func (s *DefaultNotificationService) NotifyParticipant(ctx context.Context, event *models.Event, participantID, title, message string, ntype models.NotificationType) (*models.Notification, error) {
	notif, err := s.Repo.Create(ctx, models.Notification{
		EventID: event.ID,
		Title:   title,
		Message: message,
		Type:    ntype,
	})
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.fanOut(ctx, notif, []string{participantID})
	return notif, nil
}

// fanOut records a delivery per recipient and attempts real-time push.
// Per-recipient failures are logged and skipped; partial delivery is expected.
func (s *DefaultNotificationService) fanOut(ctx context.Context, notif *models.Notification, recipientIDs []string) {
	for _, participantID := range recipientIDs {
		sentAt := time.Now()
		if _, err := s.Repo.CreateReceiver(ctx, models.NotificationReceiver{
			NotificationID: notif.ID,
			ParticipantID:  participantID,
			SentAt:         &sentAt,
		}); err != nil {
			s.Logger.Warn("failed to record notification delivery",
				zap.String("notificationId", notif.ID),
				zap.String("participantId", participantID),
				zap.Error(err))
		}

		s.push(ctx, notif, participantID)
	}
}

// push sends the message over every live channel the recipient has. When the
// recipient is offline and FCM is configured, a cloud push is attempted instead.
func (s *DefaultNotificationService) push(ctx context.Context, notif *models.Notification, participantID string) {
	payload := models.NotificationEvent{
		ID:        notif.ID,
		EventID:   notif.EventID,
		Title:     notif.Title,
		Message:   notif.Message,
		Type:      notif.Type,
		CreatedAt: notif.CreatedAt,
	}

	channels := s.Registry.Channels(participantID)
	for _, ch := range channels {
		if err := ch.Send("notification", payload); err != nil {
			s.Logger.Warn("push to channel failed",
				zap.String("participantId", participantID),
				zap.String("channelId", ch.ID()),
				zap.Error(err))
		}
	}

	if len(channels) == 0 && s.FCM != nil {
		s.pushFCM(ctx, notif, participantID)
	}
}

// pushFCM is the offline fallback via Firebase Cloud Messaging.
func (s *DefaultNotificationService) pushFCM(ctx context.Context, notif *models.Notification, participantID string) {
	participant, err := s.Participants.GetParticipant(ctx, participantID)
	if err != nil || participant.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: participant.FCMToken,
		Notification: &messaging.Notification{
			Title: notif.Title,
			Body:  notif.Message,
		},
		Data: map[string]string{
			"notificationId": notif.ID,
			"eventId":        notif.EventID,
			"type":           fmt.Sprintf("%d", notif.Type),
		},
	}

	if _, err := s.FCM.Send(ctx, msg); err != nil {
		s.Logger.Warn("FCM push failed",
			zap.String("participantId", participantID),
			zap.Error(err))
	}
}
