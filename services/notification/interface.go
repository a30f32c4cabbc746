package notification

import (
	"context"
	"time"

	notificationRepo "evently/database/repository/notification"
	participantRepo "evently/database/repository/participant"
	"evently/models"
	"evently/services/socket"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService records notifications durably and pushes them in real
// time to any connected recipients. Delivery is best effort: a recipient with
// no live channel still gets a delivery record and sees the message in their
// history listing.
type NotificationService interface {
	// NotifyEventParticipants fans one message out to every non-absent
	// participant of the event.
	NotifyEventParticipants(ctx context.Context, event *models.Event, title, message string, ntype models.NotificationType, scheduledTime *time.Time) (*models.Notification, error)

	// NotifyParticipant delivers one message to a single participant
	// (checkin side-channel).
	NotifyParticipant(ctx context.Context, event *models.Event, participantID, title, message string, ntype models.NotificationType) (*models.Notification, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo         notificationRepo.NotificationRepository
	Participants participantRepo.EventParticipantRepository
	Registry     *socket.Registry
	// FCM is the optional secondary push path; nil disables it.
	FCM    *messaging.Client
	Logger *zap.Logger
}
