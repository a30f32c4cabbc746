package notificationRepo

import (
	"context"
	"errors"

	"evently/database"
	"evently/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a notification or receiver lookup matches nothing.
var ErrNotFound = errors.New("notification not found")

// NotificationRepository persists notification messages and their
// per-recipient delivery records.
type NotificationRepository interface {
	Create(ctx context.Context, notification models.Notification) (*models.Notification, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)

	CreateReceiver(ctx context.Context, receiver models.NotificationReceiver) (*models.NotificationReceiver, error)
	GetReceivers(ctx context.Context, notificationID string) ([]models.NotificationReceiver, error)

	// ListByParticipant returns one page of the participant's notification
	// history (delivery records joined with their messages, newest first)
	// plus the total number of records.
	ListByParticipant(ctx context.Context, participantID string, page, limit int) ([]models.ParticipantNotification, int64, error)

	// MarkRead stamps readAt on the participant's delivery record for the
	// given notification. Returns ErrNotFound if no record exists.
	MarkRead(ctx context.Context, notificationID, participantID string) error

	CountUnread(ctx context.Context, participantID string) (int64, error)
}

type mongoNotificationRepo struct {
	notifications *mongo.Collection
	receivers     *mongo.Collection
}

// NewMongoNotificationRepo returns a new NotificationRepository instance using MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	db := database.DB()
	return &mongoNotificationRepo{
		notifications: db.Collection("notifications"),
		receivers:     db.Collection("notification_receivers"),
	}
}
