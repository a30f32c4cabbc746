package notificationRepo

import (
	"context"
	"errors"
	"time"

	"evently/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new notification and returns it.
func (r *mongoNotificationRepo) Create(ctx context.Context, notification models.Notification) (*models.Notification, error) {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()

	if _, err := r.notifications.InsertOne(ctx, notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

// GetByID returns a notification by its ID.
func (r *mongoNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.notifications.FindOne(ctx, bson.M{"id": id}).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// CreateReceiver inserts one delivery record.
func (r *mongoNotificationRepo) CreateReceiver(ctx context.Context, receiver models.NotificationReceiver) (*models.NotificationReceiver, error) {
	if receiver.ID == "" {
		receiver.ID = uuid.New().String()
	}

	if _, err := r.receivers.InsertOne(ctx, receiver); err != nil {
		return nil, err
	}
	return &receiver, nil
}

// GetReceivers fetches all delivery records for a notification.
func (r *mongoNotificationRepo) GetReceivers(ctx context.Context, notificationID string) ([]models.NotificationReceiver, error) {
	cursor, err := r.receivers.Find(ctx, bson.M{"notificationId": notificationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var receivers []models.NotificationReceiver
	if err := cursor.All(ctx, &receivers); err != nil {
		return nil, err
	}
	return receivers, nil
}

// ListByParticipant pages through the participant's delivery records newest
// first and joins each onto its notification.
func (r *mongoNotificationRepo) ListByParticipant(ctx context.Context, participantID string, page, limit int) ([]models.ParticipantNotification, int64, error) {
	filter := bson.M{"participantId": participantID}

	total, err := r.receivers.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sentAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.receivers.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var receivers []models.NotificationReceiver
	if err := cursor.All(ctx, &receivers); err != nil {
		return nil, 0, err
	}
	if len(receivers) == 0 {
		return []models.ParticipantNotification{}, total, nil
	}

	ids := make([]string, 0, len(receivers))
	for _, rec := range receivers {
		ids = append(ids, rec.NotificationID)
	}

	notifCursor, err := r.notifications.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, 0, err
	}
	defer notifCursor.Close(ctx)

	var notifications []models.Notification
	if err := notifCursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}

	byID := make(map[string]models.Notification, len(notifications))
	for _, n := range notifications {
		byID[n.ID] = n
	}

	// Preserve the delivery-record ordering.
	items := make([]models.ParticipantNotification, 0, len(receivers))
	for _, rec := range receivers {
		n, ok := byID[rec.NotificationID]
		if !ok {
			continue
		}
		items = append(items, models.ParticipantNotification{
			Notification: n,
			SentAt:       rec.SentAt,
			ReadAt:       rec.ReadAt,
		})
	}
	return items, total, nil
}

// MarkRead stamps readAt on the participant's delivery record.
func (r *mongoNotificationRepo) MarkRead(ctx context.Context, notificationID, participantID string) error {
	res, err := r.receivers.UpdateOne(ctx,
		bson.M{"notificationId": notificationID, "participantId": participantID},
		bson.M{"$set": bson.M{"readAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnread counts the participant's delivery records with no readAt.
func (r *mongoNotificationRepo) CountUnread(ctx context.Context, participantID string) (int64, error) {
	return r.receivers.CountDocuments(ctx, bson.M{
		"participantId": participantID,
		"readAt":        bson.M{"$exists": false},
	})
}
