package participantRepo

import (
	"context"
	"errors"
	"time"

	"evently/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ListByEventID fetches all participant relationships for an event.
func (r *mongoEventParticipantRepo) ListByEventID(ctx context.Context, eventID string) ([]models.EventParticipant, error) {
	cursor, err := r.eventParticipants.Find(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var relations []models.EventParticipant
	if err := cursor.All(ctx, &relations); err != nil {
		return nil, err
	}
	return relations, nil
}

// GetParticipant returns a participant by ID.
func (r *mongoEventParticipantRepo) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	var participant models.Participant
	err := r.participants.FindOne(ctx, bson.M{"id": id}).Decode(&participant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// SetCheckedIn marks the event-participant relationship checked in.
func (r *mongoEventParticipantRepo) SetCheckedIn(ctx context.Context, eventID, participantID string) (*models.EventParticipant, error) {
	filter := bson.M{"eventId": eventID, "participantId": participantID}
	update := bson.M{"$set": bson.M{
		"status":      models.ParticipantStatusCheckedIn,
		"checkinTime": time.Now(),
	}}

	res, err := r.eventParticipants.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	var relation models.EventParticipant
	if err := r.eventParticipants.FindOne(ctx, filter).Decode(&relation); err != nil {
		return nil, err
	}
	return &relation, nil
}
