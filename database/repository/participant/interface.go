package participantRepo

import (
	"context"
	"errors"

	"evently/database"
	"evently/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a participant lookup matches nothing.
var ErrNotFound = errors.New("participant not found")

// EventParticipantRepository exposes the participant-relationship reads the
// notification engine needs, plus the checkin write.
type EventParticipantRepository interface {
	// ListByEventID returns every participant relationship for the event,
	// including absent ones; callers filter on status.
	ListByEventID(ctx context.Context, eventID string) ([]models.EventParticipant, error)

	GetParticipant(ctx context.Context, id string) (*models.Participant, error)

	// SetCheckedIn marks the relationship checked in and stamps the checkin time.
	SetCheckedIn(ctx context.Context, eventID, participantID string) (*models.EventParticipant, error)
}

type mongoEventParticipantRepo struct {
	participants      *mongo.Collection
	eventParticipants *mongo.Collection
}

// NewMongoEventParticipantRepo returns a new EventParticipantRepository instance using MongoDB.
func NewMongoEventParticipantRepo() EventParticipantRepository {
	db := database.DB()
	return &mongoEventParticipantRepo{
		participants:      db.Collection("participants"),
		eventParticipants: db.Collection("event_participants"),
	}
}
