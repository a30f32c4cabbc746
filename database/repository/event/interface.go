package eventRepo

import (
	"context"
	"errors"

	"evently/database"
	"evently/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when an event lookup matches nothing.
var ErrNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, event models.Event) (*models.Event, error)
	Update(ctx context.Context, event models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
}

type mongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo returns a new EventRepository instance using MongoDB.
func NewMongoEventRepo() EventRepository {
	return &mongoEventRepo{
		coll: database.DB().Collection("events"),
	}
}
