package eventRepo

import (
	"context"
	"errors"
	"time"

	"evently/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new event and returns it.
func (r *mongoEventRepo) Create(ctx context.Context, event models.Event) (*models.Event, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update replaces the stored event document.
func (r *mongoEventRepo) Update(ctx context.Context, event models.Event) (*models.Event, error) {
	event.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": event.ID}, event)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &event, nil
}

// GetByID returns an event by its ID.
func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}
