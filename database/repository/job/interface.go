package jobRepo

import (
	"context"
	"errors"
	"time"

	"evently/database"
	"evently/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a job lookup matches nothing.
var ErrNotFound = errors.New("event job not found")

// EventJobRepository is the persisted queue of scheduled jobs. Jobs are
// keyed by (eventId, type): Upsert never creates a second row for the same
// pair, and jobs are only ever transitioned, never deleted.
type EventJobRepository interface {
	// Upsert creates the job for (eventID, jobType) or refreshes an existing
	// one: runAt is overwritten, status reset to PENDING, executedAt and
	// lastError cleared. The payload is only applied on first insert.
	Upsert(ctx context.Context, eventID string, jobType models.EventJobType, runAt time.Time, payload map[string]any) (*models.EventJob, error)

	// FindDue returns up to limit PENDING jobs with runAt <= now, earliest
	// first, so the most overdue work is processed ahead of the rest.
	FindDue(ctx context.Context, now time.Time, limit int64) ([]models.EventJob, error)

	// Transition persists a status change. A nil executedAt clears the field;
	// an empty lastError clears the field.
	Transition(ctx context.Context, id string, status models.EventJobStatus, executedAt *time.Time, lastError string) error

	GetByEventAndType(ctx context.Context, eventID string, jobType models.EventJobType) (*models.EventJob, error)
	ListByEventID(ctx context.Context, eventID string) ([]models.EventJob, error)
}

type mongoEventJobRepo struct {
	coll *mongo.Collection
}

// NewMongoEventJobRepo returns a new EventJobRepository instance using MongoDB.
func NewMongoEventJobRepo() EventJobRepository {
	return &mongoEventJobRepo{
		coll: database.DB().Collection("event_jobs"),
	}
}
