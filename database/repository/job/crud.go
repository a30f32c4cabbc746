package jobRepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"evently/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Upsert creates or refreshes the single job for (eventID, jobType).
func (r *mongoEventJobRepo) Upsert(ctx context.Context, eventID string, jobType models.EventJobType, runAt time.Time, payload map[string]any) (*models.EventJob, error) {
	now := time.Now()
	filter := bson.M{"eventId": eventID, "type": jobType}
	update := bson.M{
		"$set": bson.M{
			"runAt":     runAt,
			"status":    models.JobStatusPending,
			"updatedAt": now,
		},
		"$unset": bson.M{
			"executedAt": "",
			"lastError":  "",
		},
		"$setOnInsert": bson.M{
			"id":        uuid.New().String(),
			"eventId":   eventID,
			"type":      jobType,
			"payload":   payload,
			"createdAt": now,
		},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return nil, err
	}

	var job models.EventJob
	if err := r.coll.FindOne(ctx, filter).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// FindDue returns the due PENDING jobs, earliest runAt first, capped at limit.
func (r *mongoEventJobRepo) FindDue(ctx context.Context, now time.Time, limit int64) ([]models.EventJob, error) {
	filter := bson.M{
		"status": models.JobStatusPending,
		"runAt":  bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "runAt", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []models.EventJob
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Transition persists a status change plus executedAt/lastError.
func (r *mongoEventJobRepo) Transition(ctx context.Context, id string, status models.EventJobStatus, executedAt *time.Time, lastError string) error {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	unset := bson.M{}
	if executedAt != nil {
		set["executedAt"] = *executedAt
	} else {
		unset["executedAt"] = ""
	}
	if lastError != "" {
		set["lastError"] = lastError
	} else {
		unset["lastError"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByEventAndType returns the single job for (eventID, jobType).
func (r *mongoEventJobRepo) GetByEventAndType(ctx context.Context, eventID string, jobType models.EventJobType) (*models.EventJob, error) {
	var job models.EventJob
	err := r.coll.FindOne(ctx, bson.M{"eventId": eventID, "type": jobType}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// ListByEventID fetches all jobs scheduled for an event, earliest first.
func (r *mongoEventJobRepo) ListByEventID(ctx context.Context, eventID string) ([]models.EventJob, error) {
	opts := options.Find().SetSort(bson.D{{Key: "runAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []models.EventJob
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// IsNotProvisioned reports whether err indicates the backing collection does
// not exist yet (fresh deployment before provisioning). Callers treat this
// as a transient condition rather than a failure.
func IsNotProvisioned(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 26 { // NamespaceNotFound
		return true
	}
	return strings.Contains(err.Error(), "ns not found")
}
