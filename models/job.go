package models

import "time"

// EventJobType enumerates the fixed set of scheduled actions per event.
type EventJobType string

const (
	JobTypeRemindBefore1Day   EventJobType = "REMIND_BEFORE_1_DAY"
	JobTypeRemindBefore4Hours EventJobType = "REMIND_BEFORE_4_HOURS"
	JobTypeRemindBefore1Hour  EventJobType = "REMIND_BEFORE_1_HOUR"
	JobTypeEventStarted       EventJobType = "EVENT_STARTED"
)

// EventJobStatus is the job state machine. A job is only ever transitioned,
// never deleted; re-planning resets it to PENDING.
type EventJobStatus string

const (
	JobStatusPending    EventJobStatus = "PENDING"
	JobStatusProcessing EventJobStatus = "PROCESSING"
	JobStatusCompleted  EventJobStatus = "COMPLETED"
	JobStatusFailed     EventJobStatus = "FAILED"
)

// EventJob is one future action tied to an event. At most one job exists
// per (eventId, type) pair.
type EventJob struct {
	ID          string         `bson:"id" json:"id"`
	EventID     string         `bson:"eventId" json:"eventId"`
	Type        EventJobType   `bson:"type" json:"type"`
	RunAt       time.Time      `bson:"runAt" json:"runAt"`
	CallbackURL string         `bson:"callbackUrl,omitempty" json:"callbackUrl,omitempty"`
	Payload     map[string]any `bson:"payload,omitempty" json:"payload,omitempty"`
	Status      EventJobStatus `bson:"status" json:"status"`
	ExecutedAt  *time.Time     `bson:"executedAt,omitempty" json:"executedAt,omitempty"`
	LastError   string         `bson:"lastError,omitempty" json:"lastError,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}
