package models

import "time"

// EventStatus is the lifecycle state of an event. Only published events
// carry active reminder jobs.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusClosed    EventStatus = "CLOSED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

type Event struct {
	ID            string      `bson:"id" json:"id"`
	Code          string      `bson:"code" json:"code"`
	Name          string      `bson:"name" json:"name"`
	Description   string      `bson:"description,omitempty" json:"description,omitempty"`
	Location      string      `bson:"location,omitempty" json:"location,omitempty"`
	OrganizerUnit string      `bson:"organizerUnit,omitempty" json:"organizerUnit,omitempty"`
	Status        EventStatus `bson:"status" json:"status"`
	StartTime     time.Time   `bson:"startTime" json:"startTime"`
	EndTime       *time.Time  `bson:"endTime,omitempty" json:"endTime,omitempty"`
	CreatedAt     time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// IsPublished reports whether reminder scheduling applies to the event.
func (e *Event) IsPublished() bool {
	return e.Status == EventStatusPublished
}
