package models

import "time"

// NotificationType mirrors the wire encoding used by the clients.
type NotificationType int

const (
	NotificationTypeReminder NotificationType = 0
	NotificationTypeChange   NotificationType = 1
	NotificationTypeCheckin  NotificationType = 2
)

// Notification is an immutable point-in-time broadcast tied to an event.
type Notification struct {
	ID            string           `bson:"id" json:"id"`
	EventID       string           `bson:"eventId" json:"eventId"`
	Title         string           `bson:"title" json:"title"`
	Message       string           `bson:"message" json:"message"`
	Type          NotificationType `bson:"type" json:"type"`
	ScheduledTime *time.Time       `bson:"scheduledTime,omitempty" json:"scheduledTime,omitempty"`
	CreatedAt     time.Time        `bson:"createdAt" json:"createdAt"`
}

// NotificationReceiver is the per-recipient delivery record for one
// notification. Created in bulk at fan-out time; ReadAt is set once the
// recipient acknowledges.
type NotificationReceiver struct {
	ID             string     `bson:"id" json:"id"`
	NotificationID string     `bson:"notificationId" json:"notificationId"`
	ParticipantID  string     `bson:"participantId" json:"participantId"`
	SentAt         *time.Time `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	ReadAt         *time.Time `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

// NotificationEvent is the payload pushed over a live channel.
type NotificationEvent struct {
	ID        string           `json:"id"`
	EventID   string           `json:"event_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

// ParticipantNotification is one row of the "my notifications" listing:
// the notification joined with the caller's own delivery record.
type ParticipantNotification struct {
	Notification `bson:",inline"`
	SentAt       *time.Time `json:"sentAt,omitempty"`
	ReadAt       *time.Time `json:"readAt,omitempty"`
}
