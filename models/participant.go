package models

import "time"

// ParticipantStatus is the relationship state between a participant and an
// event. Absent participants are excluded from notification fan-out.
type ParticipantStatus int

const (
	ParticipantStatusRegistered ParticipantStatus = 0
	ParticipantStatusCheckedIn  ParticipantStatus = 1
	ParticipantStatusAbsent     ParticipantStatus = 2
)

type Participant struct {
	ID        string    `bson:"id" json:"id"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// EventParticipant links a participant to an event.
type EventParticipant struct {
	ID            string            `bson:"id" json:"id"`
	EventID       string            `bson:"eventId" json:"eventId"`
	ParticipantID string            `bson:"participantId" json:"participantId"`
	Status        ParticipantStatus `bson:"status" json:"status"`
	SerialNumber  int               `bson:"serialNumber" json:"serialNumber"`
	CheckinTime   *time.Time        `bson:"checkinTime,omitempty" json:"checkinTime,omitempty"`
	CheckoutTime  *time.Time        `bson:"checkoutTime,omitempty" json:"checkoutTime,omitempty"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
}
