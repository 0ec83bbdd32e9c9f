// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification (outbox) status values.
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification is a pending-outbound-SMS record. One is written in the
// same logical operation as the booking it confirms, and a background
// dispatcher delivers it, so delivery status stays observable instead of
// being dropped on a gateway failure.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID primitive.ObjectID `bson:"booking_id" json:"booking_id"`
	To        string             `bson:"to" json:"to"` // normalized phone, digits only
	Body      string             `bson:"body" json:"body"`
	Status    string             `bson:"status" json:"status"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	LastError string             `bson:"last_error,omitempty" json:"last_error,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	SentAt    *time.Time `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
}
