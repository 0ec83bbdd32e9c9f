// internal/domain/models/feedback.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is an anonymous free-text note left for an event.
// Append-only; only staff may delete one.
type Feedback struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID primitive.ObjectID `bson:"event_id" json:"event_id"`
	Body    string             `bson:"body" json:"body"` // <= 50 words, sanitized

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
