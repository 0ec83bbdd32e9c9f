// internal/domain/models/outreachlog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outreach contact methods.
const (
	OutreachWhatsApp  = "whatsapp"
	OutreachFacebook  = "facebook"
	OutreachInstagram = "instagram"
	OutreachFlyers    = "flyers"
	OutreachPosters   = "posters"
)

// OutreachMethodValid reports whether m is a known contact method.
func OutreachMethodValid(m string) bool {
	switch m {
	case OutreachWhatsApp, OutreachFacebook, OutreachInstagram, OutreachFlyers, OutreachPosters:
		return true
	}
	return false
}

// OutreachLog records one outreach effort by a local leader for an event.
// Logs are append-only: never mutated or deleted in the normal flow.
type OutreachLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID       primitive.ObjectID `bson:"event_id" json:"event_id"`
	LeaderID      primitive.ObjectID `bson:"leader_id" json:"leader_id"`
	PeopleReached int                `bson:"people_reached" json:"people_reached"` // > 0
	Method        string             `bson:"method" json:"method"`
	Details       string             `bson:"details,omitempty" json:"details,omitempty"` // <= 50 words, sanitized
	OutreachDate  time.Time          `bson:"outreach_date" json:"outreach_date"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
