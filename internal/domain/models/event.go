// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a charity event that people can book places for.
//
// Capacity is the maximum number of consumed slots (booked + attended
// bookings). Restricted events gate admission on the eligibility policy
// (gender, age, income); unrestricted events accept anyone.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped
	Date        time.Time          `bson:"date" json:"date"`
	Location    string             `bson:"location" json:"location"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Capacity    int                `bson:"capacity" json:"capacity"` // >= 0
	Restricted  bool               `bson:"restricted" json:"restricted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
