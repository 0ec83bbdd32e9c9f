// internal/domain/models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking status values.
//
// State machine: booked -> attended (staff check-in) and
// booked -> cancelled (cancellation). Attended and cancelled are
// terminal. Bookings are never deleted by the normal flow; cancellation
// keeps the record for reporting.
const (
	BookingStatusBooked    = "booked"
	BookingStatusAttended  = "attended"
	BookingStatusCancelled = "cancelled"
)

// BookingStatusValid reports whether s is a known booking status.
func BookingStatusValid(s string) bool {
	switch s {
	case BookingStatusBooked, BookingStatusAttended, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking links one Identity to one Event.
//
// Phone is denormalized from the identity so the duplicate guard and the
// SMS dispatcher work from the booking document alone. EventTitle and
// EventDate are snapshots taken at creation time so reports survive later
// event edits. At most one booking per (event_id, phone) may have status
// "booked"; the bookings collection carries a partial unique index that
// enforces this.
type Booking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Ref        string             `bson:"ref" json:"ref"` // short public reference, quoted in the SMS
	EventID    primitive.ObjectID `bson:"event_id" json:"event_id"`
	IdentityID primitive.ObjectID `bson:"identity_id" json:"identity_id"`
	Phone      string             `bson:"phone" json:"phone"`
	Status     string             `bson:"status" json:"status"`

	EventTitle string    `bson:"event_title" json:"event_title"`
	EventDate  time.Time `bson:"event_date" json:"event_date"`

	BookedAt  time.Time `bson:"booked_at" json:"booked_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
