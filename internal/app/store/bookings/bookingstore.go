// Package bookingstore persists bookings and answers the two admission
// questions: how many slots an event has consumed, and whether a phone
// number already holds an active booking.
//
// Capacity rule: booked and attended both consume a slot (an attendee
// occupied one); cancelled does not. Counts are read fresh on every
// admission attempt - no caching across requests - so a stale count can
// never outlive one request.
package bookingstore

import (
	"context"
	"errors"
	"time"

	"github.com/careconnect/careconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrAlreadyBooked is returned when (event, phone) already holds a
	// booking in status "booked". The partial unique index raises it even
	// when two submissions race past the read-side duplicate check.
	ErrAlreadyBooked = errors.New("this phone number already has a booking for this event")
	// ErrNotFound is returned when no booking matches the given id.
	ErrNotFound = errors.New("booking not found")
	// ErrNotBooked is returned on a transition whose source state must be
	// "booked" but the booking has already left it.
	ErrNotBooked = errors.New("booking is not in the booked state")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookings")}
}

// CountConsumed counts bookings that consume capacity for the event:
// status booked or attended.
func (s *Store) CountConsumed(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"event_id": eventID,
		"status":   bson.M{"$in": bson.A{models.BookingStatusBooked, models.BookingStatusAttended}},
	})
}

// HasActive reports whether the normalized phone already holds a
// booking in status "booked" for the event. Cancelled history does not
// count.
func (s *Store) HasActive(ctx context.Context, eventID primitive.ObjectID, phone string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"event_id": eventID,
		"phone":    phone,
		"status":   models.BookingStatusBooked,
	}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// Create inserts a new booking in status "booked" with a fresh public
// ref and timestamps. A duplicate-key error from the partial unique
// index maps to ErrAlreadyBooked.
func (s *Store) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	b.ID = primitive.NewObjectID()
	b.Ref = uuid.New().String()[:8]
	b.Status = models.BookingStatusBooked
	now := time.Now().UTC()
	b.BookedAt = now
	b.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Booking{}, ErrAlreadyBooked
		}
		return models.Booking{}, err
	}
	return b, nil
}

// GetByID loads a booking.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var b models.Booking
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByEvent returns the event's bookings, newest first. status filters
// when non-empty.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID, status string) ([]models.Booking, error) {
	filter := bson.M{"event_id": eventID}
	if status != "" {
		filter["status"] = status
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "booked_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkAttended transitions booked -> attended (staff check-in). Only a
// booking currently in "booked" matches; anything else reports
// ErrNotBooked, or ErrNotFound when the id is unknown.
func (s *Store) MarkAttended(ctx context.Context, id primitive.ObjectID) error {
	return s.transition(ctx, id, models.BookingStatusBooked, models.BookingStatusAttended)
}

// MarkCancelled transitions booked -> cancelled. The record is kept; the
// slot it consumed is released for future admissions.
func (s *Store) MarkCancelled(ctx context.Context, id primitive.ObjectID) error {
	return s.transition(ctx, id, models.BookingStatusBooked, models.BookingStatusCancelled)
}

// transition performs a conditional status update so concurrent
// transitions cannot double-apply: the filter pins the source state.
func (s *Store) transition(ctx context.Context, id primitive.ObjectID, from, to string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing booking from one in the wrong state.
		if cnt, cntErr := s.c.CountDocuments(ctx, bson.M{"_id": id}); cntErr == nil && cnt == 0 {
			return ErrNotFound
		}
		return ErrNotBooked
	}
	return nil
}

// CountByStatus returns booking counts per status for dashboards.
func (s *Store) CountByStatus(ctx context.Context, eventID primitive.ObjectID) (map[string]int64, error) {
	match := bson.M{}
	if eventID != primitive.NilObjectID {
		match["event_id"] = eventID
	}

	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Status] = row.Count
	}
	return out, cur.Err()
}
