// Package eventstore persists charity events.
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/careconnect/careconnect/internal/app/system/normalize"
	"github.com/careconnect/careconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no event matches the id.
	ErrNotFound = errors.New("event not found")
	errBadCapacity = errors.New("capacity must be zero or a positive integer")
	errNoTitle     = errors.New("title is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// GetByID loads an event by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var ev models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// Create inserts a new event after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	ev.ID = primitive.NewObjectID()
	ev.Title = normalize.Name(ev.Title)
	ev.TitleCI = text.Fold(ev.Title)

	if ev.Title == "" {
		return models.Event{}, errNoTitle
	}
	if ev.Capacity < 0 {
		return models.Event{}, errBadCapacity
	}

	now := time.Now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// Update holds the editable event fields.
type Update struct {
	Title       string
	Date        time.Time
	Location    string
	Description string
	ImageURL    string
	Capacity    int
	Restricted  bool
}

// UpdateEvent overwrites the editable fields of an event.
func (s *Store) UpdateEvent(ctx context.Context, id primitive.ObjectID, upd Update) error {
	upd.Title = normalize.Name(upd.Title)
	if upd.Title == "" {
		return errNoTitle
	}
	if upd.Capacity < 0 {
		return errBadCapacity
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":       upd.Title,
		"title_ci":    text.Fold(upd.Title),
		"date":        upd.Date,
		"location":    upd.Location,
		"description": upd.Description,
		"image_url":   upd.ImageURL,
		"capacity":    upd.Capacity,
		"restricted":  upd.Restricted,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event. Callers must first verify no bookings
// reference it; the handler refuses deletion otherwise.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListUpcoming returns events on or after the given time, soonest first.
func (s *Store) ListUpcoming(ctx context.Context, from time.Time) ([]models.Event, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"date": bson.M{"$gte": from}},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every event, newest date first, for admin screens.
func (s *Store) ListAll(ctx context.Context) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of events.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
