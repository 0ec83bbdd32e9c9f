// Package outboxstore persists pending-SMS records. A notification is
// written alongside the booking it confirms and picked up later by the
// dispatcher worker, so delivery status is observable instead of lost
// when the gateway fails.
package outboxstore

import (
	"context"
	"time"

	"github.com/careconnect/careconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Enqueue inserts a pending notification.
func (s *Store) Enqueue(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	n.Status = models.NotificationPending
	n.Attempts = 0
	n.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// NextPending claims up to limit pending notifications, oldest first.
// The dispatcher is the only consumer, so claiming is a plain read; the
// status flips on MarkSent/MarkFailed.
func (s *Store) NextPending(ctx context.Context, limit int64) ([]models.Notification, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"status": models.NotificationPending},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: 1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSent records a successful delivery.
func (s *Store) MarkSent(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": models.NotificationSent, "sent_at": now, "last_error": ""},
		"$inc": bson.M{"attempts": 1},
	})
	return err
}

// MarkFailed records a delivery failure. Failed notifications are not
// retried automatically; delivery is accepted best-effort.
func (s *Store) MarkFailed(ctx context.Context, id primitive.ObjectID, cause string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": models.NotificationFailed, "last_error": cause},
		"$inc": bson.M{"attempts": 1},
	})
	return err
}

// CountPending returns how many notifications await delivery.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.NotificationPending})
}
