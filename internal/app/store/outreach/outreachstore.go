// Package outreachstore persists outreach logs. The collection is an
// append-only ledger: Create is the only write.
package outreachstore

import (
	"context"
	"errors"
	"time"

	"github.com/careconnect/careconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errBadMethod  = errors.New(`method must be "whatsapp"|"facebook"|"instagram"|"flyers"|"posters"`)
	errBadReached = errors.New("people reached must be a positive number")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("outreach_logs")}
}

// Create appends a new outreach log after validating the enum and count.
func (s *Store) Create(ctx context.Context, l models.OutreachLog) (models.OutreachLog, error) {
	if !models.OutreachMethodValid(l.Method) {
		return models.OutreachLog{}, errBadMethod
	}
	if l.PeopleReached <= 0 {
		return models.OutreachLog{}, errBadReached
	}

	l.ID = primitive.NewObjectID()
	l.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.OutreachLog{}, err
	}
	return l, nil
}

// ListByLeader returns a leader's logs, newest outreach date first.
func (s *Store) ListByLeader(ctx context.Context, leaderID primitive.ObjectID) ([]models.OutreachLog, error) {
	return s.list(ctx, bson.M{"leader_id": leaderID})
}

// ListByEvent returns all logs for an event, newest outreach date first.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.OutreachLog, error) {
	return s.list(ctx, bson.M{"event_id": eventID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.OutreachLog, error) {
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "outreach_date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.OutreachLog
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalReached sums people_reached across all logs, optionally scoped to
// one leader, for dashboards.
func (s *Store) TotalReached(ctx context.Context, leaderID primitive.ObjectID) (int64, error) {
	match := bson.M{}
	if leaderID != primitive.NilObjectID {
		match["leader_id"] = leaderID
	}

	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$people_reached"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var row struct {
			Total int64 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return 0, err
		}
		return row.Total, nil
	}
	return 0, cur.Err()
}
