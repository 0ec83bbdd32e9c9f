// Package identitystore persists person profiles keyed by normalized
// phone number. Identities are created on first booking and reused for
// every later booking with the same number; they are never deleted by
// the application.
package identitystore

import (
	"context"
	"errors"
	"time"

	"github.com/careconnect/careconnect/internal/app/system/normalize"
	"github.com/careconnect/careconnect/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no identity matches the phone or id.
	ErrNotFound = errors.New("identity not found")
	// ErrDuplicatePhone is returned when an insert collides with the
	// unique phone index (a concurrent first booking won the race).
	ErrDuplicatePhone = errors.New("an identity with this phone already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("identities")}
}

// GetByPhone looks up an identity by normalized phone number.
func (s *Store) GetByPhone(ctx context.Context, phone string) (*models.Identity, error) {
	var id models.Identity
	if err := s.c.FindOne(ctx, bson.M{"phone": phone}).Decode(&id); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &id, nil
}

// GetByID loads an identity by ObjectID.
func (s *Store) GetByID(ctx context.Context, oid primitive.ObjectID) (*models.Identity, error) {
	var id models.Identity
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&id); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &id, nil
}

// Create inserts a new identity after normalizing the name fields. The
// phone must already be normalized by the caller.
func (s *Store) Create(ctx context.Context, id models.Identity) (models.Identity, error) {
	id.ID = primitive.NewObjectID()
	id.FullName = normalize.Name(id.FullName)
	id.FullNameCI = text.Fold(id.FullName)
	id.Email = normalize.Email(id.Email)

	now := time.Now().UTC()
	id.CreatedAt = now
	id.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, id); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Identity{}, ErrDuplicatePhone
		}
		return models.Identity{}, err
	}
	return id, nil
}

// UpdateProfile overwrites the editable profile fields. The phone key is
// immutable; a person with a new number is a new identity.
func (s *Store) UpdateProfile(ctx context.Context, oid primitive.ObjectID, fullName, email, address string) error {
	fullName = normalize.Name(fullName)
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"full_name":    fullName,
		"full_name_ci": text.Fold(fullName),
		"email":        normalize.Email(email),
		"address":      address,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of identities, for dashboards.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
