package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/careconnect/careconnect/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateEvent creates a test event with the given title and capacity.
// The event date is a week out so it shows in upcoming listings.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, capacity int, restricted bool) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	ev := models.Event{
		ID:         primitive.NewObjectID(),
		Title:      title,
		TitleCI:    text.Fold(title),
		Date:       now.AddDate(0, 0, 7).Truncate(time.Hour),
		Location:   "Community Hall",
		Capacity:   capacity,
		Restricted: restricted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}

// CreatePastEvent creates a test event dated in the past so it is
// excluded from upcoming listings.
func (f *Fixtures) CreatePastEvent(ctx context.Context, title string, capacity int) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	ev := models.Event{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Date:      now.AddDate(0, 0, -7),
		Location:  "Community Hall",
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create past test event: %v", err)
	}
	return ev
}

// CreateIdentity creates a test identity keyed by the given normalized
// phone number.
func (f *Fixtures) CreateIdentity(ctx context.Context, fullName, phone string) models.Identity {
	f.t.Helper()

	now := time.Now().UTC()
	id := models.Identity{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Phone:      phone,
		Address:    "12 Test Street",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("identities").InsertOne(ctx, id); err != nil {
		f.t.Fatalf("failed to create test identity: %v", err)
	}
	return id
}

// CreateBooking creates a booking in the given status linking the
// identity to the event, with the title/date snapshot copied in.
func (f *Fixtures) CreateBooking(ctx context.Context, ev models.Event, ident models.Identity, status string) models.Booking {
	f.t.Helper()

	now := time.Now().UTC()
	b := models.Booking{
		ID:         primitive.NewObjectID(),
		Ref:        primitive.NewObjectID().Hex()[:8],
		EventID:    ev.ID,
		IdentityID: ident.ID,
		Phone:      ident.Phone,
		Status:     status,
		EventTitle: ev.Title,
		EventDate:  ev.Date,
		BookedAt:   now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("bookings").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("failed to create test booking: %v", err)
	}
	return b
}

// CreateStaffUser creates a staff account with the given role.
func (f *Fixtures) CreateStaffUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateOutreachLog creates an outreach log entry for the given leader
// and event.
func (f *Fixtures) CreateOutreachLog(ctx context.Context, eventID, leaderID primitive.ObjectID, method string, reached int) models.OutreachLog {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.OutreachLog{
		ID:            primitive.NewObjectID(),
		EventID:       eventID,
		LeaderID:      leaderID,
		PeopleReached: reached,
		Method:        method,
		OutreachDate:  now.AddDate(0, 0, -1),
		CreatedAt:     now,
	}

	if _, err := f.db.Collection("outreach_logs").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test outreach log: %v", err)
	}
	return l
}
