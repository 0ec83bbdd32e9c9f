package indexes_test

import (
	"testing"

	"github.com/careconnect/careconnect/internal/app/system/indexes"
	"github.com/careconnect/careconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func listIndexNames(t *testing.T, coll string) map[string]bool {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_CreatesBookingIndexes(t *testing.T) {
	names := listIndexNames(t, "bookings")

	expectedIndexes := []string{
		"uniq_bookings_event_phone_booked",
		"idx_bookings_event_status_booked",
		"idx_bookings_identity_booked",
		"idx_bookings_ref",
	}
	for _, name := range expectedIndexes {
		if !names[name] {
			t.Errorf("expected index %q to exist on bookings collection", name)
		}
	}
}

func TestEnsureAll_CreatesEventIndexes(t *testing.T) {
	names := listIndexNames(t, "events")

	expectedIndexes := []string{
		"idx_events_date",
		"idx_events_titleci__id",
	}
	for _, name := range expectedIndexes {
		if !names[name] {
			t.Errorf("expected index %q to exist on events collection", name)
		}
	}
}

func TestEnsureAll_CreatesIdentityIndexes(t *testing.T) {
	names := listIndexNames(t, "identities")

	expectedIndexes := []string{
		"uniq_identities_phone",
		"idx_identities_fullnameci__id",
	}
	for _, name := range expectedIndexes {
		t.Run(name, func(t *testing.T) {
			if !names[name] {
				t.Errorf("expected index %q to exist on identities collection", name)
			}
		})
	}
}

func TestEnsureAll_CreatesUserIndexes(t *testing.T) {
	names := listIndexNames(t, "users")

	expectedIndexes := []string{
		"uniq_users_email",
		"idx_users_role_status_fullnameci_id",
	}
	for _, name := range expectedIndexes {
		if !names[name] {
			t.Errorf("expected index %q to exist on users collection", name)
		}
	}
}

func TestEnsureAll_CreatesOutreachIndexes(t *testing.T) {
	names := listIndexNames(t, "outreach_logs")

	expectedIndexes := []string{
		"idx_outreach_leader_date",
		"idx_outreach_event_date",
	}
	for _, name := range expectedIndexes {
		if !names[name] {
			t.Errorf("expected index %q to exist on outreach_logs collection", name)
		}
	}
}

func TestEnsureAll_CreatesNotificationIndexes(t *testing.T) {
	names := listIndexNames(t, "notifications")

	expectedIndexes := []string{
		"idx_notifications_status_created",
		"idx_notifications_booking",
	}
	for _, name := range expectedIndexes {
		if !names[name] {
			t.Errorf("expected index %q to exist on notifications collection", name)
		}
	}
}

func TestEnsureAll_PartialUniqueIndexEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	coll := db.Collection("bookings")
	eventID := primitive.NewObjectID()

	// First active booking for this phone
	_, err := coll.InsertOne(ctx, bson.M{
		"event_id": eventID, "phone": "60123456789", "status": "booked",
	})
	if err != nil {
		t.Fatalf("Insert booking failed: %v", err)
	}

	// A second active booking for the same (event, phone) must collide
	_, err = coll.InsertOne(ctx, bson.M{
		"event_id": eventID, "phone": "60123456789", "status": "booked",
	})
	if err == nil {
		t.Error("expected duplicate key error for second active booking")
	}

	// Cancelled records are outside the partial filter and never block
	_, err = coll.InsertOne(ctx, bson.M{
		"event_id": eventID, "phone": "60123456789", "status": "cancelled",
	})
	if err != nil {
		t.Errorf("cancelled booking must not hit the unique index: %v", err)
	}
}
