package bookingstore_test

import (
	"errors"
	"testing"

	bookingstore "github.com/careconnect/careconnect/internal/app/store/bookings"
	"github.com/careconnect/careconnect/internal/app/system/indexes"
	"github.com/careconnect/careconnect/internal/domain/models"
	"github.com/careconnect/careconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setup(t *testing.T) (*bookingstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return bookingstore.New(db), testutil.NewFixtures(t, db)
}

func TestCreateAndGet(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Community Kitchen", 10, false)
	ident := fx.CreateIdentity(ctx, "Aisha Rahman", "60123456789")

	b, err := store.Create(ctx, models.Booking{
		EventID:    ev.ID,
		IdentityID: ident.ID,
		Phone:      ident.Phone,
		EventTitle: ev.Title,
		EventDate:  ev.Date,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != models.BookingStatusBooked {
		t.Errorf("status = %q, want booked", b.Status)
	}
	if len(b.Ref) != 8 {
		t.Errorf("ref = %q, want 8 chars", b.Ref)
	}

	got, err := store.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Phone != "60123456789" || got.EventTitle != "Community Kitchen" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestCreate_DuplicateActiveRejected(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Community Kitchen", 10, false)
	ident := fx.CreateIdentity(ctx, "Aisha Rahman", "60123456789")

	mk := func() (models.Booking, error) {
		return store.Create(ctx, models.Booking{
			EventID: ev.ID, IdentityID: ident.ID, Phone: ident.Phone,
			EventTitle: ev.Title, EventDate: ev.Date,
		})
	}

	if _, err := mk(); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := mk(); !errors.Is(err, bookingstore.ErrAlreadyBooked) {
		t.Fatalf("second Create: got %v, want ErrAlreadyBooked", err)
	}
}

func TestCreate_AllowedAfterCancel(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Community Kitchen", 10, false)
	ident := fx.CreateIdentity(ctx, "Aisha Rahman", "60123456789")

	first, err := store.Create(ctx, models.Booking{
		EventID: ev.ID, IdentityID: ident.ID, Phone: ident.Phone,
		EventTitle: ev.Title, EventDate: ev.Date,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.MarkCancelled(ctx, first.ID); err != nil {
		t.Fatalf("MarkCancelled: %v", err)
	}

	if _, err := store.Create(ctx, models.Booking{
		EventID: ev.ID, IdentityID: ident.ID, Phone: ident.Phone,
		EventTitle: ev.Title, EventDate: ev.Date,
	}); err != nil {
		t.Fatalf("Create after cancel: %v", err)
	}
}

func TestCountConsumed(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Community Kitchen", 10, false)
	a := fx.CreateIdentity(ctx, "Aisha Rahman", "60123456701")
	b := fx.CreateIdentity(ctx, "Mei Ling", "60123456702")
	c := fx.CreateIdentity(ctx, "Priya Nair", "60123456703")

	fx.CreateBooking(ctx, ev, a, models.BookingStatusBooked)
	fx.CreateBooking(ctx, ev, b, models.BookingStatusAttended)
	fx.CreateBooking(ctx, ev, c, models.BookingStatusCancelled)

	n, err := store.CountConsumed(ctx, ev.ID)
	if err != nil {
		t.Fatalf("CountConsumed: %v", err)
	}
	// booked and attended consume capacity; cancelled does not.
	if n != 2 {
		t.Errorf("consumed = %d, want 2", n)
	}
}

func TestTransitions(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Community Kitchen", 10, false)
	ident := fx.CreateIdentity(ctx, "Aisha Rahman", "60123456789")
	b := fx.CreateBooking(ctx, ev, ident, models.BookingStatusBooked)

	if err := store.MarkAttended(ctx, b.ID); err != nil {
		t.Fatalf("MarkAttended: %v", err)
	}

	// Attended is terminal for both transitions.
	if err := store.MarkAttended(ctx, b.ID); !errors.Is(err, bookingstore.ErrNotBooked) {
		t.Errorf("re-attend: got %v, want ErrNotBooked", err)
	}
	if err := store.MarkCancelled(ctx, b.ID); !errors.Is(err, bookingstore.ErrNotBooked) {
		t.Errorf("cancel attended: got %v, want ErrNotBooked", err)
	}

	if err := store.MarkAttended(ctx, primitive.NewObjectID()); !errors.Is(err, bookingstore.ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestHasActive(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Community Kitchen", 10, false)
	ident := fx.CreateIdentity(ctx, "Aisha Rahman", "60123456789")
	b := fx.CreateBooking(ctx, ev, ident, models.BookingStatusBooked)

	active, err := store.HasActive(ctx, ev.ID, ident.Phone)
	if err != nil {
		t.Fatalf("HasActive: %v", err)
	}
	if !active {
		t.Error("expected active booking")
	}

	if err := store.MarkCancelled(ctx, b.ID); err != nil {
		t.Fatalf("MarkCancelled: %v", err)
	}
	active, err = store.HasActive(ctx, ev.ID, ident.Phone)
	if err != nil {
		t.Fatalf("HasActive after cancel: %v", err)
	}
	if active {
		t.Error("cancelled booking must not count as active")
	}
}

func TestListByEvent_StatusFilter(t *testing.T) {
	store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Community Kitchen", 10, false)
	a := fx.CreateIdentity(ctx, "Aisha Rahman", "60123456701")
	b := fx.CreateIdentity(ctx, "Mei Ling", "60123456702")
	fx.CreateBooking(ctx, ev, a, models.BookingStatusBooked)
	fx.CreateBooking(ctx, ev, b, models.BookingStatusCancelled)

	all, err := store.ListByEvent(ctx, ev.ID, "")
	if err != nil {
		t.Fatalf("ListByEvent: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all bookings = %d, want 2", len(all))
	}

	booked, err := store.ListByEvent(ctx, ev.ID, models.BookingStatusBooked)
	if err != nil {
		t.Fatalf("ListByEvent booked: %v", err)
	}
	if len(booked) != 1 || booked[0].Phone != "60123456701" {
		t.Errorf("booked filter returned %d rows", len(booked))
	}
}
