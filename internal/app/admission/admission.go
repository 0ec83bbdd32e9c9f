// Package admission decides whether a booking attempt is accepted and
// owns the booking status transitions.
//
// One submission runs a strictly ordered, short-circuiting pipeline:
// field validation, eligibility, capacity, identity resolution,
// duplicate check, booking write, outbox enqueue. Every check re-reads
// the store at decision time; no counts or duplicate sets are cached
// across requests. Capacity enforcement is best-effort under
// concurrency (two submissions near the boundary can both observe a
// free slot); the duplicate invariant is hard, backed by a partial
// unique index on (event_id, phone, status=booked).
//
// The stores are injected as narrow interfaces so the pipeline is
// testable with in-memory doubles.
package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careconnect/careconnect/internal/app/policy/eligibility"
	bookingstore "github.com/careconnect/careconnect/internal/app/store/bookings"
	eventstore "github.com/careconnect/careconnect/internal/app/store/events"
	identitystore "github.com/careconnect/careconnect/internal/app/store/identities"
	"github.com/careconnect/careconnect/internal/app/system/sms"
	"github.com/careconnect/careconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrEventNotFound is returned when the target event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventFull is returned when the event has no capacity remaining
	// at decision time.
	ErrEventFull = errors.New("this event is fully booked")
	// ErrAlreadyBooked is returned when the phone number already holds an
	// active booking for the event.
	ErrAlreadyBooked = errors.New("this phone number already has a booking for this event")
	// ErrBookingNotFound is returned by Cancel and CheckIn for unknown ids.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrAlreadyAttended is returned when cancelling or re-checking-in a
	// booking that has reached the terminal attended state.
	ErrAlreadyAttended = errors.New("booking has already been checked in")
	// ErrNotBooked is returned by CheckIn when the booking is not in the
	// booked state (cancelled, or already attended).
	ErrNotBooked = errors.New("booking is not in the booked state")
)

// EventSource is the slice of the event store the workflow reads.
type EventSource interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
}

// BookingLedger is the slice of the booking store the workflow uses.
type BookingLedger interface {
	CountConsumed(ctx context.Context, eventID primitive.ObjectID) (int64, error)
	HasActive(ctx context.Context, eventID primitive.ObjectID, phone string) (bool, error)
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	MarkAttended(ctx context.Context, id primitive.ObjectID) error
	MarkCancelled(ctx context.Context, id primitive.ObjectID) error
}

// IdentityDirectory is the slice of the identity store the workflow uses.
type IdentityDirectory interface {
	GetByPhone(ctx context.Context, phone string) (*models.Identity, error)
	Create(ctx context.Context, id models.Identity) (models.Identity, error)
}

// Outbox enqueues the confirmation SMS record.
type Outbox interface {
	Enqueue(ctx context.Context, n models.Notification) (models.Notification, error)
}

// Workflow orchestrates admission, check-in, and cancellation.
type Workflow struct {
	Events     EventSource
	Bookings   BookingLedger
	Identities IdentityDirectory
	Outbox     Outbox
	Policy     eligibility.Policy
	Log        *zap.Logger

	// Now supplies the clock; tests pin it for age boundaries.
	Now func() time.Time
}

// New builds a Workflow over the concrete Mongo stores.
func New(events *eventstore.Store, bookings *bookingstore.Store, identities *identitystore.Store,
	outbox Outbox, policy eligibility.Policy, logger *zap.Logger) *Workflow {
	return &Workflow{
		Events:     events,
		Bookings:   bookings,
		Identities: identities,
		Outbox:     outbox,
		Policy:     policy,
		Log:        logger,
		Now:        time.Now,
	}
}

// Result is what a successful submission returns.
type Result struct {
	BookingID  primitive.ObjectID
	Ref        string
	IdentityID primitive.ObjectID
}

// Capacity is a point-in-time capacity reading for an event.
type Capacity struct {
	Consumed  int64
	Remaining int64
}

// CheckCapacity re-derives the event's consumed/remaining counts from a
// fresh read. Remaining never goes negative even when a race overbooked.
func (w *Workflow) CheckCapacity(ctx context.Context, ev *models.Event) (Capacity, error) {
	consumed, err := w.Bookings.CountConsumed(ctx, ev.ID)
	if err != nil {
		return Capacity{}, fmt.Errorf("count bookings: %w", err)
	}
	remaining := int64(ev.Capacity) - consumed
	if remaining < 0 {
		remaining = 0
	}
	return Capacity{Consumed: consumed, Remaining: remaining}, nil
}

// Submit runs the admission pipeline for one booking attempt.
//
// On success exactly one booking is written, at most one identity is
// created, and one outbox record is enqueued. On any failure branch no
// booking is written; an identity created just before a failed booking
// write is retained on purpose (it is reused on retry).
func (w *Workflow) Submit(ctx context.Context, eventID primitive.ObjectID, form Form) (Result, error) {
	ev, err := w.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			return Result{}, ErrEventNotFound
		}
		return Result{}, fmt.Errorf("load event: %w", err)
	}

	// 1. Field validation.
	clean, verr := form.validate()
	if verr != nil {
		return Result{}, verr
	}

	// 2. Eligibility.
	if err := w.Policy.Evaluate(clean.applicant, ev.Restricted, w.Now()); err != nil {
		return Result{}, err
	}

	// 3. Capacity.
	cap, err := w.CheckCapacity(ctx, ev)
	if err != nil {
		return Result{}, err
	}
	if cap.Remaining <= 0 {
		return Result{}, ErrEventFull
	}

	// 4. Identity resolution: reuse by normalized phone, create on first
	// contact. Restricted-only fields stay nil for unrestricted events.
	ident, err := w.resolveIdentity(ctx, ev, clean)
	if err != nil {
		return Result{}, err
	}

	// 5. Duplicate check against the resolved identity's phone.
	dup, err := w.Bookings.HasActive(ctx, eventID, ident.Phone)
	if err != nil {
		return Result{}, fmt.Errorf("duplicate check: %w", err)
	}
	if dup {
		return Result{}, ErrAlreadyBooked
	}

	// 6. Booking write. The partial unique index catches the race the
	// read-side check cannot.
	booking, err := w.Bookings.Create(ctx, models.Booking{
		EventID:    ev.ID,
		IdentityID: ident.ID,
		Phone:      ident.Phone,
		EventTitle: ev.Title,
		EventDate:  ev.Date,
	})
	if err != nil {
		if errors.Is(err, bookingstore.ErrAlreadyBooked) {
			return Result{}, ErrAlreadyBooked
		}
		return Result{}, fmt.Errorf("create booking: %w", err)
	}

	// 7. Outbox enqueue. The booking stands even if this write fails;
	// delivery is best-effort and never blocks admission.
	if _, err := w.Outbox.Enqueue(ctx, models.Notification{
		BookingID: booking.ID,
		To:        ident.Phone,
		Body:      sms.BookingConfirmation(ev.Title, ev.Date),
	}); err != nil {
		w.Log.Error("outbox enqueue failed; booking confirmed without SMS",
			zap.String("booking_id", booking.ID.Hex()),
			zap.Error(err))
	}

	return Result{BookingID: booking.ID, Ref: booking.Ref, IdentityID: ident.ID}, nil
}

func (w *Workflow) resolveIdentity(ctx context.Context, ev *models.Event, clean cleanForm) (*models.Identity, error) {
	ident, err := w.Identities.GetByPhone(ctx, clean.phone)
	if err == nil {
		return ident, nil
	}
	if !errors.Is(err, identitystore.ErrNotFound) {
		return nil, fmt.Errorf("identity lookup: %w", err)
	}

	rec := models.Identity{
		FullName: clean.fullName,
		Phone:    clean.phone,
		Email:    clean.email,
		Address:  clean.address,
	}
	if ev.Restricted {
		rec.Gender = clean.applicant.Gender
		rec.DateOfBirth = clean.applicant.DateOfBirth
		rec.EmploymentStatus = clean.applicant.EmploymentStatus
		rec.MonthlyIncome = clean.applicant.MonthlyIncome
	}

	created, err := w.Identities.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, identitystore.ErrDuplicatePhone) {
			// A concurrent first booking created it; reuse theirs.
			return w.Identities.GetByPhone(ctx, clean.phone)
		}
		return nil, fmt.Errorf("identity create: %w", err)
	}
	return &created, nil
}

// CheckIn transitions a booking from booked to attended (staff action).
func (w *Workflow) CheckIn(ctx context.Context, bookingID primitive.ObjectID) error {
	err := w.Bookings.MarkAttended(ctx, bookingID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bookingstore.ErrNotFound):
		return ErrBookingNotFound
	case errors.Is(err, bookingstore.ErrNotBooked):
		return ErrNotBooked
	default:
		return fmt.Errorf("check in: %w", err)
	}
}

// Cancel transitions a booking from booked to cancelled. Cancelling an
// already-cancelled booking succeeds silently (the end state holds
// either way); cancelling an attended booking is rejected because
// attended is terminal. The record is never deleted.
func (w *Workflow) Cancel(ctx context.Context, bookingID primitive.ObjectID) error {
	err := w.Bookings.MarkCancelled(ctx, bookingID)
	if err == nil {
		return nil
	}
	if errors.Is(err, bookingstore.ErrNotFound) {
		return ErrBookingNotFound
	}
	if !errors.Is(err, bookingstore.ErrNotBooked) {
		return fmt.Errorf("cancel: %w", err)
	}

	// The booking exists but was not in "booked": decide by its state.
	b, getErr := w.Bookings.GetByID(ctx, bookingID)
	if getErr != nil {
		if errors.Is(getErr, bookingstore.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("cancel: %w", getErr)
	}
	if b.Status == models.BookingStatusCancelled {
		return nil
	}
	return ErrAlreadyAttended
}
