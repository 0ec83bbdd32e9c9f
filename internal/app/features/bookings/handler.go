// Package bookings exposes the public booking submission endpoint and
// the staff check-in/cancel/list endpoints.
package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/careconnect/careconnect/internal/app/admission"
	"github.com/careconnect/careconnect/internal/app/policy/eligibility"
	bookingstore "github.com/careconnect/careconnect/internal/app/store/bookings"
	"github.com/careconnect/careconnect/internal/app/system/apierr"
	"github.com/careconnect/careconnect/internal/app/system/inputval"
	"github.com/careconnect/careconnect/internal/app/system/normalize"
	"github.com/careconnect/careconnect/internal/app/system/timeouts"
	"github.com/careconnect/careconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Flow     *admission.Workflow
	Bookings *bookingstore.Store
	Log      *zap.Logger
}

func NewHandler(flow *admission.Workflow, bookings *bookingstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Flow: flow, Bookings: bookings, Log: logger}
}

// HandleSubmit handles POST /events/{id}/bookings.
//
// The admission pipeline runs with a hard deadline; if the store cannot
// answer in time the attempt fails closed rather than overbooking.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "Event not found.")
	if !ok {
		return
	}

	var form admission.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		apierr.Write(w, apierr.KindValidation, "Request body is not valid JSON.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "booking submit")
	defer cancel()

	res, err := h.Flow.Submit(ctx, eventID, form)
	if err != nil {
		h.writeSubmitError(w, eventID, err)
		return
	}

	h.Log.Info("booking created",
		zap.String("event_id", eventID.Hex()),
		zap.String("booking_id", res.BookingID.Hex()),
		zap.String("ref", res.Ref))
	apierr.JSON(w, http.StatusCreated, map[string]string{
		"booking_id": res.BookingID.Hex(),
		"ref":        res.Ref,
	})
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, eventID primitive.ObjectID, err error) {
	var verr *admission.ValidationError
	switch {
	case errors.As(err, &verr):
		apierr.WriteField(w, apierr.KindValidation, verr.Message, verr.Field)
	case errors.Is(err, eligibility.ErrWrongGender),
		errors.Is(err, eligibility.ErrAgeOutOfRange),
		errors.Is(err, eligibility.ErrIncomeTooHigh),
		errors.Is(err, eligibility.ErrMissingFields):
		apierr.Write(w, apierr.KindEligibility, err.Error())
	case errors.Is(err, admission.ErrEventFull):
		apierr.Write(w, apierr.KindCapacity, err.Error())
	case errors.Is(err, admission.ErrAlreadyBooked):
		apierr.Write(w, apierr.KindDuplicate, err.Error())
	case errors.Is(err, admission.ErrEventNotFound):
		apierr.Write(w, apierr.KindNotFound, "Event not found.")
	default:
		h.Log.Error("booking submit failed",
			zap.String("event_id", eventID.Hex()),
			zap.Bool("deadline_exceeded", errors.Is(err, context.DeadlineExceeded)),
			zap.Error(err))
		apierr.WriteStore(w)
	}
}

// bookingView is the staff JSON shape for one booking.
type bookingView struct {
	ID         string    `json:"id"`
	Ref        string    `json:"ref"`
	EventID    string    `json:"event_id"`
	IdentityID string    `json:"identity_id"`
	Phone      string    `json:"phone"`
	Status     string    `json:"status"`
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	BookedAt   time.Time `json:"booked_at"`
}

// ServeListByEvent handles GET /bookings/event/{id} for staff. An
// optional ?status= filter narrows to one booking state.
func (h *Handler) ServeListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "Event not found.")
	if !ok {
		return
	}

	status := normalize.QueryParam(r.URL.Query().Get("status"))
	if status != "" && !models.BookingStatusValid(status) {
		apierr.WriteField(w, apierr.KindValidation, "Unknown booking status.", "status")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "bookings list")
	defer cancel()

	list, err := h.Bookings.ListByEvent(ctx, eventID, status)
	if err != nil {
		h.Log.Error("list bookings failed", zap.String("event_id", eventID.Hex()), zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	views := make([]bookingView, 0, len(list))
	for _, b := range list {
		views = append(views, bookingView{
			ID:         b.ID.Hex(),
			Ref:        b.Ref,
			EventID:    b.EventID.Hex(),
			IdentityID: b.IdentityID.Hex(),
			Phone:      b.Phone,
			Status:     b.Status,
			EventTitle: b.EventTitle,
			EventDate:  b.EventDate,
			BookedAt:   b.BookedAt,
		})
	}
	apierr.JSON(w, http.StatusOK, map[string]any{"bookings": views})
}

// HandleCheckIn handles POST /bookings/{id}/checkin for staff.
func (h *Handler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Booking not found.")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "booking check-in")
	defer cancel()

	switch err := h.Flow.CheckIn(ctx, id); {
	case err == nil:
		h.Log.Info("booking checked in", zap.String("booking_id", id.Hex()))
		apierr.JSON(w, http.StatusOK, map[string]string{"id": id.Hex(), "status": models.BookingStatusAttended})
	case errors.Is(err, admission.ErrBookingNotFound):
		apierr.Write(w, apierr.KindNotFound, "Booking not found.")
	case errors.Is(err, admission.ErrNotBooked):
		apierr.Write(w, apierr.KindState, "Only an active booking can be checked in.")
	default:
		h.Log.Error("check-in failed", zap.String("booking_id", id.Hex()), zap.Error(err))
		apierr.WriteStore(w)
	}
}

// HandleCancel handles POST /bookings/{id}/cancel for staff. Cancelling
// an already-cancelled booking returns 200; the slot is already free.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Booking not found.")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "booking cancel")
	defer cancel()

	switch err := h.Flow.Cancel(ctx, id); {
	case err == nil:
		h.Log.Info("booking cancelled", zap.String("booking_id", id.Hex()))
		apierr.JSON(w, http.StatusOK, map[string]string{"id": id.Hex(), "status": models.BookingStatusCancelled})
	case errors.Is(err, admission.ErrBookingNotFound):
		apierr.Write(w, apierr.KindNotFound, "Booking not found.")
	case errors.Is(err, admission.ErrAlreadyAttended):
		apierr.Write(w, apierr.KindState, "An attended booking cannot be cancelled.")
	default:
		h.Log.Error("cancel failed", zap.String("booking_id", id.Hex()), zap.Error(err))
		apierr.WriteStore(w)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, notFound string) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(raw) {
		apierr.Write(w, apierr.KindNotFound, notFound)
		return primitive.NilObjectID, false
	}
	id, _ := primitive.ObjectIDFromHex(raw)
	return id, true
}
