// Package events serves the public event listing and the staff CRUD
// endpoints.
package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/careconnect/careconnect/internal/app/admission"
	bookingstore "github.com/careconnect/careconnect/internal/app/store/bookings"
	eventstore "github.com/careconnect/careconnect/internal/app/store/events"
	"github.com/careconnect/careconnect/internal/app/system/apierr"
	"github.com/careconnect/careconnect/internal/app/system/htmlsanitize"
	"github.com/careconnect/careconnect/internal/app/system/inputval"
	"github.com/careconnect/careconnect/internal/app/system/timeouts"
	"github.com/careconnect/careconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Events   *eventstore.Store
	Bookings *bookingstore.Store
	Flow     *admission.Workflow
	Log      *zap.Logger
}

func NewHandler(events *eventstore.Store, bookings *bookingstore.Store, flow *admission.Workflow, logger *zap.Logger) *Handler {
	return &Handler{Events: events, Bookings: bookings, Flow: flow, Log: logger}
}

// eventView is the public JSON shape for one event. SpacesLeft is
// re-derived per request; it is a snapshot, not a reservation.
type eventView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Capacity    int       `json:"capacity"`
	Restricted  bool      `json:"restricted"`
	SpacesLeft  int64     `json:"spaces_left"`
}

func (h *Handler) view(r *http.Request, ev *models.Event) (eventView, error) {
	cap, err := h.Flow.CheckCapacity(r.Context(), ev)
	if err != nil {
		return eventView{}, err
	}
	return eventView{
		ID:          ev.ID.Hex(),
		Title:       ev.Title,
		Date:        ev.Date,
		Location:    ev.Location,
		Description: ev.Description,
		ImageURL:    ev.ImageURL,
		Capacity:    ev.Capacity,
		Restricted:  ev.Restricted,
		SpacesLeft:  cap.Remaining,
	}, nil
}

// ServeList handles GET /events: upcoming events, soonest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "events list")
	defer cancel()
	r = r.WithContext(ctx)

	evs, err := h.Events.ListUpcoming(ctx, time.Now().UTC())
	if err != nil {
		h.Log.Error("list upcoming events failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	views := make([]eventView, 0, len(evs))
	for i := range evs {
		v, err := h.view(r, &evs[i])
		if err != nil {
			h.Log.Error("event capacity read failed",
				zap.String("event_id", evs[i].ID.Hex()), zap.Error(err))
			apierr.WriteStore(w)
			return
		}
		views = append(views, v)
	}
	apierr.JSON(w, http.StatusOK, map[string]any{"events": views})
}

// ServeAll handles GET /events/all for staff: every event, newest first.
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "events list all")
	defer cancel()
	r = r.WithContext(ctx)

	evs, err := h.Events.ListAll(ctx)
	if err != nil {
		h.Log.Error("list all events failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	views := make([]eventView, 0, len(evs))
	for i := range evs {
		v, err := h.view(r, &evs[i])
		if err != nil {
			apierr.WriteStore(w)
			return
		}
		views = append(views, v)
	}
	apierr.JSON(w, http.StatusOK, map[string]any{"events": views})
}

// ServeDetail handles GET /events/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event detail")
	defer cancel()
	r = r.WithContext(ctx)

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			apierr.Write(w, apierr.KindNotFound, "Event not found.")
			return
		}
		h.Log.Error("load event failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	v, err := h.view(r, ev)
	if err != nil {
		apierr.WriteStore(w)
		return
	}
	apierr.JSON(w, http.StatusOK, v)
}

// eventForm carries create/update payloads.
type eventForm struct {
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Capacity    int       `json:"capacity"`
	Restricted  bool      `json:"restricted"`
}

func (f *eventForm) validate(w http.ResponseWriter) bool {
	if f.Title == "" {
		apierr.WriteField(w, apierr.KindValidation, "Title is required.", "title")
		return false
	}
	if f.Date.IsZero() {
		apierr.WriteField(w, apierr.KindValidation, "Event date is required.", "date")
		return false
	}
	if f.Capacity < 0 {
		apierr.WriteField(w, apierr.KindValidation, "Capacity must be zero or a positive number.", "capacity")
		return false
	}
	f.Description = htmlsanitize.Sanitize(f.Description)
	return true
}

// HandleCreate handles POST /events (staff/admin).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var form eventForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		apierr.Write(w, apierr.KindValidation, "Request body is not valid JSON.")
		return
	}
	if !form.validate(w) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event create")
	defer cancel()

	ev, err := h.Events.Create(ctx, models.Event{
		Title:       form.Title,
		Date:        form.Date,
		Location:    form.Location,
		Description: form.Description,
		ImageURL:    form.ImageURL,
		Capacity:    form.Capacity,
		Restricted:  form.Restricted,
	})
	if err != nil {
		h.Log.Error("create event failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	h.Log.Info("event created",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("title", ev.Title))
	apierr.JSON(w, http.StatusCreated, map[string]string{"id": ev.ID.Hex()})
}

// HandleUpdate handles PUT /events/{id} (staff/admin).
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var form eventForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		apierr.Write(w, apierr.KindValidation, "Request body is not valid JSON.")
		return
	}
	if !form.validate(w) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event update")
	defer cancel()

	err := h.Events.UpdateEvent(ctx, id, eventstore.Update{
		Title:       form.Title,
		Date:        form.Date,
		Location:    form.Location,
		Description: form.Description,
		ImageURL:    form.ImageURL,
		Capacity:    form.Capacity,
		Restricted:  form.Restricted,
	})
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			apierr.Write(w, apierr.KindNotFound, "Event not found.")
			return
		}
		h.Log.Error("update event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	apierr.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

// HandleDelete handles DELETE /events/{id} (admin). Deletion is refused
// while any booking references the event so history stays intact.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event delete")
	defer cancel()

	counts, err := h.Bookings.CountByStatus(ctx, id)
	if err != nil {
		h.Log.Error("count bookings before delete failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	if total > 0 {
		apierr.Write(w, apierr.KindState, "This event has bookings and cannot be deleted.")
		return
	}

	deleted, err := h.Events.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete event failed", zap.String("event_id", id.Hex()), zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	if deleted == 0 {
		apierr.Write(w, apierr.KindNotFound, "Event not found.")
		return
	}

	h.Log.Info("event deleted", zap.String("event_id", id.Hex()))
	apierr.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(raw) {
		apierr.Write(w, apierr.KindNotFound, "Event not found.")
		return primitive.NilObjectID, false
	}
	id, _ := primitive.ObjectIDFromHex(raw)
	return id, true
}
