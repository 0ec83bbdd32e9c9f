// Package outreach lets local leaders log their promotion work for
// events and review their own history.
package outreach

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	eventstore "github.com/careconnect/careconnect/internal/app/store/events"
	outreachstore "github.com/careconnect/careconnect/internal/app/store/outreach"
	"github.com/careconnect/careconnect/internal/app/system/apierr"
	"github.com/careconnect/careconnect/internal/app/system/authz"
	"github.com/careconnect/careconnect/internal/app/system/htmlsanitize"
	"github.com/careconnect/careconnect/internal/app/system/inputval"
	"github.com/careconnect/careconnect/internal/app/system/timeouts"
	"github.com/careconnect/careconnect/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Outreach *outreachstore.Store
	Events   *eventstore.Store
	Log      *zap.Logger
}

func NewHandler(outreach *outreachstore.Store, events *eventstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Outreach: outreach, Events: events, Log: logger}
}

type outreachForm struct {
	EventID       string    `json:"event_id"`
	Method        string    `json:"method"`
	PeopleReached int       `json:"people_reached"`
	Details       string    `json:"details"`
	OutreachDate  time.Time `json:"outreach_date"`
}

// HandleCreate handles POST /outreach for leaders. Logs are append-only;
// there is no edit or delete endpoint.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, leaderID, ok := authz.UserCtx(r)
	if !ok {
		apierr.Write(w, apierr.KindValidation, "Session is not valid.")
		return
	}

	var form outreachForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		apierr.Write(w, apierr.KindValidation, "Request body is not valid JSON.")
		return
	}

	if !inputval.IsValidObjectID(form.EventID) {
		apierr.WriteField(w, apierr.KindValidation, "An event is required.", "event_id")
		return
	}
	eventID, _ := primitive.ObjectIDFromHex(form.EventID)

	if !models.OutreachMethodValid(form.Method) {
		apierr.WriteField(w, apierr.KindValidation, "Unknown outreach method.", "method")
		return
	}
	if form.PeopleReached <= 0 {
		apierr.WriteField(w, apierr.KindValidation, "People reached must be a positive number.", "people_reached")
		return
	}
	form.Details = htmlsanitize.PlainText(form.Details)
	if !inputval.WithinWordLimit(form.Details, inputval.MaxFreeTextWords) {
		apierr.WriteField(w, apierr.KindValidation, "Details may be at most 50 words.", "details")
		return
	}
	if form.OutreachDate.IsZero() {
		form.OutreachDate = time.Now().UTC()
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "outreach create")
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			apierr.Write(w, apierr.KindNotFound, "Event not found.")
			return
		}
		h.Log.Error("outreach event lookup failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	log, err := h.Outreach.Create(ctx, models.OutreachLog{
		EventID:       eventID,
		LeaderID:      leaderID,
		PeopleReached: form.PeopleReached,
		Method:        form.Method,
		Details:       form.Details,
		OutreachDate:  form.OutreachDate,
	})
	if err != nil {
		h.Log.Error("create outreach log failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	h.Log.Info("outreach logged",
		zap.String("leader_id", leaderID.Hex()),
		zap.String("event_id", eventID.Hex()),
		zap.String("method", form.Method),
		zap.Int("people_reached", form.PeopleReached))
	apierr.JSON(w, http.StatusCreated, map[string]string{"id": log.ID.Hex()})
}

type logView struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	Method        string    `json:"method"`
	PeopleReached int       `json:"people_reached"`
	Details       string    `json:"details,omitempty"`
	OutreachDate  time.Time `json:"outreach_date"`
}

func views(list []models.OutreachLog) []logView {
	out := make([]logView, 0, len(list))
	for _, l := range list {
		out = append(out, logView{
			ID:            l.ID.Hex(),
			EventID:       l.EventID.Hex(),
			Method:        l.Method,
			PeopleReached: l.PeopleReached,
			Details:       l.Details,
			OutreachDate:  l.OutreachDate,
		})
	}
	return out
}

// ServeMine handles GET /outreach: the signed-in leader's own logs.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, leaderID, ok := authz.UserCtx(r)
	if !ok {
		apierr.Write(w, apierr.KindValidation, "Session is not valid.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "outreach list")
	defer cancel()

	list, err := h.Outreach.ListByLeader(ctx, leaderID)
	if err != nil {
		h.Log.Error("list outreach failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	apierr.JSON(w, http.StatusOK, map[string]any{"logs": views(list)})
}

// ServeByEvent handles GET /outreach/event/{id} for staff: all leaders'
// logs for one event.
func (h *Handler) ServeByEvent(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(raw) {
		apierr.Write(w, apierr.KindNotFound, "Event not found.")
		return
	}
	eventID, _ := primitive.ObjectIDFromHex(raw)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "outreach by event")
	defer cancel()

	list, err := h.Outreach.ListByEvent(ctx, eventID)
	if err != nil {
		h.Log.Error("list outreach by event failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	apierr.JSON(w, http.StatusOK, map[string]any{"logs": views(list)})
}
