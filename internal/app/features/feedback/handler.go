// Package feedback accepts anonymous event feedback and gives staff a
// moderation surface.
package feedback

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	eventstore "github.com/careconnect/careconnect/internal/app/store/events"
	feedbackstore "github.com/careconnect/careconnect/internal/app/store/feedback"
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
	Feedback *feedbackstore.Store
	Events   *eventstore.Store
	Log      *zap.Logger
}

func NewHandler(feedback *feedbackstore.Store, events *eventstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Feedback: feedback, Events: events, Log: logger}
}

type feedbackForm struct {
	Body string `json:"body"`
}

// HandleCreate handles POST /events/{id}/feedback. No session required;
// feedback stores no author identity.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(raw) {
		apierr.Write(w, apierr.KindNotFound, "Event not found.")
		return
	}
	eventID, _ := primitive.ObjectIDFromHex(raw)

	var form feedbackForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		apierr.Write(w, apierr.KindValidation, "Request body is not valid JSON.")
		return
	}

	form.Body = htmlsanitize.PlainText(form.Body)
	if form.Body == "" {
		apierr.WriteField(w, apierr.KindValidation, "Feedback text is required.", "body")
		return
	}
	if !inputval.WithinWordLimit(form.Body, inputval.MaxFreeTextWords) {
		apierr.WriteField(w, apierr.KindValidation, "Feedback may be at most 50 words.", "body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "feedback create")
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			apierr.Write(w, apierr.KindNotFound, "Event not found.")
			return
		}
		h.Log.Error("feedback event lookup failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	fb, err := h.Feedback.Create(ctx, models.Feedback{EventID: eventID, Body: form.Body})
	if err != nil {
		h.Log.Error("create feedback failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	apierr.JSON(w, http.StatusCreated, map[string]string{"id": fb.ID.Hex()})
}

type feedbackView struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ServeByEvent handles GET /feedback/event/{id} for staff.
func (h *Handler) ServeByEvent(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(raw) {
		apierr.Write(w, apierr.KindNotFound, "Event not found.")
		return
	}
	eventID, _ := primitive.ObjectIDFromHex(raw)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "feedback list")
	defer cancel()

	list, err := h.Feedback.ListByEvent(ctx, eventID)
	if err != nil {
		h.Log.Error("list feedback failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	views := make([]feedbackView, 0, len(list))
	for _, fb := range list {
		views = append(views, feedbackView{ID: fb.ID.Hex(), Body: fb.Body, CreatedAt: fb.CreatedAt})
	}
	apierr.JSON(w, http.StatusOK, map[string]any{"feedback": views})
}

// HandleDelete handles DELETE /feedback/{id} for staff moderation.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(raw) {
		apierr.Write(w, apierr.KindNotFound, "Feedback not found.")
		return
	}
	id, _ := primitive.ObjectIDFromHex(raw)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "feedback delete")
	defer cancel()

	deleted, err := h.Feedback.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete feedback failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	if deleted == 0 {
		apierr.Write(w, apierr.KindNotFound, "Feedback not found.")
		return
	}

	h.Log.Info("feedback deleted", zap.String("feedback_id", id.Hex()))
	apierr.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}
