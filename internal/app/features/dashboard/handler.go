// Package dashboard serves role-scoped summary figures for the
// signed-in staff home screen.
package dashboard

import (
	"net/http"

	bookingstore "github.com/careconnect/careconnect/internal/app/store/bookings"
	eventstore "github.com/careconnect/careconnect/internal/app/store/events"
	identitystore "github.com/careconnect/careconnect/internal/app/store/identities"
	outboxstore "github.com/careconnect/careconnect/internal/app/store/notifications"
	outreachstore "github.com/careconnect/careconnect/internal/app/store/outreach"
	"github.com/careconnect/careconnect/internal/app/system/apierr"
	"github.com/careconnect/careconnect/internal/app/system/authz"
	"github.com/careconnect/careconnect/internal/app/system/timeouts"
	"github.com/careconnect/careconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Events        *eventstore.Store
	Bookings      *bookingstore.Store
	Identities    *identitystore.Store
	Outreach      *outreachstore.Store
	Notifications *outboxstore.Store
	Log           *zap.Logger
}

func NewHandler(events *eventstore.Store, bookings *bookingstore.Store, identities *identitystore.Store,
	outreach *outreachstore.Store, notifications *outboxstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Events:        events,
		Bookings:      bookings,
		Identities:    identities,
		Outreach:      outreach,
		Notifications: notifications,
		Log:           logger,
	}
}

type staffSummary struct {
	Role                 string `json:"role"`
	Events               int64  `json:"events"`
	ActiveBookings       int64  `json:"active_bookings"`
	AttendedBookings     int64  `json:"attended_bookings"`
	CancelledBookings    int64  `json:"cancelled_bookings"`
	People               int64  `json:"people"`
	OutreachReached      int64  `json:"outreach_reached"`
	PendingNotifications int64  `json:"pending_notifications"`
}

type leaderSummary struct {
	Role            string `json:"role"`
	OutreachLogs    int    `json:"outreach_logs"`
	OutreachReached int64  `json:"outreach_reached"`
}

// Serve handles GET /dashboard. Staff and admins see charity-wide
// figures; leaders see their own outreach totals.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		apierr.Write(w, apierr.KindValidation, "Session is not valid.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard")
	defer cancel()
	r = r.WithContext(ctx)

	if authz.IsLeader(r) {
		logs, err := h.Outreach.ListByLeader(ctx, userID)
		if err != nil {
			h.Log.Error("dashboard: leader outreach failed", zap.Error(err))
			apierr.WriteStore(w)
			return
		}
		reached, err := h.Outreach.TotalReached(ctx, userID)
		if err != nil {
			h.Log.Error("dashboard: leader totals failed", zap.Error(err))
			apierr.WriteStore(w)
			return
		}
		apierr.JSON(w, http.StatusOK, leaderSummary{
			Role:            role,
			OutreachLogs:    len(logs),
			OutreachReached: reached,
		})
		return
	}

	events, err := h.Events.Count(ctx)
	if err != nil {
		h.Log.Error("dashboard: event count failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	byStatus, err := h.Bookings.CountByStatus(ctx, primitive.NilObjectID)
	if err != nil {
		h.Log.Error("dashboard: booking counts failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	people, err := h.Identities.Count(ctx)
	if err != nil {
		h.Log.Error("dashboard: identity count failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	reached, err := h.Outreach.TotalReached(ctx, primitive.NilObjectID)
	if err != nil {
		h.Log.Error("dashboard: outreach totals failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}
	pending, err := h.Notifications.CountPending(ctx)
	if err != nil {
		h.Log.Error("dashboard: pending notifications failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	apierr.JSON(w, http.StatusOK, staffSummary{
		Role:                 role,
		Events:               events,
		ActiveBookings:       byStatus[models.BookingStatusBooked],
		AttendedBookings:     byStatus[models.BookingStatusAttended],
		CancelledBookings:    byStatus[models.BookingStatusCancelled],
		People:               people,
		OutreachReached:      reached,
		PendingNotifications: pending,
	})
}
