// internal/app/features/bookings/routes.go
package bookings

import (
	"github.com/careconnect/careconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// PublicRoutes serves the unauthenticated booking submission. Mounted
// under /events/{id}/bookings so the chi "id" parameter is the event.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleSubmit)
	return r
}

// StaffRoutes serves the booking management endpoints (typically
// mounted at "/bookings" from bootstrap).
func StaffRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin", "staff"))

		pr.Get("/event/{id}", h.ServeListByEvent)
		pr.Post("/{id}/checkin", h.HandleCheckIn)
		pr.Post("/{id}/cancel", h.HandleCancel)
	})

	return r
}
