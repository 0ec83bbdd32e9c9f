// internal/app/features/feedback/routes.go
package feedback

import (
	"github.com/careconnect/careconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// PublicRoutes serves the anonymous feedback submission. Mounted under
// /events/{id}/feedback so the chi "id" parameter is the event.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleCreate)
	return r
}

// StaffRoutes serves the moderation endpoints (mounted at "/feedback").
func StaffRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin", "staff"))

		pr.Get("/event/{id}", h.ServeByEvent)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
