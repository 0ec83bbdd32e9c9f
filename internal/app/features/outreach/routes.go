// internal/app/features/outreach/routes.go
package outreach

import (
	"github.com/careconnect/careconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the outreach routes (typically at "/outreach").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("leader"))

		pr.Post("/", h.HandleCreate)
		pr.Get("/", h.ServeMine)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin", "staff"))

		pr.Get("/event/{id}", h.ServeByEvent)
	})

	return r
}
