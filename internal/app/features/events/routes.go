// internal/app/features/events/routes.go
package events

import (
	"github.com/careconnect/careconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the event routes under the base path (typically
// "/events" from bootstrap). Listing and detail are public; mutation
// requires a staff session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	// Staff routes first so /all is not swallowed by /{id}.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin", "staff"))

		pr.Get("/all", h.ServeAll)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin"))

		pr.Delete("/{id}", h.HandleDelete)
	})

	r.Get("/{id}", h.ServeDetail)

	return r
}
