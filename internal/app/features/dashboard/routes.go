// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/careconnect/careconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the dashboard subrouter (mounted at "/dashboard").
// Any signed-in role may view it; the handler scopes the figures.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.Serve)
	})
	return r
}
