// internal/app/features/identities/routes.go
package identities

import (
	"github.com/careconnect/careconnect/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the staff identity endpoints (typically at "/identities").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin", "staff"))

		pr.Get("/{id}", h.ServeDetail)
		pr.Put("/{id}", h.HandleUpdateProfile)
	})

	return r
}
