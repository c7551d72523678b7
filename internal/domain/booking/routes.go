package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns booking router
func (h *Handler) Routes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public lookup by booking id + email
	r.Get("/check", h.Check)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/my", h.ListMine)
		r.Get("/{id}", h.GetByID)
		r.Patch("/{id}", h.Reschedule)
		r.Post("/{id}/cancel", h.Cancel)
	})

	// Admin listing
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/", h.ListAll)
	})

	return r
}
