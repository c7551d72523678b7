package pricing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns pricing router
func (h *Handler) Routes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public: clients see current pricing before booking
	r.Get("/", h.List)

	// Admin mutation
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Put("/{setupID}", h.SetRule)
	})

	return r
}
