package search

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers search, index and health routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/search", h.Search)
	r.Post("/index", h.Index)
	r.Get("/health", h.Health)
}
