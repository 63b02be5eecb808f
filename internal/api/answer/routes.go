package answer

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers answer generation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/generate", h.Generate)
	r.Post("/ask", h.Ask)
}
