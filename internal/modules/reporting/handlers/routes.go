package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all report routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.HandleGetGroups)
		r.Get("/top", h.HandleGetTop)
		r.Get("/variants", h.HandleGetVariants)
		r.Get("/search", h.HandleSearch)
		r.Get("/key/{key}", h.HandleGetGroup)
	})

	r.Get("/categories", h.HandleGetCategories)
	r.Get("/stats", h.HandleGetStats)
	r.Get("/normalize", h.HandleNormalize)
}
