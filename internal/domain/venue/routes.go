package venue

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns venue router
func (h *Handler) Routes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public routes
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/pricing-rules", h.ListPricingRules)
	r.Get("/{id}/deposit-rules", h.ListDepositRules)

	// Back-office routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Post("/", h.Create)
		r.Put("/{id}/buffer", h.UpdateBuffer)
	})

	return r
}
