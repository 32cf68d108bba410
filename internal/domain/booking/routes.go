package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns booking router. All booking operations are back-office
// surface and require authentication.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/date", h.GetDay)
		r.Get("/ws", h.WebSocket)

		r.Post("/", h.Create)
		r.Get("/{ref}", h.Get)
		r.Put("/{ref}", h.Update)
		r.Post("/{ref}/cancel", h.Cancel)
	})

	return r
}

// DraftRoutes returns the booking-drafts router.
func (h *Handler) DraftRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/", h.SaveDraft)
		r.Get("/", h.ListDrafts)
		r.Delete("/{id}", h.DeleteDraft)
	})

	return r
}
