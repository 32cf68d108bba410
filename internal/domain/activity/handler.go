package activity

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/venuedesk/venuedesk-api/internal/pkg/response"
)

// EntryResponse represents an audit entry in API responses
type EntryResponse struct {
	ID        string    `json:"id"`
	VenueID   string    `json:"venue_id"`
	Action    string    `json:"action"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Handler handles activity log HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates activity handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes returns activity router, mounted under /venues/{id}/activity
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.ListByVenue)
	return r
}

// ListByVenue handles GET /venues/{id}/activity
func (h *Handler) ListByVenue(w http.ResponseWriter, r *http.Request) {
	venueID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue ID")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	entries, err := h.repo.ListByVenue(r.Context(), venueID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("venue_id", venueID.String()).Msg("failed to list activity log")
		response.InternalError(w)
		return
	}

	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{
			ID:        e.ID.String(),
			VenueID:   e.VenueID.String(),
			Action:    e.Action,
			CreatedAt: e.CreatedAt,
		}
		if e.UserID.Valid {
			out[i].UserID = e.UserID.UUID.String()
		}
	}
	response.OK(w, out)
}
