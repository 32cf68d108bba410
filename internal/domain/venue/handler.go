package venue

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/venuedesk/venuedesk-api/internal/pkg/response"
	"github.com/venuedesk/venuedesk-api/internal/pkg/validator"
)

// Handler handles venue HTTP requests
type Handler struct {
	repo Repository

	// defaultBufferMinutes is applied to newly created venues that do
	// not specify their own buffer.
	defaultBufferMinutes int
}

// NewHandler creates venue handler
func NewHandler(repo Repository, defaultBufferMinutes int) *Handler {
	return &Handler{repo: repo, defaultBufferMinutes: defaultBufferMinutes}
}

// Create handles POST /venues
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if req.BufferMinutes == 0 {
		req.BufferMinutes = h.defaultBufferMinutes
	}

	v := &Venue{
		ID:            uuid.New(),
		Name:          req.Name,
		City:          sql.NullString{String: req.City, Valid: req.City != ""},
		Address:       sql.NullString{String: req.Address, Valid: req.Address != ""},
		Capacity:      req.Capacity,
		Currency:      req.Currency,
		BufferMinutes: req.BufferMinutes,
	}

	if err := h.repo.Create(r.Context(), v); err != nil {
		log.Error().Err(err).Msg("failed to create venue")
		response.InternalError(w)
		return
	}

	response.Created(w, VenueResponseFromEntity(v))
}

// GetByID handles GET /venues/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue ID")
		return
	}

	v, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("venue_id", id.String()).Msg("failed to load venue")
		response.InternalError(w)
		return
	}
	if v == nil {
		response.NotFound(w, "Venue not found")
		return
	}

	response.OK(w, VenueResponseFromEntity(v))
}

// List handles GET /venues
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}
	offset := parseQueryInt(r, "offset", 0)

	venues, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list venues")
		response.InternalError(w)
		return
	}

	out := make([]VenueResponse, len(venues))
	for i, v := range venues {
		out[i] = VenueResponseFromEntity(v)
	}
	response.OK(w, out)
}

// UpdateBuffer handles PUT /venues/{id}/buffer
func (h *Handler) UpdateBuffer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue ID")
		return
	}

	var req UpdateBufferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.repo.UpdateBufferMinutes(r.Context(), id, req.BufferMinutes); err != nil {
		if err == ErrVenueNotFound {
			response.NotFound(w, "Venue not found")
			return
		}
		log.Error().Err(err).Str("venue_id", id.String()).Msg("failed to update buffer")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]int{"buffer_minutes": req.BufferMinutes})
}

// ListPricingRules handles GET /venues/{id}/pricing-rules
func (h *Handler) ListPricingRules(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue ID")
		return
	}

	rules, err := h.repo.ListPricingRules(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("venue_id", id.String()).Msg("failed to list pricing rules")
		response.InternalError(w)
		return
	}

	out := make([]PricingRuleResponse, len(rules))
	for i, rule := range rules {
		out[i] = PricingRuleResponseFromEntity(rule)
	}
	response.OK(w, out)
}

// ListDepositRules handles GET /venues/{id}/deposit-rules
func (h *Handler) ListDepositRules(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue ID")
		return
	}

	rules, err := h.repo.ListDepositRules(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("venue_id", id.String()).Msg("failed to list deposit rules")
		response.InternalError(w)
		return
	}

	out := make([]DepositRuleResponse, len(rules))
	for i, rule := range rules {
		out[i] = DepositRuleResponse{MinDaysBefore: rule.MinDaysBefore, Percent: rule.Percent}
	}
	response.OK(w, out)
}

func parseQueryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}
