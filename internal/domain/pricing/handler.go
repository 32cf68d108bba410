package pricing

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/venuedesk/venuedesk-api/internal/domain/venue"
	"github.com/venuedesk/venuedesk-api/internal/pkg/response"
	"github.com/venuedesk/venuedesk-api/internal/pkg/timeutil"
)

// Handler handles pricing HTTP requests
type Handler struct {
	calc      *Calculator
	venueRepo venue.Repository
}

// NewHandler creates pricing handler
func NewHandler(calc *Calculator, venueRepo venue.Repository) *Handler {
	return &Handler{calc: calc, venueRepo: venueRepo}
}

// Routes returns pricing router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetQuote)
	return r
}

// GetQuote handles GET /pricing?venue_id&date&start_time&end_time&people_count&pricing_type
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	venueID, err := uuid.Parse(q.Get("venue_id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue_id")
		return
	}

	date, err := timeutil.ParseDate(q.Get("date"))
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}

	startTime := q.Get("start_time")
	endTime := q.Get("end_time")
	if _, err := timeutil.ToMinutes(startTime); err != nil {
		response.BadRequest(w, "Invalid start_time, expected HH:MM")
		return
	}
	if _, err := timeutil.ToMinutes(endTime); err != nil {
		response.BadRequest(w, "Invalid end_time, expected HH:MM")
		return
	}

	peopleCount := 0
	if raw := q.Get("people_count"); raw != "" {
		peopleCount, err = strconv.Atoi(raw)
		if err != nil || peopleCount < 0 {
			response.BadRequest(w, "Invalid people_count")
			return
		}
	}

	ctx := r.Context()
	rule, err := h.venueRepo.GetPricingRule(ctx, venueID, int(date.Weekday()))
	if err != nil {
		log.Error().Err(err).Str("venue_id", venueID.String()).Msg("failed to load pricing rule")
		response.InternalError(w)
		return
	}

	chosen := venue.PricingType(q.Get("pricing_type"))
	if chosen == "" || chosen == venue.PricingBoth {
		chosen = venue.PricingHourly
		if rule != nil && rule.PricingType == venue.PricingFullDay {
			chosen = venue.PricingFullDay
		}
	}

	depositRules, err := h.venueRepo.ListDepositRules(ctx, venueID)
	if err != nil {
		log.Error().Err(err).Str("venue_id", venueID.String()).Msg("failed to load deposit rules")
		response.InternalError(w)
		return
	}

	quote, err := h.calc.Quote(rule, chosen, startTime, endTime, peopleCount, date, depositRules, time.Now())
	if err != nil {
		response.BadRequest(w, "Invalid time range")
		return
	}

	response.OK(w, map[string]interface{}{
		"totalAmount":      quote.Total,
		"depositAmount":    quote.Deposit,
		"remainingBalance": quote.Remaining,
		"breakdown":        quote.Breakdown,
	})
}
