package payment

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/venuedesk/venuedesk-api/internal/middleware"
	"github.com/venuedesk/venuedesk-api/internal/pkg/response"
	"github.com/venuedesk/venuedesk-api/internal/pkg/timeutil"
	"github.com/venuedesk/venuedesk-api/internal/pkg/validator"
)

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns payment router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Record)
	r.Delete("/{id}", h.Delete)

	return r
}

// Record handles POST /payments
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		response.BadRequest(w, "Invalid booking_id")
		return
	}

	p := &Payment{
		BookingID:     bookingID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Reference:     sql.NullString{String: req.Reference, Valid: req.Reference != ""},
	}
	if req.PaymentDate != "" {
		d, err := timeutil.ParseDate(req.PaymentDate)
		if err != nil {
			response.BadRequest(w, "Invalid payment_date")
			return
		}
		p.PaymentDate = d
	}

	userID := middleware.GetUserID(r.Context())
	created, err := h.service.RecordPayment(r.Context(), p, userID)
	switch {
	case err == nil:
		response.Created(w, PaymentResponseFromEntity(created))
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "Payment amount must be non-negative")
	case errors.Is(err, ErrReconcileFailed):
		// The payment is in; the status repair is a follow-up task.
		resp := PaymentResponseFromEntity(created)
		response.JSON(w, http.StatusCreated, map[string]interface{}{
			"payment":              resp,
			"reconciliation_error": true,
		})
	default:
		log.Error().Err(err).Msg("failed to record payment")
		response.InternalError(w)
	}
}

// Delete handles DELETE /payments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	err = h.service.DeletePayment(r.Context(), id, userID)
	switch {
	case err == nil:
		response.NoContent(w)
	case errors.Is(err, ErrPaymentNotFound):
		response.NotFound(w, "Payment not found")
	case errors.Is(err, ErrReconcileFailed):
		response.JSON(w, http.StatusOK, map[string]interface{}{
			"deleted":              true,
			"reconciliation_error": true,
		})
	default:
		log.Error().Err(err).Str("payment_id", id.String()).Msg("failed to delete payment")
		response.InternalError(w)
	}
}

// ReconcileOne handles PUT /bookings/{id}/payment-status
func (h *Handler) ReconcileOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	status, fullyPaid, err := h.service.ReconcileBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.NotFound(w, "Booking not found")
			return
		}
		log.Error().Err(err).Str("booking_id", id.String()).Msg("reconciliation failed")
		response.InternalError(w)
		return
	}

	response.OK(w, ReconcileResponse{
		BookingID:     id.String(),
		PaymentStatus: status,
		IsFullyPaid:   fullyPaid,
	})
}

// ReconcileAll handles PUT /bookings/payment-status
func (h *Handler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	results, err := h.service.RefreshAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("bulk payment-status refresh failed")
		response.InternalError(w)
		return
	}

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	log.Info().
		Int("total", len(results)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("bulk payment-status refresh completed")

	response.OK(w, map[string]interface{}{
		"total":   len(results),
		"failed":  failed,
		"results": results,
	})
}
