package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/venuedesk/venuedesk-api/internal/middleware"
	"github.com/venuedesk/venuedesk-api/internal/pkg/response"
	"github.com/venuedesk/venuedesk-api/internal/pkg/validator"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler handles booking HTTP requests
type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates booking handler
func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// writeServiceError maps service errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &conflictErr):
		out := make([]BookingResponse, len(conflictErr.Conflicting))
		for i, b := range conflictErr.Conflicting {
			out[i] = BookingResponseFromEntity(b)
		}
		response.JSON(w, http.StatusConflict, AvailabilityResponse{
			Available:           false,
			ConflictingBookings: out,
		})
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrDraftNotFound):
		response.NotFound(w, "Draft not found")
	case errors.Is(err, ErrVenueNotFound):
		response.NotFound(w, "Venue not found")
	case errors.Is(err, ErrInvalidTimeRange):
		response.BadRequest(w, "End time must be after start time")
	case errors.Is(err, ErrInvalidStatus):
		response.BadRequest(w, "Invalid status transition")
	case errors.Is(err, ErrAlreadyCancelled):
		response.Conflict(w, "Booking is already cancelled")
	case errors.Is(err, ErrVenueUnavailable):
		response.Conflict(w, "Venue is not available on this day")
	default:
		log.Error().Err(err).Msg("booking request failed")
		response.InternalError(w)
	}
}

// Create handles POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	staffID := middleware.GetUserID(r.Context())
	b, err := h.service.Create(r.Context(), &req, staffID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, BookingResponseFromEntity(b))
}

// Get handles GET /bookings/{ref}. The reference may be a UUID or a
// serial booking number.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.ResolveRef(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.OK(w, BookingResponseFromEntity(b))
}

// Update handles PUT /bookings/{ref}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.ResolveRef(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	staffID := middleware.GetUserID(r.Context())
	updated, err := h.service.Update(r.Context(), b.ID, &req, staffID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(updated))
}

// Cancel handles POST /bookings/{ref}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.ResolveRef(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req CancelBookingRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid JSON body")
			return
		}
		if errs := validator.Validate(&req); errs != nil {
			response.ValidationError(w, errs)
			return
		}
	}

	staffID := middleware.GetUserID(r.Context())
	cancelled, err := h.service.Cancel(r.Context(), b.ID, req.Reason, staffID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, BookingResponseFromEntity(cancelled))
}

// GetDay handles GET /bookings/date?venue_id=...&date=...
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	venueID, err := uuid.Parse(r.URL.Query().Get("venue_id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue ID")
		return
	}
	date := r.URL.Query().Get("date")
	if err := validator.ValidateVar(date, "required,ymd"); err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}

	bookings, buffer, err := h.service.GetDay(r.Context(), venueID, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingResponseFromEntity(b)
	}
	response.OK(w, DayBookingsResponse{Bookings: out, BufferMinutes: buffer})
}

// CheckAvailability handles GET /availability
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	venueID, err := uuid.Parse(q.Get("venue_id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue ID")
		return
	}
	date := q.Get("date")
	if err := validator.ValidateVar(date, "required,ymd"); err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}
	startTime := q.Get("start_time")
	endTime := q.Get("end_time")
	if validator.ValidateVar(startTime, "required,hhmm") != nil ||
		validator.ValidateVar(endTime, "required,hhmm") != nil {
		response.BadRequest(w, "Invalid time, expected HH:MM")
		return
	}

	query := AvailabilityQuery{
		VenueID:   venueID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Override:  q.Get("override_availability") == "true",
	}
	if excl := q.Get("exclude_booking_id"); excl != "" {
		id, err := uuid.Parse(excl)
		if err != nil {
			response.BadRequest(w, "Invalid exclude_booking_id")
			return
		}
		query.ExcludeBookingID = id
	}

	result, err := h.service.CheckAvailability(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]BookingResponse, len(result.Conflicting))
	for i, b := range result.Conflicting {
		out[i] = BookingResponseFromEntity(b)
	}
	response.OK(w, AvailabilityResponse{
		Available:           result.Available,
		ConflictingBookings: out,
		BufferMinutes:       result.BufferMinutes,
		OverrideEnabled:     result.OverrideEnabled,
	})
}

// SaveDraft handles POST /booking-drafts
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	staffID := middleware.GetUserID(r.Context())
	d, err := h.service.SaveDraft(r.Context(), &req, staffID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, DraftResponseFromEntity(d))
}

// ListDrafts handles GET /booking-drafts?venue_id=...
func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	venueID, err := uuid.Parse(r.URL.Query().Get("venue_id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue ID")
		return
	}

	drafts, err := h.service.ListDrafts(r.Context(), venueID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]DraftResponse, len(drafts))
	for i, d := range drafts {
		out[i] = DraftResponseFromEntity(d)
	}
	response.OK(w, out)
}

// DeleteDraft handles DELETE /booking-drafts/{id}
func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid draft ID")
		return
	}

	if err := h.service.DeleteDraft(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// WebSocket handles WS /bookings/ws?venue_id=...
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}
	venueID, err := uuid.Parse(r.URL.Query().Get("venue_id"))
	if err != nil {
		response.BadRequest(w, "Invalid venue ID")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Connection{
		UserID:  userID,
		VenueID: venueID,
		Conn:    conn,
		Send:    make(chan []byte, 64),
	}
	h.hub.Register(client)

	go h.wsWriter(client)
	h.wsReader(client)
}

// wsReader drains client frames; slot-grid clients only listen, so
// inbound payloads are discarded. Keeps pong handling alive.
func (h *Handler) wsReader(client *Connection) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(1024)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) wsWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
