package booking

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// EventType for WebSocket messages pushed to slot-grid clients.
type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingUpdated   EventType = "booking_updated"
	EventBookingCancelled EventType = "booking_cancelled"
)

// WSEvent is the wire format for booking change notifications.
type WSEvent struct {
	Type      EventType        `json:"type"`
	VenueID   uuid.UUID        `json:"venue_id"`
	Date      string           `json:"date"`
	BookingID uuid.UUID        `json:"booking_id"`
	Booking   *BookingResponse `json:"booking,omitempty"`
}

// Connection represents one slot-grid client subscribed to a venue.
type Connection struct {
	UserID  uuid.UUID
	VenueID uuid.UUID
	Conn    *websocket.Conn
	Send    chan []byte
}

// Hub fans booking change events out to connected slot-grid editors,
// grouped by venue.
type Hub struct {
	venues map[uuid.UUID]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		venues:     make(map[uuid.UUID]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run starts the hub (call in goroutine).
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.venues[conn.VenueID] == nil {
				h.venues[conn.VenueID] = make(map[*Connection]bool)
			}
			h.venues[conn.VenueID][conn] = true
			h.mu.Unlock()
			log.Debug().
				Str("user_id", conn.UserID.String()).
				Str("venue_id", conn.VenueID.String()).
				Msg("Slot-grid client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.venues[conn.VenueID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
				}
				if len(conns) == 0 {
					delete(h.venues, conn.VenueID)
				}
			}
			h.mu.Unlock()
			log.Debug().
				Str("user_id", conn.UserID.String()).
				Msg("Slot-grid client disconnected")
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastBooking notifies every client watching the booking's venue.
func (h *Hub) BroadcastBooking(eventType string, b *Booking) {
	resp := BookingResponseFromEntity(b)
	event := &WSEvent{
		Type:      EventType(eventType),
		VenueID:   b.VenueID,
		Date:      b.Date,
		BookingID: b.ID,
		Booking:   &resp,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.venues[b.VenueID] {
		select {
		case conn.Send <- data:
		default:
			// Buffer full, skip this client
			log.Warn().Str("user_id", conn.UserID.String()).Msg("WebSocket send buffer full")
		}
	}
}

// ConnectionCount returns the number of connected clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.venues {
		total += len(conns)
	}
	return total
}

// Shutdown gracefully shuts down the hub.
func (h *Hub) Shutdown() {
	h.cancel()
}
