package booking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestConnection(venueID uuid.UUID) *Connection {
	return &Connection{
		UserID:  uuid.New(),
		VenueID: venueID,
		Send:    make(chan []byte, 4),
	}
}

// waitForConnections polls the hub until it reports the expected count;
// registration goes through the hub goroutine, so the map update is
// asynchronous.
func waitForConnections(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.ConnectionCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ConnectionCount() = %d, want %d", h.ConnectionCount(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubBroadcastFanOut(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Shutdown()

	venueA := uuid.New()
	venueB := uuid.New()

	connA1 := newTestConnection(venueA)
	connA2 := newTestConnection(venueA)
	connB := newTestConnection(venueB)
	h.Register(connA1)
	h.Register(connA2)
	h.Register(connB)
	waitForConnections(t, h, 3)

	b := &Booking{
		ID:       uuid.New(),
		VenueID:  venueA,
		Date:     "2026-09-12",
		TimeFrom: "14:00",
		TimeTo:   "16:00",
		Status:   StatusPending,
	}
	h.BroadcastBooking("booking_created", b)

	for _, conn := range []*Connection{connA1, connA2} {
		select {
		case data := <-conn.Send:
			var event WSEvent
			if err := json.Unmarshal(data, &event); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			if event.Type != EventBookingCreated || event.BookingID != b.ID {
				t.Errorf("event = %+v, want booking_created for %s", event, b.ID)
			}
		case <-time.After(time.Second):
			t.Fatal("venue A client did not receive the broadcast")
		}
	}

	// The venue B client must not see venue A traffic.
	select {
	case data := <-connB.Send:
		t.Errorf("venue B client received %s", data)
	default:
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Shutdown()

	venueID := uuid.New()
	conn := newTestConnection(venueID)
	h.Register(conn)
	waitForConnections(t, h, 1)

	h.Unregister(conn)
	waitForConnections(t, h, 0)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Error("expected send channel to be closed, got a message")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on unregister")
	}
}
