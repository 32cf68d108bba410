package activity

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only audit record. Entries are written as side
// effects of booking, payment and staff mutations and are never updated
// or deleted.
type Entry struct {
	ID        uuid.UUID     `db:"id"`
	VenueID   uuid.UUID     `db:"venue_id"`
	Action    string        `db:"action"`
	UserID    uuid.NullUUID `db:"user_id"`
	CreatedAt time.Time     `db:"created_at"`
}
