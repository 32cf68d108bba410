package payment

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is the derived payment status of a booking. It is never set
// directly; the reconciler recomputes it from the payment history after
// every payment mutation.
type Status string

const (
	StatusUnpaid         Status = "unpaid"
	StatusDepositPending Status = "deposit_pending"
	StatusDepositPaid    Status = "deposit_paid"
	StatusPartial        Status = "partial"
	StatusPaid           Status = "paid"
	StatusOverpaid       Status = "overpaid"
)

// Payment represents money recorded against a booking. Immutable once
// created; the only mutation is deletion, which re-reconciles the parent
// booking.
type Payment struct {
	ID            uuid.UUID      `db:"id"`
	BookingID     uuid.UUID      `db:"booking_id"`
	Amount        float64        `db:"amount"`
	PaymentMethod string         `db:"payment_method"`
	Reference     sql.NullString `db:"reference"`
	RecordedBy    uuid.NullUUID  `db:"recorded_by"`
	PaymentDate   time.Time      `db:"payment_date"`
	CreatedAt     time.Time      `db:"created_at"`
}

// BookingFinancials is the slice of a booking the reconciler needs.
type BookingFinancials struct {
	ID                uuid.UUID
	VenueID           uuid.UUID
	Amount            float64
	DepositAmount     float64
	DepositPercentage float64
	Cancelled         bool
}
