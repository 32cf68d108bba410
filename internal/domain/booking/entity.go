package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/venuedesk/venuedesk-api/internal/domain/payment"
)

// Status represents booking lifecycle status
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Priority flags how urgently staff should treat a booking
type Priority string

const (
	PriorityStandard Priority = "standard"
	PriorityHigh     Priority = "high"
	PriorityVIP      Priority = "vip"
	PriorityUrgent   Priority = "urgent"
)

// Booking is the central entity of the marketplace. Dates are
// "YYYY-MM-DD" and times "HH:MM", all venue-local and timezone-naive.
// payment_status and is_fully_paid are derived columns owned by the
// payment reconciler.
type Booking struct {
	ID            uuid.UUID `db:"id"`
	BookingNumber int64     `db:"booking_number"`
	VenueID       uuid.UUID `db:"venue_id"`
	CustomerID    uuid.UUID `db:"customer_id"`

	Date     string `db:"date"`
	TimeFrom string `db:"time_from"`
	TimeTo   string `db:"time_to"`

	PeopleCount int            `db:"people_count"`
	EventType   sql.NullString `db:"event_type"`

	Amount            float64 `db:"amount"`
	DepositAmount     float64 `db:"deposit_amount"`
	DepositPercentage float64 `db:"deposit_percentage"`

	Status        Status         `db:"status"`
	PaymentStatus payment.Status `db:"payment_status"`
	IsFullyPaid   bool           `db:"is_fully_paid"`

	// Booking-specific buffer overrides, in hours. When null the venue's
	// buffer_minutes applies.
	SetupHours     sql.NullFloat64 `db:"setup_hours"`
	BreakdownHours sql.NullFloat64 `db:"breakdown_hours"`

	OverrideAvailability  bool `db:"override_availability"`
	OverrideDeposit       bool `db:"override_deposit"`
	OverrideCapacity      bool `db:"override_capacity"`
	OverrideCustomPricing bool `db:"override_custom_pricing"`

	Priority Priority       `db:"priority"`
	Notes    sql.NullString `db:"notes"`

	HandledBy uuid.NullUUID `db:"handled_by"`
	ManagedBy uuid.NullUUID `db:"managed_by"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsCancelled reports whether the booking is in its terminal state.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// EffectiveSetupMinutes returns the pre-event buffer: the booking's own
// setup hours when set, else the venue default.
func (b *Booking) EffectiveSetupMinutes(venueBufferMinutes int) int {
	if b.SetupHours.Valid {
		return int(b.SetupHours.Float64 * 60)
	}
	return venueBufferMinutes
}

// EffectiveBreakdownMinutes returns the post-event buffer.
func (b *Booking) EffectiveBreakdownMinutes(venueBufferMinutes int) int {
	if b.BreakdownHours.Valid {
		return int(b.BreakdownHours.Float64 * 60)
	}
	return venueBufferMinutes
}

// Draft is a non-committing work-in-progress booking. Drafts live in
// their own record space, carry no booking number and are invisible to
// conflict detection.
type Draft struct {
	ID          uuid.UUID      `db:"id"`
	VenueID     uuid.UUID      `db:"venue_id"`
	CustomerID  uuid.NullUUID  `db:"customer_id"`
	Date        sql.NullString `db:"date"`
	TimeFrom    sql.NullString `db:"time_from"`
	TimeTo      sql.NullString `db:"time_to"`
	PeopleCount int            `db:"people_count"`
	EventType   sql.NullString `db:"event_type"`
	Notes       sql.NullString `db:"notes"`
	CreatedBy   uuid.NullUUID  `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
