package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest represents booking creation from the back office
// or the customer booking flow. Pricing fields are supplied by the
// caller: quotes are advisory to the UI, the stored amount is
// authoritative.
type CreateBookingRequest struct {
	VenueID    string `json:"venue_id" validate:"required,uuid"`
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,ymd"`
	TimeFrom   string `json:"time_from" validate:"required,hhmm"`
	TimeTo     string `json:"time_to" validate:"required,hhmm"`

	PeopleCount int    `json:"people_count" validate:"gte=0"`
	EventType   string `json:"event_type" validate:"max=100"`

	Amount            float64 `json:"amount" validate:"gte=0"`
	DepositAmount     float64 `json:"deposit_amount" validate:"gte=0"`
	DepositPercentage float64 `json:"deposit_percentage" validate:"gte=0,lte=100"`

	Status   string `json:"status" validate:"booking_status"`
	Priority string `json:"priority" validate:"booking_priority"`

	SetupHours     *float64 `json:"setup_hours" validate:"omitempty,gte=0"`
	BreakdownHours *float64 `json:"breakdown_hours" validate:"omitempty,gte=0"`

	OverrideAvailability  bool `json:"override_availability"`
	OverrideDeposit       bool `json:"override_deposit"`
	OverrideCapacity      bool `json:"override_capacity"`
	OverrideCustomPricing bool `json:"override_custom_pricing"`

	Notes string `json:"notes"`
}

// UpdateBookingRequest mirrors the create shape; the booking identifier
// comes from the URL and may be a UUID or a booking number.
type UpdateBookingRequest = CreateBookingRequest

// CancelBookingRequest carries the cancellation reason appended to notes
type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// SaveDraftRequest represents a work-in-progress booking save
type SaveDraftRequest struct {
	VenueID     string `json:"venue_id" validate:"required,uuid"`
	CustomerID  string `json:"customer_id" validate:"omitempty,uuid"`
	Date        string `json:"date" validate:"omitempty,ymd"`
	TimeFrom    string `json:"time_from" validate:"omitempty,hhmm"`
	TimeTo      string `json:"time_to" validate:"omitempty,hhmm"`
	PeopleCount int    `json:"people_count" validate:"gte=0"`
	EventType   string `json:"event_type" validate:"max=100"`
	Notes       string `json:"notes"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID            string `json:"id"`
	BookingNumber int64  `json:"booking_number"`
	VenueID       string `json:"venue_id"`
	CustomerID    string `json:"customer_id"`

	Date     string `json:"date"`
	TimeFrom string `json:"time_from"`
	TimeTo   string `json:"time_to"`

	PeopleCount int    `json:"people_count"`
	EventType   string `json:"event_type,omitempty"`

	Amount            float64 `json:"amount"`
	DepositAmount     float64 `json:"deposit_amount"`
	DepositPercentage float64 `json:"deposit_percentage"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	IsFullyPaid   bool   `json:"is_fully_paid"`

	SetupHours     *float64 `json:"setup_hours,omitempty"`
	BreakdownHours *float64 `json:"breakdown_hours,omitempty"`

	OverrideAvailability  bool `json:"override_availability"`
	OverrideDeposit       bool `json:"override_deposit"`
	OverrideCapacity      bool `json:"override_capacity"`
	OverrideCustomPricing bool `json:"override_custom_pricing"`

	Priority string `json:"priority"`
	Notes    string `json:"notes,omitempty"`

	HandledBy string `json:"handled_by,omitempty"`
	ManagedBy string `json:"managed_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DraftResponse represents a draft in API responses
type DraftResponse struct {
	ID          string    `json:"id"`
	VenueID     string    `json:"venue_id"`
	CustomerID  string    `json:"customer_id,omitempty"`
	Date        string    `json:"date,omitempty"`
	TimeFrom    string    `json:"time_from,omitempty"`
	TimeTo      string    `json:"time_to,omitempty"`
	PeopleCount int       `json:"people_count"`
	EventType   string    `json:"event_type,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AvailabilityResponse is the result of a conflict check
type AvailabilityResponse struct {
	Available           bool              `json:"available"`
	ConflictingBookings []BookingResponse `json:"conflictingBookings"`
	BufferMinutes       int               `json:"buffer_minutes"`
	OverrideEnabled     bool              `json:"override_enabled"`
}

// DayBookingsResponse lists a venue day for the slot grid
type DayBookingsResponse struct {
	Bookings      []BookingResponse `json:"bookings"`
	BufferMinutes int               `json:"buffer_minutes"`
}

// BookingResponseFromEntity converts entity to response DTO
func BookingResponseFromEntity(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:                    b.ID.String(),
		BookingNumber:         b.BookingNumber,
		VenueID:               b.VenueID.String(),
		CustomerID:            b.CustomerID.String(),
		Date:                  b.Date,
		TimeFrom:              b.TimeFrom,
		TimeTo:                b.TimeTo,
		PeopleCount:           b.PeopleCount,
		EventType:             b.EventType.String,
		Amount:                b.Amount,
		DepositAmount:         b.DepositAmount,
		DepositPercentage:     b.DepositPercentage,
		Status:                string(b.Status),
		PaymentStatus:         string(b.PaymentStatus),
		IsFullyPaid:           b.IsFullyPaid,
		OverrideAvailability:  b.OverrideAvailability,
		OverrideDeposit:       b.OverrideDeposit,
		OverrideCapacity:      b.OverrideCapacity,
		OverrideCustomPricing: b.OverrideCustomPricing,
		Priority:              string(b.Priority),
		Notes:                 b.Notes.String,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
	if b.SetupHours.Valid {
		v := b.SetupHours.Float64
		resp.SetupHours = &v
	}
	if b.BreakdownHours.Valid {
		v := b.BreakdownHours.Float64
		resp.BreakdownHours = &v
	}
	if b.HandledBy.Valid {
		resp.HandledBy = b.HandledBy.UUID.String()
	}
	if b.ManagedBy.Valid {
		resp.ManagedBy = b.ManagedBy.UUID.String()
	}
	return resp
}

// DraftResponseFromEntity converts entity to response DTO
func DraftResponseFromEntity(d *Draft) DraftResponse {
	resp := DraftResponse{
		ID:          d.ID.String(),
		VenueID:     d.VenueID.String(),
		Date:        d.Date.String,
		TimeFrom:    d.TimeFrom.String,
		TimeTo:      d.TimeTo.String,
		PeopleCount: d.PeopleCount,
		EventType:   d.EventType.String,
		Notes:       d.Notes.String,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.CustomerID.Valid {
		resp.CustomerID = d.CustomerID.UUID.String()
	}
	return resp
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
