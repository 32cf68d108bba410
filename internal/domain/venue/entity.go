package venue

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PricingType determines how a day's rate is charged
type PricingType string

const (
	PricingHourly  PricingType = "hourly"
	PricingFullDay PricingType = "full_day"
	PricingBoth    PricingType = "both"
)

// Venue represents a bookable venue. Created by onboarding (outside this
// service); the booking engine treats venues as read-mostly.
type Venue struct {
	ID            uuid.UUID      `db:"id"`
	Name          string         `db:"name"`
	City          sql.NullString `db:"city"`
	Address       sql.NullString `db:"address"`
	Capacity      int            `db:"capacity"`
	Currency      string         `db:"currency"`
	BufferMinutes int            `db:"buffer_minutes"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// PricingRule configures availability and rates for one weekday.
// DayOfWeek follows time.Weekday: 0 = Sunday.
type PricingRule struct {
	ID           uuid.UUID   `db:"id"`
	VenueID      uuid.UUID   `db:"venue_id"`
	DayOfWeek    int         `db:"day_of_week"`
	IsAvailable  bool        `db:"is_available"`
	PricingType  PricingType `db:"pricing_type"`
	StartTime    string      `db:"start_time"`
	EndTime      string      `db:"end_time"`
	HourlyPrice  float64     `db:"hourly_price"`
	MinimumHours int         `db:"minimum_hours"`
	FullDayPrice float64     `db:"full_day_price"`
}

// DepositRule maps days-until-event to a required deposit percentage.
type DepositRule struct {
	ID            uuid.UUID `db:"id"`
	VenueID       uuid.UUID `db:"venue_id"`
	MinDaysBefore int       `db:"min_days_before"`
	Percent       float64   `db:"percent"`
}
