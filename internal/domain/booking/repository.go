package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/venuedesk/venuedesk-api/internal/domain/payment"
)

// Repository defines booking data access
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByNumber(ctx context.Context, number int64) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	ListByVenueDate(ctx context.Context, venueID uuid.UUID, date string) ([]*Booking, error)
	ListActive(ctx context.Context) ([]*Booking, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status payment.Status, isFullyPaid bool) error

	CreateDraft(ctx context.Context, d *Draft) error
	ListDraftsByVenue(ctx context.Context, venueID uuid.UUID) ([]*Draft, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (
			id, venue_id, customer_id, date, time_from, time_to,
			people_count, event_type, amount, deposit_amount, deposit_percentage,
			status, payment_status, is_fully_paid,
			setup_hours, breakdown_hours,
			override_availability, override_deposit, override_capacity, override_custom_pricing,
			priority, notes, handled_by, managed_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14,
			$15, $16,
			$17, $18, $19, $20,
			$21, $22, $23, $24, NOW(), NOW()
		)
		RETURNING booking_number
	`
	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.VenueID, b.CustomerID, b.Date, b.TimeFrom, b.TimeTo,
		b.PeopleCount, b.EventType, b.Amount, b.DepositAmount, b.DepositPercentage,
		b.Status, b.PaymentStatus, b.IsFullyPaid,
		b.SetupHours, b.BreakdownHours,
		b.OverrideAvailability, b.OverrideDeposit, b.OverrideCapacity, b.OverrideCustomPricing,
		b.Priority, b.Notes, b.HandledBy, b.ManagedBy,
	).Scan(&b.BookingNumber)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT * FROM bookings WHERE id = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetByNumber(ctx context.Context, number int64) (*Booking, error) {
	query := `SELECT * FROM bookings WHERE booking_number = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) Update(ctx context.Context, b *Booking) error {
	query := `
		UPDATE bookings SET
			venue_id = $2, customer_id = $3, date = $4, time_from = $5, time_to = $6,
			people_count = $7, event_type = $8, amount = $9, deposit_amount = $10,
			deposit_percentage = $11, status = $12,
			setup_hours = $13, breakdown_hours = $14,
			override_availability = $15, override_deposit = $16,
			override_capacity = $17, override_custom_pricing = $18,
			priority = $19, notes = $20, handled_by = $21, managed_by = $22,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		b.ID, b.VenueID, b.CustomerID, b.Date, b.TimeFrom, b.TimeTo,
		b.PeopleCount, b.EventType, b.Amount, b.DepositAmount,
		b.DepositPercentage, b.Status,
		b.SetupHours, b.BreakdownHours,
		b.OverrideAvailability, b.OverrideDeposit,
		b.OverrideCapacity, b.OverrideCustomPricing,
		b.Priority, b.Notes, b.HandledBy, b.ManagedBy,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) ListByVenueDate(ctx context.Context, venueID uuid.UUID, date string) ([]*Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE venue_id = $1 AND date = $2
		ORDER BY time_from
	`
	var bookings []*Booking
	err := r.db.SelectContext(ctx, &bookings, query, venueID, date)
	return bookings, err
}

func (r *repository) ListActive(ctx context.Context) ([]*Booking, error) {
	query := `SELECT * FROM bookings WHERE status != 'cancelled' ORDER BY date, time_from`
	var bookings []*Booking
	err := r.db.SelectContext(ctx, &bookings, query)
	return bookings, err
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status payment.Status, isFullyPaid bool) error {
	query := `UPDATE bookings SET payment_status = $2, is_fully_paid = $3, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, isFullyPaid)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) CreateDraft(ctx context.Context, d *Draft) error {
	query := `
		INSERT INTO booking_drafts (
			id, venue_id, customer_id, date, time_from, time_to,
			people_count, event_type, notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.VenueID, d.CustomerID, d.Date, d.TimeFrom, d.TimeTo,
		d.PeopleCount, d.EventType, d.Notes, d.CreatedBy,
	)
	return err
}

func (r *repository) ListDraftsByVenue(ctx context.Context, venueID uuid.UUID) ([]*Draft, error) {
	query := `SELECT * FROM booking_drafts WHERE venue_id = $1 ORDER BY updated_at DESC`
	var drafts []*Draft
	err := r.db.SelectContext(ctx, &drafts, query, venueID)
	return drafts, err
}

func (r *repository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrDraftNotFound
	}
	return nil
}
