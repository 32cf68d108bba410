package venue

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines venue data access
type Repository interface {
	Create(ctx context.Context, v *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	List(ctx context.Context, limit, offset int) ([]*Venue, error)
	UpdateBufferMinutes(ctx context.Context, id uuid.UUID, bufferMinutes int) error

	GetPricingRule(ctx context.Context, venueID uuid.UUID, dayOfWeek int) (*PricingRule, error)
	ListPricingRules(ctx context.Context, venueID uuid.UUID) ([]*PricingRule, error)
	ListDepositRules(ctx context.Context, venueID uuid.UUID) ([]*DepositRule, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates venue repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, v *Venue) error {
	query := `
		INSERT INTO venues (id, name, city, address, capacity, currency, buffer_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.Name, v.City, v.Address, v.Capacity, v.Currency, v.BufferMinutes,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	query := `SELECT * FROM venues WHERE id = $1`
	var v Venue
	err := r.db.GetContext(ctx, &v, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*Venue, error) {
	query := `SELECT * FROM venues ORDER BY name LIMIT $1 OFFSET $2`
	var venues []*Venue
	err := r.db.SelectContext(ctx, &venues, query, limit, offset)
	return venues, err
}

func (r *repository) UpdateBufferMinutes(ctx context.Context, id uuid.UUID, bufferMinutes int) error {
	query := `UPDATE venues SET buffer_minutes = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, bufferMinutes)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *repository) GetPricingRule(ctx context.Context, venueID uuid.UUID, dayOfWeek int) (*PricingRule, error) {
	query := `SELECT * FROM pricing_rules WHERE venue_id = $1 AND day_of_week = $2`
	var rule PricingRule
	err := r.db.GetContext(ctx, &rule, query, venueID, dayOfWeek)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListPricingRules(ctx context.Context, venueID uuid.UUID) ([]*PricingRule, error) {
	query := `SELECT * FROM pricing_rules WHERE venue_id = $1 ORDER BY day_of_week`
	var rules []*PricingRule
	err := r.db.SelectContext(ctx, &rules, query, venueID)
	return rules, err
}

func (r *repository) ListDepositRules(ctx context.Context, venueID uuid.UUID) ([]*DepositRule, error) {
	query := `SELECT * FROM deposit_rules WHERE venue_id = $1 ORDER BY min_days_before DESC`
	var rules []*DepositRule
	err := r.db.SelectContext(ctx, &rules, query, venueID)
	return rules, err
}
