package activity

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines activity log data access
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByVenue(ctx context.Context, venueID uuid.UUID, limit, offset int) ([]*Entry, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates activity log repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	query := `
		INSERT INTO activity_log (id, venue_id, action, user_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.VenueID, e.Action, e.UserID)
	return err
}

func (r *repository) ListByVenue(ctx context.Context, venueID uuid.UUID, limit, offset int) ([]*Entry, error) {
	query := `
		SELECT * FROM activity_log
		WHERE venue_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var entries []*Entry
	err := r.db.SelectContext(ctx, &entries, query, venueID, limit, offset)
	return entries, err
}
