package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/venuedesk/venuedesk-api/internal/pkg/metrics"
)

// BookingStore is the slice of booking persistence the payment service
// needs. Implemented by an adapter over the booking repository.
type BookingStore interface {
	GetFinancials(ctx context.Context, bookingID uuid.UUID) (*BookingFinancials, error)
	UpdatePaymentStatus(ctx context.Context, bookingID uuid.UUID, status Status, isFullyPaid bool) error
	ListActiveFinancials(ctx context.Context) ([]*BookingFinancials, error)
}

// ActivityLogger records audit entries for payment mutations.
type ActivityLogger interface {
	Log(ctx context.Context, venueID uuid.UUID, action string, userID uuid.UUID)
}

// Service handles payment business logic and status reconciliation.
type Service struct {
	repo     Repository
	bookings BookingStore
	activity ActivityLogger
}

// NewService creates payment service
func NewService(repo Repository, bookings BookingStore, activity ActivityLogger) *Service {
	return &Service{repo: repo, bookings: bookings, activity: activity}
}

// RecordPayment inserts a payment and re-reconciles the parent booking.
// The payment row is authoritative once written: a reconciliation failure
// is surfaced as ErrReconcileFailed but never rolls the payment back.
func (s *Service) RecordPayment(ctx context.Context, p *Payment, recordedBy uuid.UUID) (*Payment, error) {
	if p.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	fin, err := s.bookings.GetFinancials(ctx, p.BookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if fin == nil {
		return nil, ErrBookingNotFound
	}

	p.ID = uuid.New()
	if recordedBy != uuid.Nil {
		p.RecordedBy = uuid.NullUUID{UUID: recordedBy, Valid: true}
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	metrics.PaymentsRecordedTotal.Inc()

	if s.activity != nil {
		s.activity.Log(ctx, fin.VenueID,
			fmt.Sprintf("Payment of %.2f recorded against booking %s via %s", p.Amount, p.BookingID, p.PaymentMethod),
			recordedBy)
	}

	if _, _, err := s.ReconcileBooking(ctx, p.BookingID); err != nil {
		log.Error().Err(err).
			Str("booking_id", p.BookingID.String()).
			Str("payment_id", p.ID.String()).
			Msg("payment recorded but reconciliation failed")
		return p, fmt.Errorf("%w: %v", ErrReconcileFailed, err)
	}

	return p, nil
}

// DeletePayment removes a payment and re-reconciles the parent booking.
func (s *Service) DeletePayment(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load payment: %w", err)
	}
	if p == nil {
		return ErrPaymentNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.activity != nil {
		if fin, err := s.bookings.GetFinancials(ctx, p.BookingID); err == nil && fin != nil {
			s.activity.Log(ctx, fin.VenueID,
				fmt.Sprintf("Payment of %.2f deleted from booking %s", p.Amount, p.BookingID),
				deletedBy)
		}
	}

	if _, _, err := s.ReconcileBooking(ctx, p.BookingID); err != nil {
		log.Error().Err(err).
			Str("booking_id", p.BookingID.String()).
			Msg("payment deleted but reconciliation failed")
		return fmt.Errorf("%w: %v", ErrReconcileFailed, err)
	}
	return nil
}

// ReconcileBooking recomputes one booking's payment status from its
// payment history and persists the result onto the booking record.
func (s *Service) ReconcileBooking(ctx context.Context, bookingID uuid.UUID) (Status, bool, error) {
	fin, err := s.bookings.GetFinancials(ctx, bookingID)
	if err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("error").Inc()
		return "", false, err
	}
	if fin == nil {
		metrics.ReconciliationsTotal.WithLabelValues("not_found").Inc()
		return "", false, ErrBookingNotFound
	}

	payments, err := s.repo.ListByBooking(ctx, bookingID)
	if err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("error").Inc()
		return "", false, err
	}

	status, fullyPaid := Reconcile(fin.Amount, fin.DepositAmount, fin.DepositPercentage, payments)
	if err := s.bookings.UpdatePaymentStatus(ctx, bookingID, status, fullyPaid); err != nil {
		metrics.ReconciliationsTotal.WithLabelValues("error").Inc()
		return "", false, err
	}

	metrics.ReconciliationsTotal.WithLabelValues("ok").Inc()
	return status, fullyPaid, nil
}

// RefreshResult reports one booking's outcome in a bulk refresh.
type RefreshResult struct {
	BookingID   uuid.UUID `json:"booking_id"`
	Status      Status    `json:"payment_status,omitempty"`
	IsFullyPaid bool      `json:"is_fully_paid"`
	Error       string    `json:"error,omitempty"`
}

// RefreshAll re-runs reconciliation over every non-cancelled booking.
// Individual failures are collected; one failure never aborts the batch.
func (s *Service) RefreshAll(ctx context.Context) ([]RefreshResult, error) {
	fins, err := s.bookings.ListActiveFinancials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	results := make([]RefreshResult, 0, len(fins))
	for _, fin := range fins {
		status, fullyPaid, err := s.ReconcileBooking(ctx, fin.ID)
		res := RefreshResult{BookingID: fin.ID, Status: status, IsFullyPaid: fullyPaid}
		if err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}
