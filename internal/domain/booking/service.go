package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/venuedesk/venuedesk-api/internal/domain/payment"
	"github.com/venuedesk/venuedesk-api/internal/domain/venue"
	"github.com/venuedesk/venuedesk-api/internal/pkg/metrics"
	"github.com/venuedesk/venuedesk-api/internal/pkg/timeutil"
)

// ActivityLogger records audit entries for booking mutations.
type ActivityLogger interface {
	Log(ctx context.Context, venueID uuid.UUID, action string, userID uuid.UUID)
}

// Broadcaster pushes booking change events to connected slot-grid
// editors. Optional; a nil broadcaster is a no-op.
type Broadcaster interface {
	BroadcastBooking(eventType string, b *Booking)
}

// Service orchestrates the booking lifecycle: validation, conflict
// checking, persistence, audit and cache/realtime fan-out.
type Service struct {
	repo      Repository
	venueRepo venue.Repository
	activity  ActivityLogger
	cache     *AvailabilityCache
	hub       Broadcaster
}

// NewService creates booking service. cache and hub may be nil.
func NewService(repo Repository, venueRepo venue.Repository, activity ActivityLogger, cache *AvailabilityCache, hub Broadcaster) *Service {
	return &Service{
		repo:      repo,
		venueRepo: venueRepo,
		activity:  activity,
		cache:     cache,
		hub:       hub,
	}
}

// ResolveRef is the single identifier-normalization step: booking
// references arrive as either a UUID or a serial booking number, and
// both must resolve to the same record space. Nothing past this point
// branches on identifier shape.
func (s *Service) ResolveRef(ctx context.Context, ref string) (*Booking, error) {
	if id, err := uuid.Parse(ref); err == nil {
		b, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, ErrBookingNotFound
		}
		return b, nil
	}

	number, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	b, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *Service) timesToInterval(timeFrom, timeTo string) (Interval, error) {
	start, err := timeutil.ToMinutes(timeFrom)
	if err != nil {
		return Interval{}, err
	}
	end, err := timeutil.ToMinutes(timeTo)
	if err != nil {
		return Interval{}, err
	}
	if end <= start {
		return Interval{}, ErrInvalidTimeRange
	}
	return Interval{Start: start, End: end}, nil
}

// setupBreakdownMinutes converts a proposed booking's own buffer
// overrides to minutes. The venue default buffer is applied to the
// existing bookings, never to the proposed interval: applying it on
// both sides would double every gap.
func setupBreakdownMinutes(setupHours, breakdownHours *float64) (int, int) {
	var setup, breakdown int
	if setupHours != nil {
		setup = int(*setupHours * 60)
	}
	if breakdownHours != nil {
		breakdown = int(*breakdownHours * 60)
	}
	return setup, breakdown
}

// checkConflicts loads the venue day and runs the conflict detector.
// Returns the venue so callers do not load it twice.
func (s *Service) checkConflicts(
	ctx context.Context,
	venueID uuid.UUID,
	date string,
	proposed Interval,
	setupHours, breakdownHours *float64,
	excludeID uuid.UUID,
	override bool,
) (*venue.Venue, error) {
	v, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("load venue: %w", err)
	}
	if v == nil {
		return nil, ErrVenueNotFound
	}

	if override {
		return v, nil
	}

	// Pricing rules double as the weekly opening schedule: a rule with
	// is_available=false closes the venue for that weekday.
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, err
	}
	rule, err := s.venueRepo.GetPricingRule(ctx, venueID, int(day.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("load pricing rule: %w", err)
	}
	if rule != nil && !rule.IsAvailable {
		return nil, ErrVenueUnavailable
	}

	existing, err := s.repo.ListByVenueDate(ctx, venueID, date)
	if err != nil {
		return nil, fmt.Errorf("load day bookings: %w", err)
	}

	setup, breakdown := setupBreakdownMinutes(setupHours, breakdownHours)
	conflict, conflicting := HasConflict(proposed, setup, breakdown, existing, v.BufferMinutes, excludeID, false)
	if conflict {
		metrics.BookingConflictsTotal.Inc()
		return nil, &ConflictError{Conflicting: conflicting}
	}
	return v, nil
}

// Create validates and persists a new booking. The supplied amounts are
// stored as-is: pricing quotes are advisory to the UI, never re-derived
// here.
func (s *Service) Create(ctx context.Context, req *CreateBookingRequest, staffID uuid.UUID) (*Booking, error) {
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id: %w", err)
	}

	proposed, err := s.timesToInterval(req.TimeFrom, req.TimeTo)
	if err != nil {
		return nil, err
	}

	if _, err := s.checkConflicts(ctx, venueID, req.Date, proposed, req.SetupHours, req.BreakdownHours, uuid.Nil, req.OverrideAvailability); err != nil {
		return nil, err
	}

	status := Status(req.Status)
	if status == "" {
		status = StatusPending
	}
	priority := Priority(req.Priority)
	if priority == "" {
		priority = PriorityStandard
	}

	b := &Booking{
		ID:                    uuid.New(),
		VenueID:               venueID,
		CustomerID:            customerID,
		Date:                  req.Date,
		TimeFrom:              req.TimeFrom,
		TimeTo:                req.TimeTo,
		PeopleCount:           req.PeopleCount,
		EventType:             nullString(req.EventType),
		Amount:                req.Amount,
		DepositAmount:         req.DepositAmount,
		DepositPercentage:     req.DepositPercentage,
		Status:                status,
		PaymentStatus:         payment.StatusUnpaid,
		SetupHours:            nullFloat(req.SetupHours),
		BreakdownHours:        nullFloat(req.BreakdownHours),
		OverrideAvailability:  req.OverrideAvailability,
		OverrideDeposit:       req.OverrideDeposit,
		OverrideCapacity:      req.OverrideCapacity,
		OverrideCustomPricing: req.OverrideCustomPricing,
		Priority:              priority,
		Notes:                 nullString(req.Notes),
		HandledBy:             nullUUID(staffID),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(string(b.Priority)).Inc()
	s.logBookingCreated(ctx, b, staffID)
	s.invalidateDay(ctx, b.VenueID, b.Date)
	if s.hub != nil {
		s.hub.BroadcastBooking("booking_created", b)
	}

	return b, nil
}

// logBookingCreated writes the audit entry; VIP and urgent bookings get
// a distinguished message.
func (s *Service) logBookingCreated(ctx context.Context, b *Booking, staffID uuid.UUID) {
	if s.activity == nil {
		return
	}
	var action string
	switch b.Priority {
	case PriorityVIP:
		action = fmt.Sprintf("VIP booking #%d created for %s %s-%s", b.BookingNumber, b.Date, b.TimeFrom, b.TimeTo)
	case PriorityUrgent:
		action = fmt.Sprintf("URGENT booking #%d created for %s %s-%s", b.BookingNumber, b.Date, b.TimeFrom, b.TimeTo)
	default:
		action = fmt.Sprintf("Booking #%d created for %s %s-%s", b.BookingNumber, b.Date, b.TimeFrom, b.TimeTo)
	}
	s.activity.Log(ctx, b.VenueID, action, staffID)
}

// Update modifies an existing booking. Conflict detection is re-run
// against the new interval (excluding the booking itself) unless the
// availability override is set.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateBookingRequest, staffID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id: %w", err)
	}

	proposed, err := s.timesToInterval(req.TimeFrom, req.TimeTo)
	if err != nil {
		return nil, err
	}

	if _, err := s.checkConflicts(ctx, venueID, req.Date, proposed, req.SetupHours, req.BreakdownHours, b.ID, req.OverrideAvailability); err != nil {
		return nil, err
	}

	if req.Status != "" {
		next := Status(req.Status)
		if err := validateStatusTransition(b.Status, next); err != nil {
			return nil, err
		}
		b.Status = next
	}

	prevDate, prevVenue := b.Date, b.VenueID

	b.VenueID = venueID
	b.CustomerID = customerID
	b.Date = req.Date
	b.TimeFrom = req.TimeFrom
	b.TimeTo = req.TimeTo
	b.PeopleCount = req.PeopleCount
	b.EventType = nullString(req.EventType)
	b.Amount = req.Amount
	b.DepositAmount = req.DepositAmount
	b.DepositPercentage = req.DepositPercentage
	b.SetupHours = nullFloat(req.SetupHours)
	b.BreakdownHours = nullFloat(req.BreakdownHours)
	b.OverrideAvailability = req.OverrideAvailability
	b.OverrideDeposit = req.OverrideDeposit
	b.OverrideCapacity = req.OverrideCapacity
	b.OverrideCustomPricing = req.OverrideCustomPricing
	if req.Priority != "" {
		b.Priority = Priority(req.Priority)
	}
	if req.Notes != "" {
		b.Notes = nullString(req.Notes)
	}
	b.ManagedBy = nullUUID(staffID)

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.Log(ctx, b.VenueID,
			fmt.Sprintf("Booking #%d updated (%s %s-%s)", b.BookingNumber, b.Date, b.TimeFrom, b.TimeTo),
			staffID)
	}
	s.invalidateDay(ctx, prevVenue, prevDate)
	s.invalidateDay(ctx, b.VenueID, b.Date)
	if s.hub != nil {
		s.hub.BroadcastBooking("booking_updated", b)
	}

	return b, nil
}

func validateStatusTransition(current, next Status) error {
	if current == next {
		return nil
	}
	switch current {
	case StatusDraft:
		if next == StatusPending || next == StatusConfirmed || next == StatusCancelled {
			return nil
		}
	case StatusPending:
		if next == StatusConfirmed || next == StatusCancelled {
			return nil
		}
	case StatusConfirmed:
		if next == StatusCancelled {
			return nil
		}
	case StatusCancelled:
		// Terminal.
	}
	return ErrInvalidStatus
}

// Cancel marks a booking cancelled and appends the reason to its notes.
// Payment history is never deleted; cancelled bookings keep their money
// records for the reconciler.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string, staffID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}

	b.Status = StatusCancelled
	if reason != "" {
		note := "Cancelled: " + reason
		if b.Notes.Valid && b.Notes.String != "" {
			note = strings.TrimRight(b.Notes.String, "\n") + "\n" + note
		}
		b.Notes = nullString(note)
	}
	b.ManagedBy = nullUUID(staffID)

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	if s.activity != nil {
		action := fmt.Sprintf("Booking #%d cancelled", b.BookingNumber)
		if reason != "" {
			action += ": " + reason
		}
		s.activity.Log(ctx, b.VenueID, action, staffID)
	}
	s.invalidateDay(ctx, b.VenueID, b.Date)
	if s.hub != nil {
		s.hub.BroadcastBooking("booking_cancelled", b)
	}

	return b, nil
}

// AvailabilityQuery describes a candidate interval to check.
type AvailabilityQuery struct {
	VenueID          uuid.UUID
	Date             string
	StartTime        string
	EndTime          string
	ExcludeBookingID uuid.UUID
	Override         bool
}

// AvailabilityResult is the conflict-check outcome.
type AvailabilityResult struct {
	Available       bool
	Conflicting     []*Booking
	BufferMinutes   int
	OverrideEnabled bool
}

// CheckAvailability runs the conflict detector without persisting
// anything.
func (s *Service) CheckAvailability(ctx context.Context, q AvailabilityQuery) (*AvailabilityResult, error) {
	v, err := s.venueRepo.GetByID(ctx, q.VenueID)
	if err != nil {
		return nil, fmt.Errorf("load venue: %w", err)
	}
	if v == nil {
		return nil, ErrVenueNotFound
	}

	proposed, err := s.timesToInterval(q.StartTime, q.EndTime)
	if err != nil {
		return nil, err
	}

	if q.Override {
		return &AvailabilityResult{Available: true, BufferMinutes: v.BufferMinutes, OverrideEnabled: true}, nil
	}

	existing, err := s.repo.ListByVenueDate(ctx, q.VenueID, q.Date)
	if err != nil {
		return nil, fmt.Errorf("load day bookings: %w", err)
	}

	conflict, conflicting := HasConflict(proposed, 0, 0, existing, v.BufferMinutes, q.ExcludeBookingID, false)
	return &AvailabilityResult{
		Available:     !conflict,
		Conflicting:   conflicting,
		BufferMinutes: v.BufferMinutes,
	}, nil
}

// GetDay returns all bookings of a venue day plus the venue buffer, for
// the slot-grid editor. Reads go through the availability cache.
func (s *Service) GetDay(ctx context.Context, venueID uuid.UUID, date string) ([]*Booking, int, error) {
	if bookings, buffer, ok := s.cache.GetDay(ctx, venueID, date); ok {
		return bookings, buffer, nil
	}

	v, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return nil, 0, fmt.Errorf("load venue: %w", err)
	}
	if v == nil {
		return nil, 0, ErrVenueNotFound
	}

	bookings, err := s.repo.ListByVenueDate(ctx, venueID, date)
	if err != nil {
		return nil, 0, err
	}

	if err := s.cache.SetDay(ctx, venueID, date, bookings, v.BufferMinutes); err != nil {
		log.Warn().Err(err).Str("venue_id", venueID.String()).Msg("failed to cache availability day")
	}
	return bookings, v.BufferMinutes, nil
}

// SaveDraft persists a work-in-progress booking. Drafts are never
// conflict-checked.
func (s *Service) SaveDraft(ctx context.Context, req *SaveDraftRequest, createdBy uuid.UUID) (*Draft, error) {
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}

	d := &Draft{
		ID:          uuid.New(),
		VenueID:     venueID,
		Date:        nullString(req.Date),
		TimeFrom:    nullString(req.TimeFrom),
		TimeTo:      nullString(req.TimeTo),
		PeopleCount: req.PeopleCount,
		EventType:   nullString(req.EventType),
		Notes:       nullString(req.Notes),
		CreatedBy:   nullUUID(createdBy),
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer id: %w", err)
		}
		d.CustomerID = nullUUID(customerID)
	}

	if err := s.repo.CreateDraft(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDrafts returns a venue's drafts, newest first.
func (s *Service) ListDrafts(ctx context.Context, venueID uuid.UUID) ([]*Draft, error) {
	return s.repo.ListDraftsByVenue(ctx, venueID)
}

// DeleteDraft removes a draft; deleting a missing draft is NotFound.
func (s *Service) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDraft(ctx, id)
}

func (s *Service) invalidateDay(ctx context.Context, venueID uuid.UUID, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, venueID, date); err != nil {
		log.Warn().Err(err).
			Str("venue_id", venueID.String()).
			Str("date", date).
			Msg("failed to invalidate availability cache")
	}
}
