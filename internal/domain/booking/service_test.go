package booking

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/venuedesk/venuedesk-api/internal/domain/payment"
	"github.com/venuedesk/venuedesk-api/internal/domain/venue"
)

type fakeBookingRepo struct {
	bookings   map[uuid.UUID]*Booking
	drafts     map[uuid.UUID]*Draft
	nextNumber int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:   make(map[uuid.UUID]*Booking),
		drafts:     make(map[uuid.UUID]*Draft),
		nextNumber: 1000,
	}
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *Booking) error {
	f.nextNumber++
	b.BookingNumber = f.nextNumber
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) GetByNumber(ctx context.Context, number int64) (*Booking, error) {
	for _, b := range f.bookings {
		if b.BookingNumber == number {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, b *Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return ErrBookingNotFound
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) ListByVenueDate(ctx context.Context, venueID uuid.UUID, date string) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.VenueID == venueID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListActive(ctx context.Context) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if !b.IsCancelled() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status payment.Status, isFullyPaid bool) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.PaymentStatus = status
	b.IsFullyPaid = isFullyPaid
	return nil
}

func (f *fakeBookingRepo) CreateDraft(ctx context.Context, d *Draft) error {
	f.drafts[d.ID] = d
	return nil
}

func (f *fakeBookingRepo) ListDraftsByVenue(ctx context.Context, venueID uuid.UUID) ([]*Draft, error) {
	var out []*Draft
	for _, d := range f.drafts {
		if d.VenueID == venueID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(f.drafts, id)
	return nil
}

type fakeVenueRepo struct {
	venues map[uuid.UUID]*venue.Venue
	rules  map[int]*venue.PricingRule
}

func (f *fakeVenueRepo) Create(ctx context.Context, v *venue.Venue) error {
	f.venues[v.ID] = v
	return nil
}

func (f *fakeVenueRepo) GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error) {
	return f.venues[id], nil
}

func (f *fakeVenueRepo) List(ctx context.Context, limit, offset int) ([]*venue.Venue, error) {
	return nil, nil
}

func (f *fakeVenueRepo) UpdateBufferMinutes(ctx context.Context, id uuid.UUID, bufferMinutes int) error {
	return nil
}

func (f *fakeVenueRepo) GetPricingRule(ctx context.Context, venueID uuid.UUID, dayOfWeek int) (*venue.PricingRule, error) {
	return f.rules[dayOfWeek], nil
}

func (f *fakeVenueRepo) ListPricingRules(ctx context.Context, venueID uuid.UUID) ([]*venue.PricingRule, error) {
	return nil, nil
}

func (f *fakeVenueRepo) ListDepositRules(ctx context.Context, venueID uuid.UUID) ([]*venue.DepositRule, error) {
	return nil, nil
}

type fakeActivityLog struct {
	entries []string
}

func (f *fakeActivityLog) Log(ctx context.Context, venueID uuid.UUID, action string, userID uuid.UUID) {
	f.entries = append(f.entries, action)
}

func newTestService(bufferMinutes int) (*Service, *fakeBookingRepo, *fakeActivityLog, uuid.UUID) {
	repo := newFakeBookingRepo()
	venueID := uuid.New()
	venues := &fakeVenueRepo{venues: map[uuid.UUID]*venue.Venue{
		venueID: {ID: venueID, Name: "Loft A", Capacity: 120, Currency: "EUR", BufferMinutes: bufferMinutes},
	}}
	activity := &fakeActivityLog{}
	svc := NewService(repo, venues, activity, nil, nil)
	return svc, repo, activity, venueID
}

func createReq(venueID uuid.UUID, date, from, to string) *CreateBookingRequest {
	return &CreateBookingRequest{
		VenueID:    venueID.String(),
		CustomerID: uuid.New().String(),
		Date:       date,
		TimeFrom:   from,
		TimeTo:     to,
		Amount:     500,
		Priority:   "standard",
	}
}

func TestCreateBooking(t *testing.T) {
	svc, repo, activity, venueID := newTestService(15)
	staffID := uuid.New()

	b, err := svc.Create(context.Background(), createReq(venueID, "2026-09-12", "14:00", "16:00"), staffID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.BookingNumber == 0 {
		t.Error("expected a booking number to be assigned")
	}
	if b.Status != StatusPending {
		t.Errorf("default status = %s, want pending", b.Status)
	}
	if b.PaymentStatus != payment.StatusUnpaid {
		t.Errorf("payment status = %s, want unpaid", b.PaymentStatus)
	}
	if _, ok := repo.bookings[b.ID]; !ok {
		t.Error("booking was not persisted")
	}
	if len(activity.entries) != 1 {
		t.Fatalf("activity entries = %d, want 1", len(activity.entries))
	}
}

func TestCreateBookingVIPActivityMessage(t *testing.T) {
	svc, _, activity, venueID := newTestService(15)

	req := createReq(venueID, "2026-09-12", "14:00", "16:00")
	req.Priority = "vip"
	if _, err := svc.Create(context.Background(), req, uuid.New()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(activity.entries) != 1 || !strings.HasPrefix(activity.entries[0], "VIP booking") {
		t.Errorf("activity entry = %q, want VIP-prefixed message", activity.entries)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	svc, _, _, venueID := newTestService(15)
	ctx := context.Background()

	if _, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New()); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}

	// 16:10 start is inside the 15-minute breakdown buffer of the
	// existing booking.
	_, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "16:10", "18:00"), uuid.New())
	if !errors.Is(err, ErrAvailabilityConflict) {
		t.Fatalf("Create() error = %v, want availability conflict", err)
	}
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) || len(conflictErr.Conflicting) != 1 {
		t.Errorf("expected one conflicting booking, got %v", err)
	}

	// 16:20 clears the buffer.
	if _, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "16:20", "18:00"), uuid.New()); err != nil {
		t.Errorf("Create() after buffer error = %v", err)
	}
}

func TestCreateBookingOverrideBypassesConflict(t *testing.T) {
	svc, _, _, venueID := newTestService(15)
	ctx := context.Background()

	if _, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New()); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}

	req := createReq(venueID, "2026-09-12", "15:00", "17:00")
	req.OverrideAvailability = true
	if _, err := svc.Create(ctx, req, uuid.New()); err != nil {
		t.Fatalf("Create() with override error = %v", err)
	}
}

func TestCreateBookingOnUnavailableWeekday(t *testing.T) {
	repo := newFakeBookingRepo()
	venueID := uuid.New()
	venues := &fakeVenueRepo{
		venues: map[uuid.UUID]*venue.Venue{
			venueID: {ID: venueID, Name: "Loft A", Capacity: 120, Currency: "EUR", BufferMinutes: 15},
		},
		// Closed on Wednesdays.
		rules: map[int]*venue.PricingRule{
			3: {ID: uuid.New(), VenueID: venueID, DayOfWeek: 3, IsAvailable: false},
		},
	}
	svc := NewService(repo, venues, nil, nil, nil)
	ctx := context.Background()

	// 2026-09-02 is a Wednesday.
	_, err := svc.Create(ctx, createReq(venueID, "2026-09-02", "14:00", "16:00"), uuid.New())
	if !errors.Is(err, ErrVenueUnavailable) {
		t.Fatalf("Create() on closed weekday error = %v, want ErrVenueUnavailable", err)
	}
	if len(repo.bookings) != 0 {
		t.Error("rejected booking must not be persisted")
	}

	// The availability override applies to closed days too.
	req := createReq(venueID, "2026-09-02", "14:00", "16:00")
	req.OverrideAvailability = true
	b, err := svc.Create(ctx, req, uuid.New())
	if err != nil {
		t.Fatalf("Create() with override error = %v", err)
	}

	// Thursday has no rule and is open.
	if _, err := svc.Create(ctx, createReq(venueID, "2026-09-03", "10:00", "12:00"), uuid.New()); err != nil {
		t.Fatalf("Create() on open weekday error = %v", err)
	}

	// Updating the overridden booking without the override re-hits the
	// closed-day check.
	upd := createReq(venueID, "2026-09-02", "15:00", "17:00")
	upd.CustomerID = b.CustomerID.String()
	if _, err := svc.Update(ctx, b.ID, upd, uuid.New()); !errors.Is(err, ErrVenueUnavailable) {
		t.Errorf("Update() onto closed weekday error = %v, want ErrVenueUnavailable", err)
	}
}

func TestCreateBookingUnknownVenue(t *testing.T) {
	svc, _, _, _ := newTestService(15)

	_, err := svc.Create(context.Background(), createReq(uuid.New(), "2026-09-12", "14:00", "16:00"), uuid.New())
	if !errors.Is(err, ErrVenueNotFound) {
		t.Errorf("Create() error = %v, want ErrVenueNotFound", err)
	}
}

func TestCreateBookingInvalidTimeRange(t *testing.T) {
	svc, _, _, venueID := newTestService(15)

	_, err := svc.Create(context.Background(), createReq(venueID, "2026-09-12", "16:00", "14:00"), uuid.New())
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("Create() error = %v, want ErrInvalidTimeRange", err)
	}
}

func TestUpdateReRunsConflictDetection(t *testing.T) {
	svc, _, _, venueID := newTestService(15)
	ctx := context.Background()

	if _, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "10:00", "12:00"), uuid.New()); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}
	b, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New())
	if err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}

	// Moving onto the other booking must fail.
	req := createReq(venueID, "2026-09-12", "11:00", "13:00")
	req.CustomerID = b.CustomerID.String()
	if _, err := svc.Update(ctx, b.ID, req, uuid.New()); !errors.Is(err, ErrAvailabilityConflict) {
		t.Errorf("Update() onto occupied slot error = %v, want conflict", err)
	}

	// Shifting within its own window must not conflict with itself.
	req = createReq(venueID, "2026-09-12", "14:30", "16:30")
	req.CustomerID = b.CustomerID.String()
	updated, err := svc.Update(ctx, b.ID, req, uuid.New())
	if err != nil {
		t.Fatalf("Update() within own window error = %v", err)
	}
	if updated.TimeFrom != "14:30" || updated.TimeTo != "16:30" {
		t.Errorf("updated window = %s-%s, want 14:30-16:30", updated.TimeFrom, updated.TimeTo)
	}
}

func TestUpdateCancelledBooking(t *testing.T) {
	svc, _, _, venueID := newTestService(15)
	ctx := context.Background()

	b, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Cancel(ctx, b.ID, "client no-show", uuid.New()); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	if _, err := svc.Update(ctx, b.ID, createReq(venueID, "2026-09-12", "15:00", "17:00"), uuid.New()); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("Update() of cancelled booking error = %v, want ErrAlreadyCancelled", err)
	}
}

func TestCancelBooking(t *testing.T) {
	svc, _, activity, venueID := newTestService(15)
	ctx := context.Background()

	b, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	cancelled, err := svc.Cancel(ctx, b.ID, "double booked", uuid.New())
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if !cancelled.IsCancelled() {
		t.Error("booking should be cancelled")
	}
	if !strings.Contains(cancelled.Notes.String, "Cancelled: double booked") {
		t.Errorf("notes = %q, want cancellation reason appended", cancelled.Notes.String)
	}
	if len(activity.entries) != 2 {
		t.Errorf("activity entries = %d, want create + cancel", len(activity.entries))
	}

	// Second cancel must be rejected, not silently repeated.
	if _, err := svc.Cancel(ctx, b.ID, "again", uuid.New()); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("second Cancel() error = %v, want ErrAlreadyCancelled", err)
	}
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	svc, _, _, venueID := newTestService(15)
	ctx := context.Background()

	b, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Cancel(ctx, b.ID, "", uuid.New()); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	if _, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New()); err != nil {
		t.Errorf("Create() into freed slot error = %v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	svc, _, _, venueID := newTestService(15)
	ctx := context.Background()

	if _, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New()); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}

	res, err := svc.CheckAvailability(ctx, AvailabilityQuery{
		VenueID:   venueID,
		Date:      "2026-09-12",
		StartTime: "15:00",
		EndTime:   "17:00",
	})
	if err != nil {
		t.Fatalf("CheckAvailability() error = %v", err)
	}
	if res.Available {
		t.Error("overlapping interval should not be available")
	}
	if len(res.Conflicting) != 1 {
		t.Errorf("conflicting = %d, want 1", len(res.Conflicting))
	}
	if res.BufferMinutes != 15 {
		t.Errorf("buffer minutes = %d, want 15", res.BufferMinutes)
	}

	res, err = svc.CheckAvailability(ctx, AvailabilityQuery{
		VenueID:   venueID,
		Date:      "2026-09-12",
		StartTime: "15:00",
		EndTime:   "17:00",
		Override:  true,
	})
	if err != nil {
		t.Fatalf("CheckAvailability() with override error = %v", err)
	}
	if !res.Available || !res.OverrideEnabled {
		t.Error("override check should report available with override flag")
	}
}

func TestResolveRef(t *testing.T) {
	svc, _, _, venueID := newTestService(15)
	ctx := context.Background()

	b, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byID, err := svc.ResolveRef(ctx, b.ID.String())
	if err != nil || byID.ID != b.ID {
		t.Errorf("ResolveRef(uuid) = %v, %v", byID, err)
	}

	byNumber, err := svc.ResolveRef(ctx, strconv.FormatInt(b.BookingNumber, 10))
	if err != nil || byNumber.ID != b.ID {
		t.Errorf("ResolveRef(number) = %v, %v", byNumber, err)
	}

	if _, err := svc.ResolveRef(ctx, "not-a-ref"); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("ResolveRef(garbage) error = %v, want ErrBookingNotFound", err)
	}
	if _, err := svc.ResolveRef(ctx, uuid.New().String()); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("ResolveRef(unknown uuid) error = %v, want ErrBookingNotFound", err)
	}
}

func TestDraftLifecycle(t *testing.T) {
	svc, _, _, venueID := newTestService(15)
	ctx := context.Background()

	d, err := svc.SaveDraft(ctx, &SaveDraftRequest{
		VenueID:  venueID.String(),
		Date:     "2026-09-12",
		TimeFrom: "14:00",
	}, uuid.New())
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	drafts, err := svc.ListDrafts(ctx, venueID)
	if err != nil || len(drafts) != 1 {
		t.Fatalf("ListDrafts() = %v, %v; want one draft", drafts, err)
	}

	// Drafts never block availability.
	if _, err := svc.Create(ctx, createReq(venueID, "2026-09-12", "14:00", "16:00"), uuid.New()); err != nil {
		t.Errorf("Create() over draft error = %v", err)
	}

	if err := svc.DeleteDraft(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDraft() error = %v", err)
	}
	if err := svc.DeleteDraft(ctx, d.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("repeat DeleteDraft() error = %v, want ErrDraftNotFound", err)
	}
}
