package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/venuedesk/venuedesk-api/internal/domain/venue"
)

type fakeVenueRepo struct {
	rule         *venue.PricingRule
	depositRules []*venue.DepositRule
}

func (f *fakeVenueRepo) Create(ctx context.Context, v *venue.Venue) error { return nil }

func (f *fakeVenueRepo) GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error) {
	return nil, nil
}

func (f *fakeVenueRepo) List(ctx context.Context, limit, offset int) ([]*venue.Venue, error) {
	return nil, nil
}

func (f *fakeVenueRepo) UpdateBufferMinutes(ctx context.Context, id uuid.UUID, bufferMinutes int) error {
	return nil
}

func (f *fakeVenueRepo) GetPricingRule(ctx context.Context, venueID uuid.UUID, dayOfWeek int) (*venue.PricingRule, error) {
	return f.rule, nil
}

func (f *fakeVenueRepo) ListPricingRules(ctx context.Context, venueID uuid.UUID) ([]*venue.PricingRule, error) {
	return nil, nil
}

func (f *fakeVenueRepo) ListDepositRules(ctx context.Context, venueID uuid.UUID) ([]*venue.DepositRule, error) {
	return f.depositRules, nil
}

func decodeQuoteBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	return envelope.Data
}

func TestGetQuote(t *testing.T) {
	repo := &fakeVenueRepo{
		rule: &venue.PricingRule{
			DayOfWeek:   3,
			IsAvailable: true,
			PricingType: venue.PricingHourly,
			HourlyPrice: 100,
		},
	}
	h := NewHandler(NewCalculator(Config{
		WeekendMultiplier:     1.20,
		ExtraGuestFee:         5,
		GuestThreshold:        50,
		DefaultDepositPercent: 30,
	}), repo)

	// 2026-09-16 is a Wednesday: 2 hours at 100/h, no surcharges.
	req := httptest.NewRequest(http.MethodGet,
		"/?venue_id="+uuid.NewString()+"&date=2026-09-16&start_time=10:00&end_time=12:00&people_count=20", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	data := decodeQuoteBody(t, rec)
	if total := data["totalAmount"].(float64); total != 200 {
		t.Errorf("totalAmount = %v, want 200", total)
	}
	if deposit := data["depositAmount"].(float64); deposit != 60 {
		t.Errorf("depositAmount = %v, want 60 (default 30%%)", deposit)
	}
	if remaining := data["remainingBalance"].(float64); remaining != 140 {
		t.Errorf("remainingBalance = %v, want 140", remaining)
	}
}

func TestGetQuoteWithoutRuleDegradesGracefully(t *testing.T) {
	h := NewHandler(NewCalculator(Config{
		WeekendMultiplier:     1.20,
		ExtraGuestFee:         5,
		GuestThreshold:        50,
		DefaultDepositPercent: 30,
	}), &fakeVenueRepo{})

	req := httptest.NewRequest(http.MethodGet,
		"/?venue_id="+uuid.NewString()+"&date=2026-09-16&start_time=10:00&end_time=12:00", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a venue with no pricing rule", rec.Code)
	}
	data := decodeQuoteBody(t, rec)
	if total := data["totalAmount"].(float64); total != 0 {
		t.Errorf("totalAmount = %v, want 0 without a pricing rule", total)
	}
}

func TestGetQuoteRejectsBadInput(t *testing.T) {
	h := NewHandler(NewCalculator(Config{DefaultDepositPercent: 30}), &fakeVenueRepo{})

	cases := []struct {
		name  string
		query string
	}{
		{"missing venue", "/?date=2026-09-16&start_time=10:00&end_time=12:00"},
		{"bad date", "/?venue_id=" + uuid.NewString() + "&date=16-09-2026&start_time=10:00&end_time=12:00"},
		{"bad time", "/?venue_id=" + uuid.NewString() + "&date=2026-09-16&start_time=10am&end_time=12:00"},
		{"negative guests", "/?venue_id=" + uuid.NewString() + "&date=2026-09-16&start_time=10:00&end_time=12:00&people_count=-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.query, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
