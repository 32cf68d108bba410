package pricing

import (
	"testing"
	"time"

	"github.com/venuedesk/venuedesk-api/internal/domain/venue"
)

func testConfig() Config {
	return Config{
		WeekendMultiplier:     1.20,
		ExtraGuestFee:         5.00,
		GuestThreshold:        50,
		DefaultDepositPercent: 30,
	}
}

func hourlyRule(rate float64) *venue.PricingRule {
	return &venue.PricingRule{
		IsAvailable: true,
		PricingType: venue.PricingHourly,
		StartTime:   "09:00",
		EndTime:     "22:00",
		HourlyPrice: rate,
	}
}

func mustQuote(t *testing.T, c *Calculator, rule *venue.PricingRule, chosen venue.PricingType, start, end string, guests int, date time.Time, deposits []*venue.DepositRule) *Quote {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	q, err := c.Quote(rule, chosen, start, end, guests, date, deposits, now)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	return q
}

func TestQuoteHourly(t *testing.T) {
	c := NewCalculator(testConfig())
	weekday := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC) // Wednesday

	q := mustQuote(t, c, hourlyRule(100), venue.PricingHourly, "10:00", "12:30", 10, weekday, nil)
	if q.Total != 250 {
		t.Errorf("total = %v, want 250 (2.5h at 100/h)", q.Total)
	}
	if q.Deposit != 75 {
		t.Errorf("deposit = %v, want 75 (default 30%%)", q.Deposit)
	}
	if q.Remaining != 175 {
		t.Errorf("remaining = %v, want 175", q.Remaining)
	}
	if q.Breakdown.Duration != "2h 30m" {
		t.Errorf("duration = %q, want 2h 30m", q.Breakdown.Duration)
	}
}

func TestQuoteFullDayIgnoresDuration(t *testing.T) {
	c := NewCalculator(testConfig())
	weekday := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	rule := &venue.PricingRule{PricingType: venue.PricingFullDay, FullDayPrice: 900, HourlyPrice: 100}

	short := mustQuote(t, c, rule, venue.PricingFullDay, "10:00", "11:00", 0, weekday, nil)
	long := mustQuote(t, c, rule, venue.PricingFullDay, "09:00", "22:00", 0, weekday, nil)
	if short.Total != 900 || long.Total != 900 {
		t.Errorf("full day totals = %v/%v, want 900 regardless of duration", short.Total, long.Total)
	}
}

func TestQuoteWeekendSurcharge(t *testing.T) {
	c := NewCalculator(testConfig())
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	q := mustQuote(t, c, hourlyRule(100), venue.PricingHourly, "10:00", "12:00", 0, saturday, nil)
	if q.Total != 240 {
		t.Errorf("total = %v, want 240 (200 * 1.20)", q.Total)
	}
	if q.Breakdown.WeekendSurcharge != 40 {
		t.Errorf("weekend surcharge = %v, want 40", q.Breakdown.WeekendSurcharge)
	}
}

func TestQuoteGuestSurchargeThreshold(t *testing.T) {
	c := NewCalculator(testConfig())
	weekday := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	at := mustQuote(t, c, hourlyRule(100), venue.PricingHourly, "10:00", "12:00", 50, weekday, nil)
	if at.Breakdown.GuestSurcharge != 0 {
		t.Errorf("guest surcharge at threshold = %v, want 0", at.Breakdown.GuestSurcharge)
	}

	over := mustQuote(t, c, hourlyRule(100), venue.PricingHourly, "10:00", "12:00", 51, weekday, nil)
	if over.Breakdown.GuestSurcharge != 5 {
		t.Errorf("guest surcharge at 51 = %v, want exactly one unit fee", over.Breakdown.GuestSurcharge)
	}
	if over.Total != 205 {
		t.Errorf("total = %v, want 205", over.Total)
	}
}

func TestQuoteWeekendBeforeGuestSurcharge(t *testing.T) {
	c := NewCalculator(testConfig())
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	// Guest surcharge is additive after the weekend multiplier, not
	// multiplied by it: 200*1.20 + 10*5 = 290, not (200+50)*1.20 = 300.
	q := mustQuote(t, c, hourlyRule(100), venue.PricingHourly, "10:00", "12:00", 60, saturday, nil)
	if q.Total != 290 {
		t.Errorf("total = %v, want 290", q.Total)
	}
}

func TestQuoteMissingRuleDegradesGracefully(t *testing.T) {
	c := NewCalculator(testConfig())
	weekday := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	q := mustQuote(t, c, nil, venue.PricingHourly, "10:00", "12:00", 0, weekday, nil)
	if q.Total != 0 || q.Deposit != 0 {
		t.Errorf("missing rule should quote zero, got total=%v deposit=%v", q.Total, q.Deposit)
	}
	if q.Breakdown.DepositPercent != 30 {
		t.Errorf("deposit percent = %v, want default 30", q.Breakdown.DepositPercent)
	}
}

func TestResolveDepositPercent(t *testing.T) {
	rules := []*venue.DepositRule{
		{MinDaysBefore: 30, Percent: 20},
		{MinDaysBefore: 7, Percent: 30},
	}

	cases := []struct {
		days int
		want float64
	}{
		{45, 20}, // qualifies for both, largest min_days_before wins
		{10, 30}, // only the 7-day rule qualifies
		{7, 30},  // boundary is inclusive
		{5, 30},  // last-minute: no rule qualifies, closest-to-event fallback
	}
	for _, c := range cases {
		if got := ResolveDepositPercent(rules, c.days, 30); got != c.want {
			t.Errorf("ResolveDepositPercent(days=%d) = %v, want %v", c.days, got, c.want)
		}
	}

	if got := ResolveDepositPercent(nil, 10, 30); got != 30 {
		t.Errorf("no rules should fall back to default, got %v", got)
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{2.675, 2.68},
		{12.345, 12.35},
		{0.125, 0.13},
		{-2.565, -2.57},
		{1.004, 1.00},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
