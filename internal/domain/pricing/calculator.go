package pricing

import (
	"math"
	"time"

	"github.com/venuedesk/venuedesk-api/internal/domain/venue"
	"github.com/venuedesk/venuedesk-api/internal/pkg/timeutil"
)

// Config holds the platform pricing constants. These are configuration
// with documented defaults, not literals baked into the calculator.
type Config struct {
	WeekendMultiplier     float64 // applied once when the event date is Sat/Sun
	ExtraGuestFee         float64 // per guest above the threshold
	GuestThreshold        int
	DefaultDepositPercent float64 // used when the venue has no deposit rules
}

// Breakdown itemizes how a quote was built.
type Breakdown struct {
	PricingType      string  `json:"pricing_type"`
	Duration         string  `json:"duration"`
	BaseAmount       float64 `json:"base_amount"`
	WeekendSurcharge float64 `json:"weekend_surcharge"`
	GuestSurcharge   float64 `json:"guest_surcharge"`
	DepositPercent   float64 `json:"deposit_percent"`
}

// Quote is the advisory price for a candidate booking. The booking
// controller stores whatever amount the caller supplies; quotes inform
// the UI but are not re-derived server-side on create.
type Quote struct {
	Total     float64   `json:"total_amount"`
	Deposit   float64   `json:"deposit_amount"`
	Remaining float64   `json:"remaining_balance"`
	Breakdown Breakdown `json:"breakdown"`
}

// Calculator computes booking quotes from venue pricing rules.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a pricing calculator
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Quote prices a time range for a venue day. A nil rule yields a zero
// base rather than an error so newly onboarded venues degrade gracefully.
// chosenType selects hourly or full-day when the rule allows both.
func (c *Calculator) Quote(
	rule *venue.PricingRule,
	chosenType venue.PricingType,
	startTime, endTime string,
	guestCount int,
	date time.Time,
	depositRules []*venue.DepositRule,
	now time.Time,
) (*Quote, error) {
	startMin, err := timeutil.ToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	endMin, err := timeutil.ToMinutes(endTime)
	if err != nil {
		return nil, err
	}

	breakdown := Breakdown{
		PricingType: string(chosenType),
		Duration:    timeutil.DurationLabel(startMin, endMin),
	}

	var total float64
	if rule != nil {
		switch chosenType {
		case venue.PricingFullDay:
			total = rule.FullDayPrice
		default:
			hours := float64(endMin-startMin) / 60.0
			total = rule.HourlyPrice * hours
		}
	}
	breakdown.BaseAmount = Round2(total)

	// Weekend surcharge applies once, after the base, before guests.
	if timeutil.IsWeekend(date) {
		surcharged := total * c.cfg.WeekendMultiplier
		breakdown.WeekendSurcharge = Round2(surcharged - total)
		total = surcharged
	}

	if guestCount > c.cfg.GuestThreshold {
		extra := float64(guestCount-c.cfg.GuestThreshold) * c.cfg.ExtraGuestFee
		breakdown.GuestSurcharge = Round2(extra)
		total += extra
	}

	total = Round2(total)

	daysUntil := timeutil.DaysUntil(date, now)
	percent := ResolveDepositPercent(depositRules, daysUntil, c.cfg.DefaultDepositPercent)
	breakdown.DepositPercent = percent

	deposit := Round2(total * percent / 100)
	remaining := Round2(total - deposit)

	return &Quote{
		Total:     total,
		Deposit:   deposit,
		Remaining: remaining,
		Breakdown: breakdown,
	}, nil
}

// ResolveDepositPercent picks the deposit percentage for a booking made
// daysUntilEvent days ahead. The rule with the largest min_days_before
// still satisfied wins; a last-minute booking that satisfies no rule falls
// back to the closest-to-event rule instead of failing.
func ResolveDepositPercent(rules []*venue.DepositRule, daysUntilEvent int, defaultPercent float64) float64 {
	if len(rules) == 0 {
		return defaultPercent
	}

	var best *venue.DepositRule
	var closest *venue.DepositRule
	for _, rule := range rules {
		if closest == nil || rule.MinDaysBefore < closest.MinDaysBefore {
			closest = rule
		}
		if daysUntilEvent >= rule.MinDaysBefore {
			if best == nil || rule.MinDaysBefore > best.MinDaysBefore {
				best = rule
			}
		}
	}
	if best == nil {
		return closest.Percent
	}
	return best.Percent
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Trunc(v*100+math.Copysign(0.5, v)) / 100
}
