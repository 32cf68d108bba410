package booking

import (
	"github.com/google/uuid"

	"github.com/venuedesk/venuedesk-api/internal/pkg/timeutil"
)

// Interval is a half-open [Start, End) span in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect. Touching
// intervals (a.End == b.Start) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Buffered expands an interval by setup minutes before and breakdown
// minutes after.
func (a Interval) Buffered(setupMinutes, breakdownMinutes int) Interval {
	return Interval{Start: a.Start - setupMinutes, End: a.End + breakdownMinutes}
}

// HasConflict tests a proposed interval against the existing bookings of
// the same venue and date.
//
// overrideEnabled is the explicit staff escape hatch: when set, no check
// is performed at all. Overrides are one-directional otherwise: a booking
// carrying override_availability is invisible to checks against other
// bookings, but never displaces anything it overlaps.
//
// Excluded from the existing set: the booking being edited, cancelled
// bookings, and override bookings. Each remaining booking is buffered by
// its own setup/breakdown override or the venue default before the
// half-open overlap test.
func HasConflict(
	proposed Interval,
	setupMinutes, breakdownMinutes int,
	existing []*Booking,
	venueBufferMinutes int,
	currentBookingID uuid.UUID,
	overrideEnabled bool,
) (bool, []*Booking) {
	if overrideEnabled {
		return false, nil
	}

	buffered := proposed.Buffered(setupMinutes, breakdownMinutes)

	var conflicting []*Booking
	for _, b := range existing {
		if b.ID == currentBookingID {
			continue
		}
		if b.IsCancelled() {
			continue
		}
		if b.OverrideAvailability {
			continue
		}

		start, err := timeutil.ToMinutes(b.TimeFrom)
		if err != nil {
			continue
		}
		end, err := timeutil.ToMinutes(b.TimeTo)
		if err != nil {
			continue
		}

		other := Interval{Start: start, End: end}.Buffered(
			b.EffectiveSetupMinutes(venueBufferMinutes),
			b.EffectiveBreakdownMinutes(venueBufferMinutes),
		)
		if buffered.Overlaps(other) {
			conflicting = append(conflicting, b)
		}
	}

	return len(conflicting) > 0, conflicting
}
