package booking

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrDraftNotFound        = errors.New("draft not found")
	ErrVenueNotFound        = errors.New("venue not found")
	ErrInvalidTimeRange     = errors.New("time_to must be after time_from")
	ErrInvalidStatus        = errors.New("invalid booking status transition")
	ErrAlreadyCancelled     = errors.New("booking is already cancelled")
	ErrVenueUnavailable     = errors.New("venue is not available on this day")
	ErrAvailabilityConflict = errors.New("requested time conflicts with an existing booking")
)

// ConflictError carries the overlapping bookings so the UI can offer an
// override retry.
type ConflictError struct {
	Conflicting []*Booking
}

func (e *ConflictError) Error() string {
	return ErrAvailabilityConflict.Error()
}

func (e *ConflictError) Unwrap() error {
	return ErrAvailabilityConflict
}
