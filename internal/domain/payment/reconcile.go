package payment

import "github.com/venuedesk/venuedesk-api/internal/domain/pricing"

// Reconcile derives a booking's payment status and fully-paid flag from
// its payment history. Pure and idempotent: re-running it on the same
// inputs always yields the same result, so it is safe to re-invoke at
// least once after every payment insert or delete.
//
// The conditions are evaluated strictly in order; the first match wins.
func Reconcile(amount, depositAmount, depositPercentage float64, payments []*Payment) (Status, bool) {
	var totalPaid float64
	for _, p := range payments {
		totalPaid += p.Amount
	}
	// Damp float drift from summing so comparisons against the stored
	// 2dp amounts are exact.
	totalPaid = pricing.Round2(totalPaid)

	switch {
	case totalPaid == 0:
		return StatusUnpaid, false
	case totalPaid > amount:
		return StatusOverpaid, false
	case totalPaid >= amount:
		return StatusPaid, true
	case totalPaid == depositAmount:
		return StatusDepositPaid, false
	case totalPaid > depositAmount:
		return StatusPartial, false
	case depositPercentage == 100:
		// A 100%-deposit booking has deposit == amount, so anything
		// below the deposit is a partial payment, never deposit_pending.
		return StatusPartial, false
	default:
		return StatusDepositPending, false
	}
}
