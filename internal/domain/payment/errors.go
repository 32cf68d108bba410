package payment

import "errors"

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidAmount     = errors.New("payment amount must be non-negative")
	ErrReconcileFailed   = errors.New("payment status reconciliation failed")
)
