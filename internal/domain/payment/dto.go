package payment

import "time"

// RecordPaymentRequest represents payment creation request
type RecordPaymentRequest struct {
	BookingID     string  `json:"booking_id" validate:"required,uuid"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,max=50"`
	Reference     string  `json:"reference" validate:"max=200"`
	PaymentDate   string  `json:"payment_date" validate:"omitempty,ymd"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Reference     string    `json:"reference,omitempty"`
	RecordedBy    string    `json:"recorded_by,omitempty"`
	PaymentDate   time.Time `json:"payment_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReconcileResponse reports a booking's derived payment state
type ReconcileResponse struct {
	BookingID     string `json:"booking_id"`
	PaymentStatus Status `json:"payment_status"`
	IsFullyPaid   bool   `json:"is_fully_paid"`
}

// PaymentResponseFromEntity converts entity to response DTO
func PaymentResponseFromEntity(p *Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID.String(),
		BookingID:     p.BookingID.String(),
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference.String,
		PaymentDate:   p.PaymentDate,
		CreatedAt:     p.CreatedAt,
	}
	if p.RecordedBy.Valid {
		resp.RecordedBy = p.RecordedBy.UUID.String()
	}
	return resp
}
