package port

import "context"

// PaymentRequest initiates a pending payment for a booking.
type PaymentRequest struct {
	BookingID uint64
	UserID    string
	Amount    float64
	Method    string
}

// PaymentResult is what the payment service returns on initiation.
type PaymentResult struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

type PaymentService interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}
