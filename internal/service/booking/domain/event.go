package domain

import "time"

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
)

// BookingEvent is published after a booking is created or cancelled.
type BookingEvent struct {
	EventID     string    `json:"eventId"`
	Type        EventType `json:"type"`
	BookingID   uint64    `json:"bookingId"`
	BookingCode string    `json:"bookingCode"`
	UserID      string    `json:"userId"`
	Kind        Kind      `json:"kind"`
	RefID       string    `json:"refId"`
	TravelDate  string    `json:"travelDate"`
	Quantity    int       `json:"quantity"`
	TotalAmount float64   `json:"totalAmount"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func NewBookingEvent(eventID string, t EventType, b *Booking) BookingEvent {
	return BookingEvent{
		EventID:     eventID,
		Type:        t,
		BookingID:   b.ID,
		BookingCode: b.BookingCode,
		UserID:      b.UserID,
		Kind:        b.Kind,
		RefID:       b.RefID,
		TravelDate:  b.TravelDate,
		Quantity:    b.Quantity,
		TotalAmount: b.TotalAmount,
		Currency:    b.Currency,
		OccurredAt:  time.Now().UTC(),
	}
}

// PaymentStatusChanged is consumed from the payment lifecycle.
type PaymentStatusChanged struct {
	BookingID     uint64        `json:"bookingId"`
	PaymentID     string        `json:"paymentId,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}
