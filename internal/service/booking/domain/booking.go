// internal/service/booking/domain/booking.go
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of travel dates.
const DateLayout = "2006-01-02"

// Booking is the aggregate root of the booking context.
type Booking struct {
	ID              uint64
	BookingCode     string
	UserID          string
	Kind            Kind
	RefID           string
	TravelDate      string
	Quantity        int
	UnitPrice       float64
	TotalAmount     float64
	Currency        string
	PaymentStatus   PaymentStatus
	Status          Status
	SpecialRequests string
	Details         json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Item holds the inventory-derived attributes used for filtering.
	Item *BookingItem
}

// BookingItem is the inventory line a booking consumed, with the descriptive
// attributes extracted from the booking details.
type BookingItem struct {
	Kind       Kind
	RefID      string
	TravelDate string
	ItemAttributes
}

// ItemAttributes are read from the details payload; every field is optional.
type ItemAttributes struct {
	OriginCity          string `json:"origin_city,omitempty"`
	DestinationCity     string `json:"destination_city,omitempty"`
	OriginProvince      string `json:"origin_province,omitempty"`
	DestinationProvince string `json:"destination_province,omitempty"`
	ServiceClass        string `json:"service_class,omitempty"`
	Provider            string `json:"provider,omitempty"`
	RoomTypeName        string `json:"room_type_name,omitempty"`
}

// ParseItemAttributes extracts ItemAttributes from an opaque details payload.
// Malformed or non-object payloads yield empty attributes.
func ParseItemAttributes(details json.RawMessage) ItemAttributes {
	var attrs ItemAttributes
	if len(details) == 0 {
		return attrs
	}
	_ = json.Unmarshal(details, &attrs)
	return attrs
}

// InventoryLine identifies a quantity of one inventory item on one date.
// It is the unit reserved, compensated and released.
type InventoryLine struct {
	Kind       Kind
	RefID      string
	TravelDate string
	Quantity   int
	Details    json.RawMessage
	// RoomType is the hotel room type priced at check time. Reserve and
	// release must use the same one. Empty for other kinds.
	RoomType string
}

// Quote is the price and currency fixed at availability-check time.
type Quote struct {
	UnitPrice float64
	Currency  string
}

// NewBooking builds a confirmed booking with a pending payment. The total is
// computed here once and never again.
func NewBooking(userID string, line InventoryLine, quote Quote, specialRequests string) *Booking {
	now := time.Now().UTC()
	attrs := ParseItemAttributes(line.Details)
	if line.RoomType != "" {
		attrs.RoomTypeName = line.RoomType
	}
	return &Booking{
		UserID:          userID,
		Kind:            line.Kind,
		RefID:           line.RefID,
		TravelDate:      line.TravelDate,
		Quantity:        line.Quantity,
		UnitPrice:       quote.UnitPrice,
		TotalAmount:     quote.UnitPrice * float64(line.Quantity),
		Currency:        quote.Currency,
		PaymentStatus:   PaymentPending,
		Status:          StatusConfirmed,
		SpecialRequests: strings.TrimSpace(specialRequests),
		Details:         line.Details,
		CreatedAt:       now,
		UpdatedAt:       now,
		Item: &BookingItem{
			Kind:           line.Kind,
			RefID:          line.RefID,
			TravelDate:     line.TravelDate,
			ItemAttributes: attrs,
		},
	}
}

// Cancel moves a confirmed booking to cancelled. There is no way back.
func (b *Booking) Cancel() error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.Status = StatusCancelled
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// InventoryLines returns the lines to release when the booking is cancelled.
// The room type comes from the stored item, which holds what was reserved.
func (b *Booking) InventoryLines() []InventoryLine {
	roomType := ParseItemAttributes(b.Details).RoomTypeName
	if b.Item != nil && b.Item.RoomTypeName != "" {
		roomType = b.Item.RoomTypeName
	}
	return []InventoryLine{{
		Kind:       b.Kind,
		RefID:      b.RefID,
		TravelDate: b.TravelDate,
		Quantity:   b.Quantity,
		Details:    b.Details,
		RoomType:   roomType,
	}}
}
