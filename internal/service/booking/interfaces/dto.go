package interfaces

import (
	"encoding/json"
	"time"

	"travelbooking/internal/service/booking/application"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

// createBookingBody accepts both the camelCase fields and the snake_case
// aliases older gateways send. camelCase wins when both are present.
type createBookingBody struct {
	UserID          string          `json:"userId"`
	Type            string          `json:"type"`
	RefID           json.RawMessage `json:"refId"`
	TravelDate      string          `json:"travelDate"`
	Quantity        *int            `json:"quantity"`
	PaymentMethod   string          `json:"paymentMethod"`
	SpecialRequests string          `json:"specialRequests"`
	Details         json.RawMessage `json:"details"`

	UserIDAlias          string          `json:"user_id"`
	RefIDAlias           json.RawMessage `json:"ref_id"`
	TravelDateAlias      string          `json:"travel_date"`
	PaymentMethodAlias   string          `json:"payment_method"`
	SpecialRequestsAlias string          `json:"special_requests"`
}

func (b createBookingBody) toRequest() *application.CreateBookingRequest {
	req := &application.CreateBookingRequest{
		UserID:          firstNonEmpty(b.UserID, b.UserIDAlias),
		Type:            b.Type,
		RefID:           firstNonEmpty(rawID(b.RefID), rawID(b.RefIDAlias)),
		TravelDate:      firstNonEmpty(b.TravelDate, b.TravelDateAlias),
		PaymentMethod:   firstNonEmpty(b.PaymentMethod, b.PaymentMethodAlias),
		SpecialRequests: firstNonEmpty(b.SpecialRequests, b.SpecialRequestsAlias),
	}
	if b.Quantity != nil {
		req.Quantity = *b.Quantity
	}
	if len(b.Details) > 0 && string(b.Details) != "null" {
		req.Details = b.Details
	}
	return req
}

// rawID reads an id sent either as a JSON string or a JSON number.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type bookingItemView struct {
	ItemType            string `json:"item_type"`
	RefID               string `json:"ref_id"`
	TravelDate          string `json:"travel_date"`
	OriginCity          string `json:"origin_city,omitempty"`
	DestinationCity     string `json:"destination_city,omitempty"`
	OriginProvince      string `json:"origin_province,omitempty"`
	DestinationProvince string `json:"destination_province,omitempty"`
	ServiceClass        string `json:"service_class,omitempty"`
	Provider            string `json:"provider,omitempty"`
	RoomTypeName        string `json:"room_type_name,omitempty"`
}

type bookingView struct {
	ID              uint64           `json:"id"`
	BookingCode     string           `json:"booking_code"`
	UserID          string           `json:"user_id"`
	ItemType        string           `json:"item_type"`
	RefID           string           `json:"ref_id"`
	TravelDate      string           `json:"travel_date"`
	Quantity        int              `json:"quantity"`
	UnitPrice       float64          `json:"unit_price"`
	TotalAmount     float64          `json:"total_amount"`
	Currency        string           `json:"currency"`
	Status          string           `json:"status"`
	PaymentStatus   string           `json:"payment_status"`
	SpecialRequests string           `json:"special_requests,omitempty"`
	Details         json.RawMessage  `json:"details,omitempty"`
	Item            *bookingItemView `json:"item,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func toBookingView(b *domain.Booking) *bookingView {
	if b == nil {
		return nil
	}
	v := &bookingView{
		ID:              b.ID,
		BookingCode:     b.BookingCode,
		UserID:          b.UserID,
		ItemType:        string(b.Kind),
		RefID:           b.RefID,
		TravelDate:      b.TravelDate,
		Quantity:        b.Quantity,
		UnitPrice:       b.UnitPrice,
		TotalAmount:     b.TotalAmount,
		Currency:        b.Currency,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		SpecialRequests: b.SpecialRequests,
		Details:         b.Details,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Item != nil {
		v.Item = &bookingItemView{
			ItemType:            string(b.Item.Kind),
			RefID:               b.Item.RefID,
			TravelDate:          b.Item.TravelDate,
			OriginCity:          b.Item.OriginCity,
			DestinationCity:     b.Item.DestinationCity,
			OriginProvince:      b.Item.OriginProvince,
			DestinationProvince: b.Item.DestinationProvince,
			ServiceClass:        b.Item.ServiceClass,
			Provider:            b.Item.Provider,
			RoomTypeName:        b.Item.RoomTypeName,
		}
	}
	return v
}

func toBookingViews(bookings []*domain.Booking) []*bookingView {
	views := make([]*bookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, toBookingView(b))
	}
	return views
}

type createBookingData struct {
	BookingDetails *bookingView        `json:"bookingDetails"`
	PaymentDetails *port.PaymentResult `json:"paymentDetails"`
}
