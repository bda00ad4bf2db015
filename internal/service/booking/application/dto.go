package application

import (
	"encoding/json"
	"strings"
	"time"

	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

// CreateBookingRequest is the input of CreateBooking.
type CreateBookingRequest struct {
	UserID          string
	Type            string
	RefID           string
	TravelDate      string
	Quantity        int
	PaymentMethod   string
	SpecialRequests string
	Details         json.RawMessage
}

// Validate checks the request before any collaborator is called and returns
// the inventory line it describes.
func (r *CreateBookingRequest) Validate() (domain.InventoryLine, error) {
	var missing []string
	if strings.TrimSpace(r.UserID) == "" {
		missing = append(missing, "userId")
	}
	if strings.TrimSpace(r.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(r.RefID) == "" {
		missing = append(missing, "refId")
	}
	if strings.TrimSpace(r.TravelDate) == "" {
		missing = append(missing, "travelDate")
	}
	if len(missing) > 0 {
		return domain.InventoryLine{}, domain.NewError(domain.CodeInvalidRequest,
			"missing required booking information: "+strings.Join(missing, ", "), nil)
	}
	if r.Quantity <= 0 {
		return domain.InventoryLine{}, domain.NewError(domain.CodeInvalidRequest, "quantity must be a positive integer", nil)
	}

	kind, err := domain.ParseKind(r.Type)
	if err != nil {
		return domain.InventoryLine{}, err
	}
	if _, err := time.Parse(domain.DateLayout, r.TravelDate); err != nil {
		return domain.InventoryLine{}, domain.NewError(domain.CodeInvalidRequest, "travelDate must be formatted as YYYY-MM-DD", err)
	}
	if len(r.Details) > 0 && !json.Valid(r.Details) {
		return domain.InventoryLine{}, domain.NewError(domain.CodeInvalidRequest, "details must be valid JSON", nil)
	}

	return domain.InventoryLine{
		Kind:       kind,
		RefID:      strings.TrimSpace(r.RefID),
		TravelDate: r.TravelDate,
		Quantity:   r.Quantity,
		Details:    r.Details,
	}, nil
}

// CreateBookingResult is returned on success. Payment is nil when payment
// initiation failed; PaymentError then holds the reason.
type CreateBookingResult struct {
	Booking      *domain.Booking
	Payment      *port.PaymentResult
	PaymentError error
}
