package infrastructure

import (
	"fmt"
	"strings"
	"time"

	"travelbooking/internal/service/booking/domain"
)

const defaultOrder = "bookings.created_at DESC"

// sortColumns is the allow-list of sortable columns. Beyond created_at,
// total_amount, status and payment_status it takes updated_at, booking_code
// and the item travel_date.
var sortColumns = map[string]string{
	"created_at":     "bookings.created_at",
	"updated_at":     "bookings.updated_at",
	"total_amount":   "bookings.total_amount",
	"booking_code":   "bookings.booking_code",
	"status":         "bookings.status",
	"payment_status": "bookings.payment_status",
	"travel_date":    "booking_items.travel_date",
}

type condition struct {
	query string
	args  []interface{}
}

// filterConditions translates criteria into WHERE fragments over bookings
// LEFT JOIN booking_items. Empty fields produce nothing.
func filterConditions(c domain.FilterCriteria) ([]condition, error) {
	var conds []condition
	eq := func(column, value string) {
		if value != "" {
			conds = append(conds, condition{column + " = ?", []interface{}{value}})
		}
	}
	like := func(column, value string) {
		if value != "" {
			conds = append(conds, condition{column + " LIKE ?", []interface{}{"%" + value + "%"}})
		}
	}

	eq("bookings.user_id", c.UserID)
	like("bookings.booking_code", c.BookingCode)
	eq("bookings.status", string(c.Status))
	eq("bookings.payment_status", string(c.PaymentStatus))
	eq("booking_items.item_type", string(c.ItemType))

	if c.MinTotal != nil {
		conds = append(conds, condition{"bookings.total_amount >= ?", []interface{}{*c.MinTotal}})
	}
	if c.MaxTotal != nil {
		conds = append(conds, condition{"bookings.total_amount <= ?", []interface{}{*c.MaxTotal}})
	}

	if c.CreatedFrom != "" {
		from, err := time.Parse(domain.DateLayout, c.CreatedFrom)
		if err != nil {
			return nil, domain.NewError(domain.CodeInvalidRequest, fmt.Sprintf("invalid created_from: %q", c.CreatedFrom), err)
		}
		conds = append(conds, condition{"bookings.created_at >= ?", []interface{}{from}})
	}
	if c.CreatedTo != "" {
		to, err := time.Parse(domain.DateLayout, c.CreatedTo)
		if err != nil {
			return nil, domain.NewError(domain.CodeInvalidRequest, fmt.Sprintf("invalid created_to: %q", c.CreatedTo), err)
		}
		// inclusive of the whole end day
		conds = append(conds, condition{"bookings.created_at < ?", []interface{}{to.AddDate(0, 0, 1)}})
	}

	eq("booking_items.origin_city", c.OriginCity)
	eq("booking_items.destination_city", c.DestinationCity)
	eq("booking_items.origin_province", c.OriginProvince)
	eq("booking_items.destination_province", c.DestinationProvince)
	eq("booking_items.service_class", c.ServiceClass)
	like("booking_items.provider", c.Provider)

	for _, d := range []struct{ value, op, name string }{
		{c.TravelDateFrom, ">=", "travel_date_from"},
		{c.TravelDateTo, "<=", "travel_date_to"},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(domain.DateLayout, d.value); err != nil {
			return nil, domain.NewError(domain.CodeInvalidRequest, fmt.Sprintf("invalid %s: %q", d.name, d.value), err)
		}
		conds = append(conds, condition{"booking_items.travel_date " + d.op + " ?", []interface{}{d.value}})
	}
	return conds, nil
}

// orderClause resolves sortBy/sortOrder against the allow-list. Unknown
// columns fall back to newest first.
func orderClause(sortBy, sortOrder string) string {
	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		return defaultOrder
	}
	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(sortOrder), "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}
