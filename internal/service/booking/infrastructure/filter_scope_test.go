package infrastructure

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travelbooking/internal/pkg/config"
	"travelbooking/internal/service/booking/domain"
)

func TestFilterConditions_Empty(t *testing.T) {
	conds, err := filterConditions(domain.FilterCriteria{})
	require.NoError(t, err)
	assert.Empty(t, conds)
}

func TestFilterConditions_AllFields(t *testing.T) {
	minTotal, maxTotal := 100.0, 500.0
	conds, err := filterConditions(domain.FilterCriteria{
		UserID:          "user-1",
		BookingCode:     "BK2025",
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentPaid,
		ItemType:        domain.KindHotel,
		MinTotal:        &minTotal,
		MaxTotal:        &maxTotal,
		CreatedFrom:     "2025-01-01",
		CreatedTo:       "2025-01-31",
		OriginCity:      "Jakarta",
		DestinationCity: "Bandung",
		ServiceClass:    "economy",
		Provider:        "Garuda",
		TravelDateFrom:  "2025-02-01",
		TravelDateTo:    "2025-02-28",
	})
	require.NoError(t, err)

	got := map[string]interface{}{}
	for _, c := range conds {
		require.Len(t, c.args, 1)
		got[c.query] = c.args[0]
	}

	assert.Equal(t, "user-1", got["bookings.user_id = ?"])
	assert.Equal(t, "%BK2025%", got["bookings.booking_code LIKE ?"])
	assert.Equal(t, "confirmed", got["bookings.status = ?"])
	assert.Equal(t, "paid", got["bookings.payment_status = ?"])
	assert.Equal(t, "hotel", got["booking_items.item_type = ?"])
	assert.Equal(t, 100.0, got["bookings.total_amount >= ?"])
	assert.Equal(t, 500.0, got["bookings.total_amount <= ?"])
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got["bookings.created_at >= ?"])
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), got["bookings.created_at < ?"])
	assert.Equal(t, "Jakarta", got["booking_items.origin_city = ?"])
	assert.Equal(t, "Bandung", got["booking_items.destination_city = ?"])
	assert.Equal(t, "economy", got["booking_items.service_class = ?"])
	assert.Equal(t, "%Garuda%", got["booking_items.provider LIKE ?"])
	assert.Equal(t, "2025-02-01", got["booking_items.travel_date >= ?"])
	assert.Equal(t, "2025-02-28", got["booking_items.travel_date <= ?"])
	assert.Len(t, conds, 15)
}

func TestFilterConditions_InvalidDates(t *testing.T) {
	for _, c := range []domain.FilterCriteria{
		{CreatedFrom: "yesterday"},
		{CreatedTo: "2025/01/01"},
		{TravelDateFrom: "01-02-2025"},
		{TravelDateTo: "2025-13-01"},
	} {
		_, err := filterConditions(c)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest, "%+v", c)
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sortBy, sortOrder, expected string
	}{
		{"", "", "bookings.created_at DESC"},
		{"total_amount", "asc", "bookings.total_amount ASC"},
		{"TOTAL_AMOUNT", "ASC", "bookings.total_amount ASC"},
		{"travel_date", "desc", "booking_items.travel_date DESC"},
		{"status", "sideways", "bookings.status DESC"},
		{"id; DROP TABLE bookings", "asc", "bookings.created_at DESC"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.sortBy, tt.sortOrder), func(t *testing.T) {
			assert.Equal(t, tt.expected, orderClause(tt.sortBy, tt.sortOrder))
		})
	}
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(fmt.Errorf("insert: %w", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})))
	assert.False(t, isDuplicateKey(&mysqldriver.MySQLError{Number: 1213, Message: "Deadlock"}))
	assert.False(t, isDuplicateKey(gorm.ErrRecordNotFound))
}

func TestMapper_RoundTripKeepsItemAttributes(t *testing.T) {
	details := json.RawMessage(`{"origin_city":"Jakarta","destination_city":"Surabaya","provider":"KAI","service_class":"executive"}`)
	b := domain.NewBooking("user-1", domain.InventoryLine{
		Kind: domain.KindTrain, RefID: "TR-9", TravelDate: "2025-03-10", Quantity: 3, Details: details,
	}, domain.Quote{UnitPrice: 250000, Currency: "IDR"}, "window seat")
	b.Item = nil

	model, item := fromDomainBooking(b)
	assert.Equal(t, "train", model.ItemType)
	assert.Equal(t, 750000.0, model.TotalAmount)
	assert.Equal(t, "Jakarta", item.OriginCity)
	assert.Equal(t, "KAI", item.Provider)

	model.ID = 11
	model.Item = item
	back := toDomainBooking(model)
	assert.Equal(t, uint64(11), back.ID)
	assert.Equal(t, domain.KindTrain, back.Kind)
	assert.Equal(t, domain.PaymentPending, back.PaymentStatus)
	assert.JSONEq(t, string(details), string(back.Details))
	require.NotNil(t, back.Item)
	assert.Equal(t, "executive", back.Item.ServiceClass)
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t, "custom", BuildDSN(config.MySQLConfig{DSN: "custom"}))

	dsn := BuildDSN(config.MySQLConfig{Host: "db", Port: 3307, User: "booking", Password: "secret", Database: "travel_booking"})
	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3307", parsed.Addr)
	assert.Equal(t, "booking", parsed.User)
	assert.Equal(t, "travel_booking", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)
}
