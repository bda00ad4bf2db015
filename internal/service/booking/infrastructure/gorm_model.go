package infrastructure

import "time"

// BookingModel maps the bookings table.
type BookingModel struct {
	ID              uint64  `gorm:"primaryKey;autoIncrement"`
	BookingCode     string  `gorm:"size:32;uniqueIndex"`
	UserID          string  `gorm:"size:64;index"`
	ItemType        string  `gorm:"size:32"`
	RefID           string  `gorm:"size:64"`
	TravelDate      string  `gorm:"size:10"`
	Quantity        int
	UnitPrice       float64 `gorm:"type:decimal(14,2)"`
	TotalAmount     float64 `gorm:"type:decimal(14,2)"`
	Currency        string  `gorm:"size:3"`
	PaymentStatus   string  `gorm:"size:16;default:pending"`
	Status          string  `gorm:"size:16;index"`
	SpecialRequests string  `gorm:"type:text"`
	Details         []byte  `gorm:"type:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Item *BookingItemModel `gorm:"foreignKey:BookingID"`
}

func (BookingModel) TableName() string {
	return "bookings"
}

// BookingItemModel maps booking_items, the filterable attributes of the
// inventory line a booking consumed.
type BookingItemModel struct {
	ID                  uint64 `gorm:"primaryKey;autoIncrement"`
	BookingID           uint64 `gorm:"uniqueIndex"`
	ItemType            string `gorm:"size:32;index"`
	RefID               string `gorm:"size:64"`
	TravelDate          string `gorm:"size:10;index"`
	OriginCity          string `gorm:"size:128"`
	DestinationCity     string `gorm:"size:128"`
	OriginProvince      string `gorm:"size:128"`
	DestinationProvince string `gorm:"size:128"`
	ServiceClass        string `gorm:"size:64"`
	Provider            string `gorm:"size:128"`
	RoomTypeName        string `gorm:"size:128"`
	CreatedAt           time.Time
}

func (BookingItemModel) TableName() string {
	return "booking_items"
}
