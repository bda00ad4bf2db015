package domain

import (
	"context"

	"travelbooking/internal/pkg/pagination"
)

// FilterCriteria narrows a booking listing. Empty fields are ignored.
type FilterCriteria struct {
	UserID              string
	BookingCode         string // substring match
	Status              Status
	PaymentStatus       PaymentStatus
	ItemType            Kind
	MinTotal            *float64
	MaxTotal            *float64
	CreatedFrom         string // YYYY-MM-DD, inclusive
	CreatedTo           string
	OriginCity          string
	DestinationCity     string
	OriginProvince      string
	DestinationProvince string
	ServiceClass        string
	Provider            string // substring match
	TravelDateFrom      string
	TravelDateTo        string

	SortBy    string
	SortOrder string
}

// BookingPage is one page of a listing.
type BookingPage struct {
	Items      []*Booking
	Pagination pagination.Meta
}

// BookingRepository is the Booking Store port.
type BookingRepository interface {
	// Create assigns the booking code, inserts the booking and its item, and
	// sets ID, BookingCode and timestamps on b.
	Create(ctx context.Context, b *Booking) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*Booking, error)
	FindByUser(ctx context.Context, userID string) ([]*Booking, error)
	List(ctx context.Context, page pagination.Params) (*BookingPage, error)
	Filter(ctx context.Context, criteria FilterCriteria, page pagination.Params) (*BookingPage, error)
	// UpdateStatus returns the number of rows changed. Cancelling only affects confirmed rows.
	UpdateStatus(ctx context.Context, id uint64, status Status) (int64, error)
	UpdatePaymentStatus(ctx context.Context, id uint64, status PaymentStatus) (int64, error)
}
