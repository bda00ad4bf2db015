package port

import (
	"context"
	"errors"
	"fmt"

	"travelbooking/internal/service/booking/domain"
)

var (
	// ErrNoDailyStatus means the inventory service has no availability row for the date.
	ErrNoDailyStatus = errors.New("no daily status for the requested date")
	// ErrNotReserved means the conditional decrement matched no row (lost race or sold out).
	ErrNotReserved = errors.New("inventory decrement affected no rows")
)

// DailyStatus is the date-scoped price and availability of one inventory item.
type DailyStatus struct {
	Price             float64
	AvailableQuantity int
	Currency          string
	// RoomType is set by hotel inventories to the room type that was priced.
	RoomType string
}

// Inventory is the capability every inventory kind exposes to the orchestrator.
type Inventory interface {
	DailyStatus(ctx context.Context, line domain.InventoryLine) (*DailyStatus, error)
	// Reserve is an atomic compare-and-decrement in the inventory service.
	Reserve(ctx context.Context, line domain.InventoryLine) error
	// Release credits the line back. It is not idempotent.
	Release(ctx context.Context, line domain.InventoryLine) error
}

// InventoryRegistry holds one adapter per kind. For is an exhaustive switch
// over the closed set of kinds.
type InventoryRegistry struct {
	Flight      Inventory
	Hotel       Inventory
	Train       Inventory
	LocalTravel Inventory
}

func (r InventoryRegistry) For(kind domain.Kind) (Inventory, error) {
	var inv Inventory
	switch kind {
	case domain.KindFlight:
		inv = r.Flight
	case domain.KindHotel:
		inv = r.Hotel
	case domain.KindTrain:
		inv = r.Train
	case domain.KindLocalTravel:
		inv = r.LocalTravel
	default:
		return nil, domain.NewError(domain.CodeInvalidRequest, fmt.Sprintf("unsupported booking type: %q", kind), nil)
	}
	if inv == nil {
		return nil, fmt.Errorf("no inventory adapter configured for %s", kind)
	}
	return inv, nil
}
