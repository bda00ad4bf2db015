package saga

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

// CheckAvailabilityStep fetches the daily status and fixes the price. Nothing
// is mutated, so it has no compensation.
type CheckAvailabilityStep struct{}

func (CheckAvailabilityStep) Name() string { return "CheckAvailability" }

func (CheckAvailabilityStep) Execute(ctx context.Context, bc *BookingContext) error {
	line := bc.Line
	logger.Ctx(ctx).Debug().Str("kind", line.Kind.String()).Str("ref_id", line.RefID).Str("date", line.TravelDate).Msg("Checking availability")

	callCtx, cancel := bc.callContext(ctx)
	defer cancel()

	status, err := bc.Inventory.DailyStatus(callCtx, line)
	if err != nil {
		if errors.Is(err, port.ErrNoDailyStatus) {
			return domain.NewError(domain.CodeInsufficientInventory,
				fmt.Sprintf("%s %s has no availability on %s", line.Kind, line.RefID, line.TravelDate), err)
		}
		return domain.NewError(domain.CodeInventoryUnavailable,
			fmt.Sprintf("failed to check %s availability", line.Kind), err)
	}
	if status == nil || status.Price < 0 || status.AvailableQuantity < 0 {
		return domain.NewError(domain.CodeInventoryUnavailable,
			fmt.Sprintf("malformed %s daily status for %s", line.Kind, line.RefID), nil)
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("inventory.available", status.AvailableQuantity),
		attribute.Float64("inventory.price", status.Price),
	)

	if status.AvailableQuantity < line.Quantity {
		return domain.NewError(domain.CodeInsufficientInventory,
			fmt.Sprintf("%s %s does not have enough availability: requested %d, available %d",
				line.Kind, line.RefID, line.Quantity, status.AvailableQuantity), nil)
	}

	currency := status.Currency
	if currency == "" {
		currency = bc.DefaultCurrency
	}
	bc.Quote = domain.Quote{UnitPrice: status.Price, Currency: currency}
	if status.RoomType != "" {
		bc.Line.RoomType = status.RoomType
	}
	return nil
}
