package saga

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

// ReserveInventoryStep decrements inventory. Its compensation releases the
// same line with the same quantity.
type ReserveInventoryStep struct{}

func (ReserveInventoryStep) Name() string { return "ReserveInventory" }

func (ReserveInventoryStep) Execute(ctx context.Context, bc *BookingContext) error {
	line := bc.Line
	callCtx, cancel := bc.callContext(ctx)
	defer cancel()

	if err := bc.Inventory.Reserve(callCtx, line); err != nil {
		msg := fmt.Sprintf("failed to reserve %s %s", line.Kind, line.RefID)
		if errors.Is(err, port.ErrNotReserved) {
			msg = fmt.Sprintf("%s %s could not be reserved: availability changed", line.Kind, line.RefID)
		}
		return domain.NewError(domain.CodeReservationFailed, msg, err)
	}

	trace.SpanFromContext(ctx).AddEvent("Inventory reserved")
	logger.Ctx(ctx).Info().Str("kind", line.Kind.String()).Str("ref_id", line.RefID).Int("quantity", line.Quantity).Msg("Inventory reserved")
	return nil
}

func (ReserveInventoryStep) Compensate(ctx context.Context, bc *BookingContext) error {
	callCtx, cancel := bc.callContext(ctx)
	defer cancel()

	logger.Ctx(ctx).Info().Str("kind", bc.Line.Kind.String()).Str("ref_id", bc.Line.RefID).Msg("Releasing reserved inventory")
	return bc.Inventory.Release(callCtx, bc.Line)
}
