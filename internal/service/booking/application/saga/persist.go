package saga

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/service/booking/domain"
)

// PersistBookingStep writes the confirmed booking.
type PersistBookingStep struct{}

func (PersistBookingStep) Name() string { return "PersistBooking" }

func (PersistBookingStep) Execute(ctx context.Context, bc *BookingContext) error {
	booking := domain.NewBooking(bc.UserID, bc.Line, bc.Quote, bc.SpecialRequests)

	callCtx, cancel := bc.callContext(ctx)
	defer cancel()

	if _, err := bc.Repo.Create(callCtx, booking); err != nil {
		return domain.NewError(domain.CodePersistenceFailed, "failed to create booking record", err)
	}
	bc.Booking = booking

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("booking.id", int64(booking.ID)),
		attribute.String("booking.code", booking.BookingCode),
	)
	logger.Ctx(ctx).Info().Uint64("booking_id", booking.ID).Str("booking_code", booking.BookingCode).Msg("Booking persisted")
	return nil
}
