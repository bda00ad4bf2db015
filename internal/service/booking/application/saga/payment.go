package saga

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

// InitiatePaymentStep creates the pending payment. A failure here leaves the
// booking in place without a payment reference: the error is kept on the
// context and the saga carries on.
type InitiatePaymentStep struct{}

func (InitiatePaymentStep) Name() string { return "InitiatePayment" }

func (InitiatePaymentStep) Execute(ctx context.Context, bc *BookingContext) error {
	method := bc.PaymentMethod
	if method == "" {
		method = bc.DefaultMethod
	}

	callCtx, cancel := bc.callContext(ctx)
	defer cancel()

	result, err := bc.Payments.InitiatePayment(callCtx, port.PaymentRequest{
		BookingID: bc.Booking.ID,
		UserID:    bc.UserID,
		Amount:    bc.Booking.TotalAmount,
		Method:    method,
	})
	if err != nil {
		bc.PaymentErr = domain.NewError(domain.CodePaymentInitiationFailed, "failed to initiate payment", err)
		trace.SpanFromContext(ctx).RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Uint64("booking_id", bc.Booking.ID).
			Msg("WARN: payment initiation failed, booking kept without payment reference")
		return nil
	}

	bc.Payment = result
	logger.Ctx(ctx).Info().Uint64("booking_id", bc.Booking.ID).Str("payment_id", result.PaymentID).Msg("Payment initiated")
	return nil
}
