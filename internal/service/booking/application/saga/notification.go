package saga

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/pkg/metrics"
	"travelbooking/internal/service/booking/domain"
)

// NotificationStep publishes booking.created. Publishing is off the critical
// path: a failure is logged and the saga still succeeds.
type NotificationStep struct{}

func (NotificationStep) Name() string { return "Notification" }

func (NotificationStep) Execute(ctx context.Context, bc *BookingContext) error {
	if bc.Events == nil || bc.Booking == nil {
		return nil
	}
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("messaging.system", "kafka"))

	eventID := ""
	if bc.NewEventID != nil {
		eventID = bc.NewEventID()
	}
	event := domain.NewBookingEvent(eventID, domain.EventBookingCreated, bc.Booking)

	callCtx, cancel := bc.callContext(ctx)
	defer cancel()

	if err := bc.Events.Publish(callCtx, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(string(event.Type)).Inc()
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Uint64("booking_id", bc.Booking.ID).Msg("WARN: failed to publish booking created event")
	}
	return nil
}
