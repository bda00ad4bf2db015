package saga

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/pkg/metrics"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

// BookingContext carries the input, collaborators and intermediate results of
// one createBooking execution.
type BookingContext struct {
	Ctx    context.Context
	Tracer trace.Tracer

	// CallTimeout bounds every collaborator call made by a step.
	CallTimeout     time.Duration
	DefaultCurrency string
	DefaultMethod   string

	UserID          string
	Line            domain.InventoryLine
	SpecialRequests string
	PaymentMethod   string

	Inventory  port.Inventory
	Repo       domain.BookingRepository
	Payments   port.PaymentService
	Events     port.EventPublisher
	NewEventID func() string

	Quote      domain.Quote
	Booking    *domain.Booking
	Payment    *port.PaymentResult
	PaymentErr error

	compensations []compensation
	compLock      sync.Mutex
}

type compensation struct {
	step string
	fn   func(ctx context.Context) error
}

// callContext derives the per-call deadline for one collaborator call.
func (c *BookingContext) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.CallTimeout)
}

// AddCompensation pushes fn on top of the compensation stack.
func (c *BookingContext) AddCompensation(step string, fn func(ctx context.Context) error) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]compensation{{step: step, fn: fn}}, c.compensations...)
}

// PendingCompensations is the number of compensations not yet run.
func (c *BookingContext) PendingCompensations() int {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	return len(c.compensations)
}

// TriggerCompensation runs the stack newest-first and empties it, so each
// compensation runs at most once. A failing compensation is logged as critical
// and does not stop the others. It returns the number of failures.
func (c *BookingContext) TriggerCompensation(ctx context.Context) int {
	c.compLock.Lock()
	pending := c.compensations
	c.compensations = nil
	c.compLock.Unlock()

	if len(pending) == 0 {
		return 0
	}

	logger.Ctx(ctx).Info().Str("user", c.UserID).Int("count", len(pending)).Msg("Executing compensation functions")

	failures := 0
	for _, comp := range pending {
		compCtx, span := c.Tracer.Start(ctx, "saga.compensation."+comp.step)
		span.SetAttributes(
			attribute.String("inventory.kind", c.Line.Kind.String()),
			attribute.String("inventory.ref_id", c.Line.RefID),
			attribute.Int("inventory.quantity", c.Line.Quantity),
		)

		if err := comp.fn(compCtx); err != nil {
			failures++
			span.RecordError(err, trace.WithAttributes(attribute.Bool("critical.error", true)))
			span.SetStatus(codes.Error, "compensation failed")
			metrics.Compensations.WithLabelValues(comp.step, metrics.ResultError).Inc()
			logger.Ctx(compCtx).Error().Err(err).
				Bool("critical", true).
				Str("step", comp.step).
				Str("kind", c.Line.Kind.String()).
				Str("ref_id", c.Line.RefID).
				Str("travel_date", c.Line.TravelDate).
				Int("quantity", c.Line.Quantity).
				Msg("CRITICAL: compensation failed, manual cleanup required")
		} else {
			metrics.Compensations.WithLabelValues(comp.step, metrics.ResultOK).Inc()
			logger.Ctx(compCtx).Info().Str("step", comp.step).Str("ref_id", c.Line.RefID).Msg("Compensation succeeded")
		}
		span.End()
	}
	return failures
}
