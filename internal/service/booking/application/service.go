// internal/service/booking/application/service.go
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/pkg/metrics"
	"travelbooking/internal/pkg/pagination"
	"travelbooking/internal/service/booking/application/saga"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

// Options holds the timeouts and defaults of the booking workflow.
type Options struct {
	ProcessingTimeout    time.Duration
	CallTimeout          time.Duration
	CompensationTimeout  time.Duration
	DefaultPaymentMethod string
	DefaultCurrency      string
}

// BookingApplicationService orchestrates bookings across inventory, store and payment.
type BookingApplicationService struct {
	repo        domain.BookingRepository
	inventories port.InventoryRegistry
	payments    port.PaymentService
	events      port.EventPublisher
	tracer      trace.Tracer
	opts        Options
}

func NewBookingApplicationService(repo domain.BookingRepository, inventories port.InventoryRegistry, payments port.PaymentService, events port.EventPublisher, tracer trace.Tracer, opts Options) *BookingApplicationService {
	return &BookingApplicationService{
		repo: repo, inventories: inventories,
		payments: payments, events: events,
		tracer: tracer, opts: opts,
	}
}

// CreateBooking runs check → reserve → persist → pay as a saga. Failures after
// the reservation release it before the error is returned.
func (s *BookingApplicationService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateBooking")
	defer span.End()

	line, err := req.Validate()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid booking request")
		metrics.SagaTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}
	span.SetAttributes(
		attribute.String("user.id", req.UserID),
		attribute.String("inventory.kind", line.Kind.String()),
		attribute.String("inventory.ref_id", line.RefID),
		attribute.Int("inventory.quantity", line.Quantity),
	)

	inventory, err := s.inventories.For(line.Kind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no inventory adapter")
		metrics.SagaTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}

	processingCtx, cancel := context.WithTimeout(ctx, s.opts.ProcessingTimeout)
	defer cancel()

	bookingCtx := &saga.BookingContext{
		Ctx:             processingCtx,
		Tracer:          s.tracer,
		CallTimeout:     s.opts.CallTimeout,
		DefaultCurrency: s.opts.DefaultCurrency,
		DefaultMethod:   s.opts.DefaultPaymentMethod,
		UserID:          req.UserID,
		Line:            line,
		SpecialRequests: req.SpecialRequests,
		PaymentMethod:   req.PaymentMethod,
		Inventory:       inventory,
		Repo:            s.repo,
		Payments:        s.payments,
		Events:          s.events,
		NewEventID:      newEventID,
	}

	logger.Ctx(ctx).Info().Str("user", req.UserID).Str("kind", line.Kind.String()).Str("ref_id", line.RefID).
		Int("quantity", line.Quantity).Msg("Starting booking saga")

	executor := saga.NewExecutor(s.opts.CompensationTimeout, saga.CreateBookingSteps()...)
	compensated, err := executor.Run(bookingCtx)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if compensated {
			outcome = metrics.OutcomeCompensated
		}
		metrics.SagaTotal.WithLabelValues(outcome).Inc()

		span.RecordError(err)
		span.SetStatus(codes.Error, "booking saga failed")
		logger.Ctx(ctx).Error().Err(err).Str("code", string(domain.CodeOf(err))).Bool("compensated", compensated).Msg("Booking saga failed")
		return nil, err
	}

	metrics.SagaTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	span.AddEvent("Booking created")
	logger.Ctx(ctx).Info().Uint64("booking_id", bookingCtx.Booking.ID).Str("booking_code", bookingCtx.Booking.BookingCode).
		Bool("payment_initiated", bookingCtx.Payment != nil).Msg("SUCCESS: booking created")

	return &CreateBookingResult{
		Booking:      bookingCtx.Booking,
		Payment:      bookingCtx.Payment,
		PaymentError: bookingCtx.PaymentErr,
	}, nil
}

// CancelBooking marks the booking cancelled and then releases its inventory.
// Releases are best effort: a failed release is logged and the booking stays cancelled.
func (s *BookingApplicationService) CancelBooking(ctx context.Context, id uint64) error {
	ctx, span := s.tracer.Start(ctx, "app.CancelBooking")
	defer span.End()
	span.SetAttributes(attribute.Int64("booking.id", int64(id)))

	booking, err := s.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := booking.Cancel(); err != nil {
		return domain.NewError(domain.CodeNotFound, "booking not found or already cancelled", err)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	affected, err := s.repo.UpdateStatus(storeCtx, id, domain.StatusCancelled)
	cancel()
	if err != nil {
		span.RecordError(err)
		return domain.NewError(domain.CodePersistenceFailed, "failed to cancel booking", err)
	}
	if affected == 0 {
		return domain.NewError(domain.CodeNotFound, "booking not found or already cancelled", nil)
	}

	for _, line := range booking.InventoryLines() {
		s.releaseLine(ctx, booking, line)
	}

	s.publish(ctx, domain.EventBookingCancelled, booking)
	logger.Ctx(ctx).Info().Uint64("booking_id", id).Msg("Booking cancelled")
	return nil
}

func (s *BookingApplicationService) releaseLine(ctx context.Context, booking *domain.Booking, line domain.InventoryLine) {
	inventory, err := s.inventories.For(line.Kind)
	if err == nil {
		callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
		err = inventory.Release(callCtx, line)
		cancel()
	}
	if err != nil {
		metrics.InventoryReleaseFailures.WithLabelValues(line.Kind.String()).Inc()
		trace.SpanFromContext(ctx).RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Bool("critical", true).
			Uint64("booking_id", booking.ID).
			Str("kind", line.Kind.String()).
			Str("ref_id", line.RefID).
			Str("travel_date", line.TravelDate).
			Int("quantity", line.Quantity).
			Msg("CRITICAL: failed to release inventory for cancelled booking, manual cleanup required")
	}
}

// ModifyBooking is not supported.
func (s *BookingApplicationService) ModifyBooking(ctx context.Context, id uint64, _ map[string]any) error {
	return domain.NewError(domain.CodeNotImplemented, "modify booking functionality not yet implemented", nil)
}

func (s *BookingApplicationService) GetBooking(ctx context.Context, id uint64) (*domain.Booking, error) {
	return s.load(ctx, id)
}

func (s *BookingApplicationService) GetUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if userID == "" {
		return nil, domain.NewError(domain.CodeInvalidRequest, "missing user id", nil)
	}
	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "find bookings of user %s", userID)
	}
	return bookings, nil
}

func (s *BookingApplicationService) ListBookings(ctx context.Context, page pagination.Params) (*domain.BookingPage, error) {
	result, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}
	return result, nil
}

func (s *BookingApplicationService) FilterBookings(ctx context.Context, criteria domain.FilterCriteria, page pagination.Params) (*domain.BookingPage, error) {
	if criteria.ItemType != "" && !criteria.ItemType.Valid() {
		return nil, domain.NewError(domain.CodeInvalidRequest, fmt.Sprintf("unsupported item type: %q", criteria.ItemType), nil)
	}
	result, err := s.repo.Filter(ctx, criteria, page)
	if err != nil {
		return nil, errors.Wrap(err, "filter bookings")
	}
	return result, nil
}

// UpdatePaymentStatus applies a status reported by the payment lifecycle.
func (s *BookingApplicationService) UpdatePaymentStatus(ctx context.Context, id uint64, status domain.PaymentStatus) error {
	if !status.Valid() {
		return domain.NewError(domain.CodeInvalidRequest, fmt.Sprintf("unknown payment status: %q", status), nil)
	}
	affected, err := s.repo.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return domain.NewError(domain.CodePersistenceFailed, "failed to update payment status", err)
	}
	if affected == 0 {
		return domain.NewError(domain.CodeNotFound, fmt.Sprintf("booking %d not found", id), nil)
	}
	return nil
}

func (s *BookingApplicationService) load(ctx context.Context, id uint64) (*domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "load booking %d", id)
	}
	return booking, nil
}

func (s *BookingApplicationService) publish(ctx context.Context, t domain.EventType, booking *domain.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, domain.NewBookingEvent(newEventID(), t, booking)); err != nil {
		metrics.EventPublishFailures.WithLabelValues(string(t)).Inc()
		logger.Ctx(ctx).Error().Err(err).Uint64("booking_id", booking.ID).Str("type", string(t)).Msg("WARN: failed to publish booking event")
	}
}

func newEventID() string { return uuid.New().String() }
