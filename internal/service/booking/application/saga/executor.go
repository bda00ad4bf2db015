package saga

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/codes"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/pkg/metrics"
	"travelbooking/internal/service/booking/domain"
)

// Step is one forward action of the booking saga.
type Step interface {
	Name() string
	Execute(ctx context.Context, bc *BookingContext) error
}

// Compensable steps register their Compensate on the stack once Execute succeeds.
type Compensable interface {
	Step
	Compensate(ctx context.Context, bc *BookingContext) error
}

// CreateBookingSteps is the createBooking workflow: check, reserve, persist,
// pay, notify.
func CreateBookingSteps() []Step {
	return []Step{
		CheckAvailabilityStep{},
		ReserveInventoryStep{},
		PersistBookingStep{},
		InitiatePaymentStep{},
		NotificationStep{},
	}
}

// Executor runs steps strictly in order. When a step fails, the compensations
// of the steps that already succeeded are unwound in reverse order and the
// step's error is returned unchanged.
type Executor struct {
	steps               []Step
	compensationTimeout time.Duration
}

func NewExecutor(compensationTimeout time.Duration, steps ...Step) *Executor {
	return &Executor{steps: steps, compensationTimeout: compensationTimeout}
}

// Run executes the saga. The returned bool reports whether compensation ran.
func (e *Executor) Run(bc *BookingContext) (compensated bool, err error) {
	for _, step := range e.steps {
		if err := e.runStep(bc, step); err != nil {
			if bc.PendingCompensations() == 0 {
				return false, err
			}
			logger.Ctx(bc.Ctx).Warn().Err(err).Str("step", step.Name()).Msg("Saga step failed, compensation triggered")
			compCtx, cancel := e.compensationContext(bc.Ctx)
			bc.TriggerCompensation(compCtx)
			cancel()
			return true, err
		}

		if c, ok := step.(Compensable); ok {
			bc.AddCompensation(step.Name(), func(ctx context.Context) error {
				return c.Compensate(ctx, bc)
			})
		}
	}
	return false, nil
}

// runStep executes one step. A panicking step is reported as an INTERNAL
// error so the caller still unwinds the compensation stack.
func (e *Executor) runStep(bc *BookingContext, step Step) (err error) {
	ctx, span := bc.Tracer.Start(bc.Ctx, "saga."+step.Name())
	defer span.End()

	start := time.Now()
	err = e.execute(ctx, bc, step)

	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
		span.RecordError(err)
		span.SetStatus(codes.Error, step.Name()+" failed")
	}
	metrics.SagaStepDuration.WithLabelValues(step.Name(), result).Observe(time.Since(start).Seconds())
	return err
}

func (e *Executor) execute(ctx context.Context, bc *BookingContext, step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Ctx(ctx).Error().Str("step", step.Name()).Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Saga step panicked")
			err = domain.NewError(domain.CodeInternal, fmt.Sprintf("%s step panicked", step.Name()), fmt.Errorf("panic: %v", r))
		}
	}()
	return step.Execute(ctx, bc)
}

// compensationContext keeps trace and request values from ctx but not its
// deadline, so compensation still runs after the saga deadline fired.
func (e *Executor) compensationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if e.compensationTimeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, e.compensationTimeout)
}
