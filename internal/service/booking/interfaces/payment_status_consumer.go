package interfaces

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/pkg/mq"
	"travelbooking/internal/service/booking/domain"
)

// PaymentStatusUpdater applies payment lifecycle changes to bookings.
type PaymentStatusUpdater interface {
	UpdatePaymentStatus(ctx context.Context, id uint64, status domain.PaymentStatus) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const maxRetryDelay = 30 * time.Second

// PaymentStatusConsumer listens on the payment-status topic and updates
// payment_status on the matching booking.
type PaymentStatusConsumer struct {
	reader     messageReader
	updater    PaymentStatusUpdater
	retryDelay time.Duration
}

func NewPaymentStatusConsumer(reader *kafka.Reader, updater PaymentStatusUpdater) *PaymentStatusConsumer {
	return &PaymentStatusConsumer{reader: reader, updater: updater, retryDelay: time.Second}
}

// Run consumes until ctx is cancelled. A message is committed once it is
// applied, malformed, or rejected for good (unknown status, unknown booking).
// Store failures are retried with backoff and the message stays uncommitted
// until one succeeds.
func (c *PaymentStatusConsumer) Run(ctx context.Context) error {
	logger.Ctx(ctx).Info().Msg("✅ Payment status consumer started.")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Ctx(ctx).Info().Msg("🛑 Payment status consumer shutting down.")
				return nil
			}
			logger.Ctx(ctx).Error().Err(err).Msg("could not read payment status message, retrying")
			if !c.sleep(ctx, c.retryDelay) {
				return nil
			}
			continue
		}

		if !c.process(ctx, msg) {
			logger.Ctx(ctx).Info().Int64("offset", msg.Offset).Msg("🛑 Payment status consumer shutting down before message was applied.")
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(ctx).Error().Err(err).Int64("offset", msg.Offset).Msg("failed to commit payment status message")
		}
	}
}

func (c *PaymentStatusConsumer) Close() error {
	return c.reader.Close()
}

// process applies msg, retrying transient failures until it succeeds, fails
// permanently or ctx ends. It reports whether msg may be committed.
func (c *PaymentStatusConsumer) process(ctx context.Context, msg kafka.Message) bool {
	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		err := c.handleMessage(ctx, msg)
		if err == nil || !retryable(err) {
			return true
		}
		logger.Ctx(ctx).Warn().Err(err).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("payment status not applied, retrying")
		if !c.sleep(ctx, delay) {
			return false
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (c *PaymentStatusConsumer) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// retryable is false for rejections that no retry can change.
func retryable(err error) bool {
	switch domain.CodeOf(err) {
	case domain.CodeInvalidRequest, domain.CodeNotFound:
		return false
	}
	return true
}

// handleMessage returns the update error. Malformed messages are logged and
// reported as handled.
func (c *PaymentStatusConsumer) handleMessage(parent context.Context, msg kafka.Message) error {
	ctx := mq.ExtractContext(parent, msg)

	var event domain.PaymentStatusChanged
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.BookingID == 0 {
		logger.Ctx(ctx).Error().Err(err).
			Str("key", string(msg.Key)).
			Str("value", string(msg.Value)).
			Msg("skipping malformed payment status message")
		return nil
	}

	if err := c.updater.UpdatePaymentStatus(ctx, event.BookingID, event.PaymentStatus); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Uint64("booking_id", event.BookingID).
			Str("payment_status", string(event.PaymentStatus)).
			Msg("failed to apply payment status")
		return err
	}
	logger.Ctx(ctx).Info().Uint64("booking_id", event.BookingID).Str("payment_status", string(event.PaymentStatus)).Msg("Payment status updated")
	return nil
}
