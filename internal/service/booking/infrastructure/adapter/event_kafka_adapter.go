package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/pkg/mq"
	"travelbooking/internal/service/booking/domain"
)

// EventKafkaAdapter implements port.EventPublisher on a kafka topic. Messages
// are keyed by user id so one user's events stay ordered.
type EventKafkaAdapter struct {
	writer *kafka.Writer
}

func NewEventKafkaAdapter(writer *kafka.Writer) *EventKafkaAdapter {
	return &EventKafkaAdapter{writer: writer}
}

func (a *EventKafkaAdapter) Publish(ctx context.Context, event domain.BookingEvent) error {
	key, value, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if err := mq.ProduceMessage(ctx, a.writer, key, value); err != nil {
		return errors.Wrapf(err, "publish %s for booking %d", event.Type, event.BookingID)
	}
	return nil
}

func (a *EventKafkaAdapter) Close() error {
	return a.writer.Close()
}

func encodeEvent(event domain.BookingEvent) (key, value []byte, err error) {
	value, err = json.Marshal(event)
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal booking event")
	}
	return []byte(event.UserID), value, nil
}

// NoopEventPublisher is used when kafka is not configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	logger.Ctx(ctx).Debug().Str("type", string(event.Type)).Uint64("booking_id", event.BookingID).Msg("Event publishing disabled, dropping event")
	return nil
}
