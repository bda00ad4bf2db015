package port

import (
	"context"

	"travelbooking/internal/service/booking/domain"
)

// EventPublisher emits booking lifecycle events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// CodeGenerator produces human-facing booking codes.
type CodeGenerator interface {
	NextCode(ctx context.Context) (string, error)
}
