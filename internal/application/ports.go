package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/SoundHire-Cloud/service-booking/internal/platform/kafka"
)

// Transactor runs fn so that no other booking attempt for the same package
// can read availability or insert until fn returns. Repositories called
// with the ctx passed to fn take part in the same unit of work; if fn
// returns an error nothing it wrote is kept.
type Transactor interface {
	WithinPackageLock(ctx context.Context, packageID uuid.UUID, fn func(ctx context.Context) error) error
}

// EventPublisher publishes CloudEvents. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}
