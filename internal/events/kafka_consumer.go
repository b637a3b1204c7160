package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/SoundHire-Cloud/service-booking/internal/application"
	"github.com/SoundHire-Cloud/service-booking/internal/events/contract"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/kafka"
)

// BookingConfirmer is the part of the booking service the consumer drives.
type BookingConfirmer interface {
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*application.BookingDTO, error)
}

// PaymentEventConsumer listens to payment events and confirms bookings once
// their deposit has been received.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  BookingConfirmer
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service BookingConfirmer,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, contract.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case contract.PaymentDepositReceived:
		return c.handleDepositReceived(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

// handleDepositReceived confirms the booking. Redelivered events and events
// for cancelled or unknown bookings are acknowledged without retry; only
// storage failures are retried.
func (c *PaymentEventConsumer) handleDepositReceived(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt contract.DepositReceivedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse DepositReceivedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing deposit received event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	_, err := c.service.ConfirmBooking(ctx, evt.BookingID)
	if err == nil {
		c.logger.Info("booking confirmed after deposit",
			zap.String("booking_id", evt.BookingID.String()),
		)
		return nil
	}

	switch domain.CodeOf(err) {
	case domain.CodeInvalidState, domain.CodeNotFound:
		c.logger.Warn("deposit received for booking that cannot be confirmed",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return nil
	default:
		c.logger.Error("failed to confirm booking after deposit",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}
}
