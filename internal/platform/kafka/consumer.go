package kafka

import (
	"context"
	"errors"
	"io"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes one message. A non-nil error causes the message
// to be retried before it is committed.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

const (
	maxHandlerAttempts = 3
	fetchRetryDelay    = time.Second
)

// messageReader is the subset of *kafkago.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads one topic as part of a consumer group.
type Consumer struct {
	reader messageReader
	logger *zap.Logger
}

// NewConsumer creates a group consumer for topic.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  500 * time.Millisecond,
		}),
		logger: logger,
	}
}

// Consume fetches messages until ctx is done or the reader is closed. Each
// message is handed to handler, retried with a linear backoff, and committed
// afterwards even when every attempt failed so a poison message cannot block
// the partition. Fetch errors are retried after fetchRetryDelay.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			c.logger.Error("failed to fetch message", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		var handleErr error
		for attempt := 1; attempt <= maxHandlerAttempts; attempt++ {
			if handleErr = handler(ctx, msg); handleErr == nil {
				break
			}
			c.logger.Warn("message handler failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Int("attempt", attempt),
				zap.Error(handleErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}
		if handleErr != nil {
			c.logger.Error("dropping message after retries",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(handleErr),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit message", zap.Error(err))
		}
	}
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
