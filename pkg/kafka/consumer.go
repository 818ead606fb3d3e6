package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"

	"slotline/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type MessageHandler func(ctx context.Context, msg Message) error

type Consumer struct {
	reader  *kafka.Reader
	topic   string
	handler MessageHandler
	log     *logger.Logger
}

func NewConsumer(brokers []string, topic, groupID string, handler MessageHandler, log *logger.Logger) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    1 << 20,
		StartOffset: kafka.LastOffset,
		Logger:      kafka.LoggerFunc(func(msg string, args ...any) {}),
	})

	return &Consumer{
		reader:  reader,
		topic:   topic,
		handler: handler,
		log:     log,
	}, nil
}

// Run consumes messages until ctx is cancelled or the reader is closed.
// Handler errors are logged and the message is skipped; reminder delivery is
// best-effort and never worth stalling the partition for.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		kmsg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read from %s: %w", c.topic, err)
		}

		msg := Message{
			Key:       string(kmsg.Key),
			Value:     kmsg.Value,
			Topic:     kmsg.Topic,
			Partition: kmsg.Partition,
			Offset:    kmsg.Offset,
			Timestamp: kmsg.Time,
			Headers:   make(map[string]string, len(kmsg.Headers)),
		}
		for _, h := range kmsg.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}

		if err := c.handler(ctx, msg); err != nil {
			c.log.Error("Message handler failed",
				"topic", c.topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
