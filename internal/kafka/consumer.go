package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler receives decoded generation events.
type EventHandler func(ctx context.Context, event GenerationEvent) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads generation events of one consumer group. Offsets are
// committed only after the handler succeeded, so a crashed worker sees the
// event again.
type Consumer struct {
	reader messageReader
	log    *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume hands every generation event to handle until ctx is cancelled or
// handle fails. Malformed messages and foreign event types are committed and
// skipped.
func (c *Consumer) Consume(ctx context.Context, handle EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		event, err := DecodeGenerationEvent(msg)
		switch {
		case err != nil:
			c.log.Warn("skipping malformed event", zap.Int64("offset", msg.Offset), zap.Error(err))
		case event.Type != EventTypeGenerated:
			c.log.Debug("skipping event", zap.String("type", event.Type), zap.Int64("offset", msg.Offset))
		default:
			if err := handle(ctx, event); err != nil {
				return fmt.Errorf("handle event at offset %d: %w", msg.Offset, err)
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

func DecodeGenerationEvent(msg kafka.Message) (GenerationEvent, error) {
	var event GenerationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return GenerationEvent{}, fmt.Errorf("decode event at offset %d: %w", msg.Offset, err)
	}
	return event, nil
}
