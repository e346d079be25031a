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

const EventTypeGenerated = "dummy.generated"

// GenerationEvent is published after rows were written to a table.
type GenerationEvent struct {
	Type      string    `json:"type"`
	Table     string    `json:"table"`
	Count     int       `json:"count"`
	Mode      string    `json:"mode"`
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	brokers  []string
	writer   messageWriter
	attempts int
	backoff  time.Duration
	log      *zap.Logger
}

type ProducerOption func(*Producer)

// WithAttempts sets how many times a message is written before Publish gives up.
func WithAttempts(n int) ProducerOption {
	return func(p *Producer) {
		if n > 0 {
			p.attempts = n
		}
	}
}

func NewProducer(brokers []string, log *zap.Logger, opts ...ProducerOption) *Producer {
	p := &Producer{
		brokers: brokers,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		attempts: 1,
		backoff:  500 * time.Millisecond,
		log:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes payload as JSON under key. Events of one table share a key,
// so the hash balancer keeps them in one partition and in order.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	var lastErr error
	for i := 0; i < p.attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(ctx.Err(), lastErr)
			case <-time.After(time.Duration(i) * p.backoff):
			}
		}

		lastErr = p.writer.WriteMessages(ctx, msg)
		if lastErr == nil {
			p.log.Debug("published to kafka", zap.String("topic", topic), zap.String("key", key))
			return nil
		}
		p.log.Warn("kafka publish attempt failed", zap.Int("attempt", i+1), zap.Error(lastErr))
	}
	return fmt.Errorf("failed to write message to Kafka after %d attempts: %w", p.attempts, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and reads its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	p.log.Info("connected to kafka", zap.Int("partitions", len(partitions)))
	return nil
}
