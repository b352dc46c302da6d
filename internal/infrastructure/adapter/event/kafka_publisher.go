// Package event delivers domain events to Kafka.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/event"
)

// messageWriter is the part of kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON encoded events keyed by user id, so one
// user's events stay ordered within a partition
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger coreport.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string, logger coreport.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, topic, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, logger coreport.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic, logger: logger}
}

// Publish encodes and writes events in one batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", ev.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatUint(ev.UserID, 10)),
			Value: payload,
			Time:  ev.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(ev.Type)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d events to %s: %w", len(msgs), p.topic, err)
	}

	p.logger.Debug("Published events", map[string]any{
		"topic": p.topic,
		"count": len(msgs),
	})
	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event; used when no brokers are configured
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that does nothing
func NewNoopPublisher() NoopPublisher {
	return NoopPublisher{}
}

// Publish discards events
func (NoopPublisher) Publish(context.Context, ...event.Event) error { return nil }

// Close does nothing
func (NoopPublisher) Close() error { return nil }

// NewPublisher picks Kafka when brokers are configured
func NewPublisher(brokers []string, topic string, logger coreport.Logger) event.Publisher {
	if len(brokers) == 0 {
		logger.Info("No event brokers configured, events are disabled", nil)
		return NewNoopPublisher()
	}
	logger.Info("Publishing events to Kafka", map[string]any{"brokers": brokers, "topic": topic})
	return NewKafkaPublisher(brokers, topic, logger)
}
