package repository

import (
	"context"
	"time"

	pkgkafka "MarketPulse/pkg/kafka"
)

// KafkaPublisher emits domain events to the events topic. Messages are
// keyed by entity id so events for one entity stay ordered.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a publisher bound to one topic.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

type eventEnvelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, event string, key string, payload any) error {
	return p.producer.Publish(ctx, p.topic, []byte(key), eventEnvelope{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

// NopPublisher discards events; used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }
