package events

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaProducer is the subset of *kgo.Client used by KafkaPublisher.
type KafkaProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher writes event envelopes to a Kafka topic keyed by aggregate
// id, so every event of one sale lands on the same partition in order.
type KafkaPublisher struct {
	producer KafkaProducer
	topic    string
}

// NewKafkaPublisher creates a publisher over an existing producer.
func NewKafkaPublisher(producer KafkaProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// NewKafkaClient builds a franz-go client for brokers.
func NewKafkaClient(brokers []string, topic string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no seed brokers configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka: create client: %w", err)
	}
	return client, nil
}

// Publish produces the event synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	env := NewEnvelope(event)
	value, err := env.Marshal()
	if err != nil {
		return err
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(env.AggregateID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(env.Type)},
		},
	}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka: produce %s: %w", env.Type, err)
	}
	return nil
}
