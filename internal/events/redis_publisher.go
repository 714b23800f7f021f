package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StreamAdder is the subset of a go-redis client used by RedisStreamPublisher.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStreamPublisher appends event envelopes to a Redis stream.
type RedisStreamPublisher struct {
	client StreamAdder
	stream string
	maxLen int64
}

// NewRedisStreamPublisher creates a publisher writing to stream. A positive
// maxLen caps the stream length approximately.
func NewRedisStreamPublisher(client StreamAdder, stream string, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

// Publish adds one stream entry per event.
func (p *RedisStreamPublisher) Publish(ctx context.Context, event Event) error {
	env := NewEnvelope(event)
	payload, err := env.Marshal()
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":         env.Type,
			"aggregate_id": env.AggregateID,
			"payload":      string(payload),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis: xadd %s: %w", env.Type, err)
	}
	return nil
}
