package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher records each event through the structured logger. It is the
// default publisher; nothing leaves the process.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event envelope.
func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := NewEnvelope(event)
	p.logger.Info("domain event published",
		zap.String("event", env.Type),
		zap.String("aggregate_id", env.AggregateID),
		zap.Time("occurred_at", env.OccurredAt),
		zap.Any("data", env.Payload),
	)
	return nil
}
