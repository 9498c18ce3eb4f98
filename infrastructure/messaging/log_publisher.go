package messaging

import (
	"context"

	"go.uber.org/zap"

	"revshare/application/ports"
	"revshare/domain/events"
)

// LogPublisher records domain events on the structured log. The
// pipeline runs in one process with no broker behind it, so the log is
// the event sink; swapping in a real transport only means replacing
// this implementation.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher writing to the given logger
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish sends a single event
func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	if event == nil {
		return nil
	}

	p.logger.Info("domain event",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
		zap.Time("timestamp", event.GetTimestamp()),
		zap.Int("version", event.GetVersion()),
	)
	return nil
}

// PublishBatch sends multiple events
func (p *LogPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.EventPublisher = (*LogPublisher)(nil)
