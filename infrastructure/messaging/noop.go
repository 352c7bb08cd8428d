package messaging

import (
	"context"

	"studyforge/application/ports"
	"studyforge/domain/events"
)

// NoopPublisher drops events. Used when no event bus is configured, so the
// application never branches on the feature flag.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards everything
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

var _ ports.EventPublisher = (*NoopPublisher)(nil)

// Publish discards the event
func (p *NoopPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return nil
}

// PublishBatch discards the events
func (p *NoopPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	return nil
}
