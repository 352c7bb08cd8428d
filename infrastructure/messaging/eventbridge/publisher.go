// Package eventbridge forwards domain events to an EventBridge bus so other
// systems (progress dashboards, notification fan-out) can react to reviews.
package eventbridge

import (
	"context"
	"encoding/json"

	"studyforge/application/ports"
	"studyforge/domain/events"
	pkgerrors "studyforge/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const eventSource = "studyforge"

// Publisher implements ports.EventPublisher on EventBridge
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates a publisher targeting the named bus
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Publish forwards a single event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch forwards events in one PutEvents call
func (p *Publisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	entries := make([]types.PutEventsRequestEntry, 0, len(evts))
	for _, event := range evts {
		detail, err := json.Marshal(event)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to encode event %s", event.GetEventType())
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.busName),
			Source:       aws.String(eventSource),
			DetailType:   aws.String(event.GetEventType()),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.GetTimestamp()),
		})
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to publish events")
	}
	if out.FailedEntryCount > 0 {
		p.logger.Warn("Some events failed to publish",
			zap.Int32("failed", out.FailedEntryCount),
			zap.Int("total", len(entries)),
		)
	}
	return nil
}
