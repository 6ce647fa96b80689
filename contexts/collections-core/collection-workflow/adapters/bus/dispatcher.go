// Package busadapter publishes the orchestrator's fire-and-forget
// collaborator calls onto the platform event bus; the worker consumes and
// retries them outside the recording unit.
package busadapter

import (
	"context"
	"log/slog"
	"time"

	"kolekta/contexts/collections-core/collection-workflow/ports"
	bustransport "kolekta/contexts/collections-core/collection-workflow/transport/bus"
	"kolekta/internal/shared/events"

	"github.com/google/uuid"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type EnvelopeSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, events.Envelope) error) error
}

// Subscriber bridges the platform bus to the module's consumer port.
type Subscriber struct {
	Bus EnvelopeSubscriber
}

func (s Subscriber) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	return s.Bus.Subscribe(ctx, topic, consumerGroup, func(ctx context.Context, event events.Envelope) error {
		return handler(ctx, ports.EventEnvelope{
			EventID:        event.EventID,
			EventType:      event.EventType,
			SourceService:  event.SourceService,
			OccurredAtUTC:  event.OccurredAtUTC,
			EntityType:     event.EntityType,
			EntityID:       event.EntityID,
			PayloadVersion: event.PayloadVersion,
			Payload:        event.Payload,
		})
	})
}

type Dispatcher struct {
	Publisher     Publisher
	SourceService string
	Logger        *slog.Logger
}

func (d Dispatcher) DialerQueueRemoval(ctx context.Context, installmentID string) error {
	return d.Publisher.Publish(ctx, bustransport.TopicDialerRemoval, d.envelope(
		bustransport.EventTypeDialerRemovalRequested,
		installmentID,
		bustransport.DialerRemovalPayload{InstallmentID: installmentID},
	))
}

func (d Dispatcher) VendorAutoAssignment(ctx context.Context, installmentID string, agentID string) error {
	return d.Publisher.Publish(ctx, bustransport.TopicVendorAssignment, d.envelope(
		bustransport.EventTypeVendorAssignmentRequested,
		installmentID,
		bustransport.VendorAssignmentPayload{InstallmentID: installmentID, AgentID: agentID},
	))
}

func (d Dispatcher) envelope(eventType string, installmentID string, payload any) events.Envelope {
	return events.Envelope{
		EventID:        uuid.NewString(),
		EventType:      eventType,
		SourceService:  d.SourceService,
		OccurredAtUTC:  time.Now().UTC(),
		EntityType:     "installment",
		EntityID:       installmentID,
		PayloadVersion: 1,
		Payload:        payload,
	}
}
