package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	application "kolekta/contexts/collections-core/collection-workflow/application"
	"kolekta/contexts/collections-core/collection-workflow/ports"
	bustransport "kolekta/contexts/collections-core/collection-workflow/transport/bus"
)

const defaultConsumerGroup = "collection-workflow-collaborators-cg"

// CollaboratorConsumer drains the dispatched side effects with bounded
// retry: at-least-once delivery, never feeding back into the recording
// transaction.
type CollaboratorConsumer struct {
	Subscriber    ports.EventSubscriber
	Executor      ports.CollaboratorExecutor
	ConsumerGroup string
	MaxAttempts   int
	RetryDelay    time.Duration
	Logger        *slog.Logger
}

func (c CollaboratorConsumer) Start(ctx context.Context) error {
	group := c.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}

	if err := c.Subscriber.Subscribe(ctx, bustransport.TopicDialerRemoval, group, c.handleDialerRemoval); err != nil {
		return err
	}
	return c.Subscriber.Subscribe(ctx, bustransport.TopicVendorAssignment, group, c.handleVendorAssignment)
}

func (c CollaboratorConsumer) handleDialerRemoval(ctx context.Context, event ports.EventEnvelope) error {
	var payload bustransport.DialerRemovalPayload
	if err := decodePayload(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode dialer removal payload: %w", err)
	}
	if payload.InstallmentID == "" {
		payload.InstallmentID = event.EntityID
	}
	return c.withRetry(ctx, event, func(ctx context.Context) error {
		return c.Executor.RemoveFromDialerQueue(ctx, payload.InstallmentID)
	})
}

func (c CollaboratorConsumer) handleVendorAssignment(ctx context.Context, event ports.EventEnvelope) error {
	var payload bustransport.VendorAssignmentPayload
	if err := decodePayload(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode vendor assignment payload: %w", err)
	}
	if payload.InstallmentID == "" {
		payload.InstallmentID = event.EntityID
	}
	return c.withRetry(ctx, event, func(ctx context.Context) error {
		return c.Executor.AssignVendor(ctx, payload.InstallmentID, payload.AgentID)
	})
}

func (c CollaboratorConsumer) withRetry(ctx context.Context, event ports.EventEnvelope, deliver func(context.Context) error) error {
	logger := application.ResolveLogger(c.Logger)
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := c.RetryDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = deliver(ctx); err == nil {
			return nil
		}
		logger.Warn("collaborator delivery attempt failed",
			"event", "collaborator_delivery_retry",
			"module", "collections-core/collection-workflow",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"attempt", attempt,
			"error", err.Error(),
		)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	logger.Error("collaborator delivery exhausted retries",
		"event", "collaborator_delivery_failed",
		"module", "collections-core/collection-workflow",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"error", err.Error(),
	)
	return err
}

// decodePayload accepts both the in-process typed payload and the JSON
// form an external broker would deliver.
func decodePayload(payload any, target any) error {
	switch value := payload.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(value, target)
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, target)
	}
}
