package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"kolekta/contexts/collections-core/payment-ledger/domain/entities"
	domainerrors "kolekta/contexts/collections-core/payment-ledger/domain/errors"
	"kolekta/contexts/collections-core/payment-ledger/ports"
)

type Service struct {
	Events ports.EventRepository
	Recalc ports.StatusRecalculator
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// PostEvent appends a ledger event and updates the derived balances in
// one atomic unit, including the status-recalculation collaborator call.
func (s Service) PostEvent(ctx context.Context, installmentID string, eventType entities.EventType, amount int64, metadata map[string]string) (ports.PostEventResult, error) {
	installmentID = strings.TrimSpace(installmentID)
	if installmentID == "" || amount <= 0 || !entities.SupportedEventType(eventType) {
		return ports.PostEventResult{}, domainerrors.ErrInvalidInput
	}

	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.PostEventResult{}, err
	}
	result, err := s.Events.PostEvent(ctx, entities.PaymentEvent{
		EventID:       eventID,
		InstallmentID: installmentID,
		Type:          eventType,
		Amount:        amount,
		Metadata:      metadata,
		CreatedAt:     s.now(),
	}, s.Recalc)
	if err != nil {
		return ports.PostEventResult{}, err
	}

	ResolveLogger(s.Logger).Info("payment event posted",
		"event", "payment_event_posted",
		"module", "collections-core/payment-ledger",
		"layer", "application",
		"installment_id", installmentID,
		"event_id", result.Event.EventID,
		"event_type", string(eventType),
		"amount", amount,
		"outstanding", result.Outstanding,
	)
	return result, nil
}

// Void negates a posted event with a compensating record. A misapplied
// payment with a destination additionally posts the amount onto the
// destination installment; across different capital providers the two
// writes are linked by a transfer record, all in one atomic unit.
func (s Service) Void(ctx context.Context, eventID string, reason string, destinationInstallmentID string) (entities.VoidEvent, error) {
	eventID = strings.TrimSpace(eventID)
	reason = strings.TrimSpace(reason)
	destinationInstallmentID = strings.TrimSpace(destinationInstallmentID)
	if eventID == "" || reason == "" {
		return entities.VoidEvent{}, domainerrors.ErrInvalidInput
	}

	original, err := s.Events.GetEvent(ctx, eventID)
	if err != nil {
		return entities.VoidEvent{}, err
	}
	if !entities.SupportedEventType(original.Type) {
		return entities.VoidEvent{}, domainerrors.ErrUnsupportedEventType
	}
	if original.Voided {
		return entities.VoidEvent{}, domainerrors.ErrAlreadyVoided
	}

	voidID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.VoidEvent{}, err
	}
	now := s.now()
	input := ports.VoidEventInput{
		Void: entities.VoidEvent{
			VoidID:                   voidID,
			OriginalEventID:          original.EventID,
			Amount:                   -original.Amount,
			Reason:                   reason,
			DestinationInstallmentID: destinationInstallmentID,
			CreatedAt:                now,
		},
		Original: original,
	}

	if reason == entities.VoidReasonMisapplied && destinationInstallmentID != "" {
		source, err := s.Events.GetInstallment(ctx, original.InstallmentID)
		if err != nil {
			return entities.VoidEvent{}, err
		}
		destination, err := s.Events.GetInstallment(ctx, destinationInstallmentID)
		if err != nil {
			return entities.VoidEvent{}, err
		}
		compensationID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return entities.VoidEvent{}, err
		}
		input.Compensation = &entities.PaymentEvent{
			EventID:       compensationID,
			InstallmentID: destinationInstallmentID,
			Type:          entities.EventTypePayment,
			Amount:        original.Amount,
			Metadata: map[string]string{
				"void_id":          voidID,
				"transferred_from": original.InstallmentID,
			},
			CreatedAt: now,
		}
		if source.CapitalProviderID != destination.CapitalProviderID {
			transferID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return entities.VoidEvent{}, err
			}
			input.Transfer = &entities.ProviderTransfer{
				TransferID:               transferID,
				VoidID:                   voidID,
				SourceInstallmentID:      original.InstallmentID,
				DestinationInstallmentID: destinationInstallmentID,
				SourceProviderID:         source.CapitalProviderID,
				DestinationProviderID:    destination.CapitalProviderID,
				Amount:                   original.Amount,
				CreatedAt:                now,
			}
		}
	}

	if err := s.Events.VoidEvent(ctx, input, s.Recalc); err != nil {
		if input.Transfer != nil && !isVoidConflict(err) {
			ResolveLogger(s.Logger).Error("cross-provider transfer rolled back",
				"event", "payment_event_transfer_failed",
				"module", "collections-core/payment-ledger",
				"layer", "application",
				"event_id", eventID,
				"void_id", voidID,
				"source_installment_id", original.InstallmentID,
				"destination_installment_id", destinationInstallmentID,
				"error", err.Error(),
			)
		}
		return entities.VoidEvent{}, err
	}

	ResolveLogger(s.Logger).Info("payment event voided",
		"event", "payment_event_voided",
		"module", "collections-core/payment-ledger",
		"layer", "application",
		"event_id", eventID,
		"void_id", voidID,
		"reason", reason,
		"destination_installment_id", destinationInstallmentID,
	)
	return input.Void, nil
}

// Outstanding is the read-only rollup over non-voided events.
func (s Service) Outstanding(ctx context.Context, installmentID string) (int64, error) {
	installmentID = strings.TrimSpace(installmentID)
	if installmentID == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	return s.Events.Outstanding(ctx, installmentID)
}

func (s Service) ListEvents(ctx context.Context, installmentID string) ([]entities.PaymentEvent, error) {
	installmentID = strings.TrimSpace(installmentID)
	if installmentID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Events.ListEvents(ctx, installmentID)
}

func (s Service) GetInstallment(ctx context.Context, installmentID string) (ports.InstallmentProjection, error) {
	installmentID = strings.TrimSpace(installmentID)
	if installmentID == "" {
		return ports.InstallmentProjection{}, domainerrors.ErrInvalidInput
	}
	return s.Events.GetInstallment(ctx, installmentID)
}

func isVoidConflict(err error) bool {
	return errors.Is(err, domainerrors.ErrAlreadyVoided)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
