package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"kolekta/contexts/collections-core/payment-ledger/domain/entities"
	domainerrors "kolekta/contexts/collections-core/payment-ledger/domain/errors"
	"kolekta/contexts/collections-core/payment-ledger/ports"

	"github.com/google/uuid"
)

// Store is the in-memory event repository. One mutex guards every
// balance-and-event write so each ledger operation is a single atomic
// section, mirroring the database transaction boundary.
type Store struct {
	mu           sync.Mutex
	installments map[string]ports.InstallmentProjection
	events       map[string]entities.PaymentEvent
	voids        map[string]entities.VoidEvent
	transfers    map[string]entities.ProviderTransfer
}

func NewStore() *Store {
	return &Store{
		installments: make(map[string]ports.InstallmentProjection),
		events:       make(map[string]entities.PaymentEvent),
		voids:        make(map[string]entities.VoidEvent),
		transfers:    make(map[string]entities.ProviderTransfer),
	}
}

// SetInstallment seeds an installment projection for tests and local runs.
func (s *Store) SetInstallment(installment ports.InstallmentProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installments[installment.InstallmentID] = installment
}

func (s *Store) GetInstallment(_ context.Context, installmentID string) (ports.InstallmentProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	installment, ok := s.installments[installmentID]
	if !ok {
		return ports.InstallmentProjection{}, domainerrors.ErrInstallmentNotFound
	}
	return installment, nil
}

func (s *Store) GetEvent(_ context.Context, eventID string) (entities.PaymentEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return entities.PaymentEvent{}, domainerrors.ErrEventNotFound
	}
	return cloneEvent(event), nil
}

func (s *Store) PostEvent(ctx context.Context, event entities.PaymentEvent, recalc ports.StatusRecalculator) (ports.PostEventResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	installment, ok := s.installments[event.InstallmentID]
	if !ok {
		return ports.PostEventResult{}, domainerrors.ErrInstallmentNotFound
	}
	updated, err := applyEvent(installment, event.Type, event.Amount)
	if err != nil {
		return ports.PostEventResult{}, err
	}

	s.installments[event.InstallmentID] = updated
	s.events[event.EventID] = cloneEvent(event)
	if err := s.recalculateLocked(ctx, recalc, event.InstallmentID); err != nil {
		s.installments[event.InstallmentID] = installment
		delete(s.events, event.EventID)
		return ports.PostEventResult{}, err
	}

	return ports.PostEventResult{
		Event:       cloneEvent(event),
		PaidTotal:   updated.PaidAmount,
		Outstanding: updated.Obligation(),
	}, nil
}

func (s *Store) VoidEvent(ctx context.Context, input ports.VoidEventInput, recalc ports.StatusRecalculator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.events[input.Original.EventID]
	if !ok {
		return domainerrors.ErrEventNotFound
	}
	if original.Voided {
		return domainerrors.ErrAlreadyVoided
	}
	if _, taken := s.voids[original.EventID]; taken {
		return domainerrors.ErrAlreadyVoided
	}
	source, ok := s.installments[original.InstallmentID]
	if !ok {
		return domainerrors.ErrInstallmentNotFound
	}
	reversed, err := reverseEvent(source, original.Type, original.Amount)
	if err != nil {
		return err
	}

	var (
		destinationBefore ports.InstallmentProjection
		destinationAfter  ports.InstallmentProjection
	)
	if input.Compensation != nil {
		destinationBefore, ok = s.installments[input.Compensation.InstallmentID]
		if !ok {
			return domainerrors.ErrInstallmentNotFound
		}
		destinationAfter, err = applyEvent(destinationBefore, input.Compensation.Type, input.Compensation.Amount)
		if err != nil {
			return domainerrors.ErrTransferFailed
		}
	}

	original.Voided = true
	s.events[original.EventID] = original
	s.voids[original.EventID] = input.Void
	s.installments[source.InstallmentID] = reversed
	if input.Compensation != nil {
		compensation := cloneEvent(*input.Compensation)
		s.events[compensation.EventID] = compensation
		s.installments[compensation.InstallmentID] = destinationAfter
	}
	if input.Transfer != nil {
		s.transfers[input.Transfer.TransferID] = *input.Transfer
	}

	rollback := func() {
		original.Voided = false
		s.events[original.EventID] = original
		delete(s.voids, original.EventID)
		s.installments[source.InstallmentID] = source
		if input.Compensation != nil {
			delete(s.events, input.Compensation.EventID)
			s.installments[input.Compensation.InstallmentID] = destinationBefore
		}
		if input.Transfer != nil {
			delete(s.transfers, input.Transfer.TransferID)
		}
	}

	if err := s.recalculateLocked(ctx, recalc, source.InstallmentID); err != nil {
		rollback()
		return err
	}
	if input.Compensation != nil {
		if err := s.recalculateLocked(ctx, recalc, input.Compensation.InstallmentID); err != nil {
			rollback()
			return err
		}
	}
	return nil
}

func (s *Store) Outstanding(_ context.Context, installmentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	installment, ok := s.installments[installmentID]
	if !ok {
		return 0, domainerrors.ErrInstallmentNotFound
	}
	return installment.Obligation(), nil
}

func (s *Store) ListEvents(_ context.Context, installmentID string) ([]entities.PaymentEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.installments[installmentID]; !ok {
		return nil, domainerrors.ErrInstallmentNotFound
	}
	events := make([]entities.PaymentEvent, 0)
	for _, event := range s.events {
		if event.InstallmentID == installmentID {
			events = append(events, cloneEvent(event))
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].EventID < events[j].EventID
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

// Transfers exposes recorded cross-provider transfers for tests.
func (s *Store) Transfers() []entities.ProviderTransfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	transfers := make([]entities.ProviderTransfer, 0, len(s.transfers))
	for _, transfer := range s.transfers {
		transfers = append(transfers, transfer)
	}
	sort.Slice(transfers, func(i, j int) bool {
		return transfers[i].TransferID < transfers[j].TransferID
	})
	return transfers
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) recalculateLocked(ctx context.Context, recalc ports.StatusRecalculator, installmentID string) error {
	if recalc == nil {
		return nil
	}
	return recalc.Recalculate(ctx, installmentID)
}

func applyEvent(installment ports.InstallmentProjection, eventType entities.EventType, amount int64) (ports.InstallmentProjection, error) {
	switch eventType {
	case entities.EventTypePayment:
		if amount > installment.Obligation() {
			return ports.InstallmentProjection{}, domainerrors.ErrOverpaymentRejected
		}
		installment.PaidAmount += amount
	case entities.EventTypeLateFee:
		installment.LateFeeAccrued += amount
	case entities.EventTypeWallet:
		installment.WalletBalance += amount
	default:
		return ports.InstallmentProjection{}, domainerrors.ErrUnsupportedEventType
	}
	return installment, nil
}

func reverseEvent(installment ports.InstallmentProjection, eventType entities.EventType, amount int64) (ports.InstallmentProjection, error) {
	switch eventType {
	case entities.EventTypePayment:
		installment.PaidAmount -= amount
	case entities.EventTypeLateFee:
		installment.LateFeeAccrued -= amount
	case entities.EventTypeWallet:
		installment.WalletBalance -= amount
	default:
		return ports.InstallmentProjection{}, domainerrors.ErrUnsupportedEventType
	}
	return installment, nil
}

func cloneEvent(event entities.PaymentEvent) entities.PaymentEvent {
	if event.Metadata == nil {
		return event
	}
	metadata := make(map[string]string, len(event.Metadata))
	for k, v := range event.Metadata {
		metadata[k] = v
	}
	event.Metadata = metadata
	return event
}
