package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"kolekta/contexts/collections-core/ptp-ledger/domain/entities"
	domainerrors "kolekta/contexts/collections-core/ptp-ledger/domain/errors"
	"kolekta/contexts/collections-core/ptp-ledger/ports"

	"github.com/google/uuid"
)

// Store keeps promises, audit notes, and the installment projection in
// process memory. A single mutex section per call stands in for the
// postgres partial unique index on the active-promise slot.
type Store struct {
	mu sync.RWMutex

	installments map[string]ports.InstallmentProjection
	promises     map[string]entities.PromiseToPay
	activeSlot   map[string]string
	notes        []ports.AuditNote
}

func NewStore() *Store {
	return &Store{
		installments: make(map[string]ports.InstallmentProjection),
		promises:     make(map[string]entities.PromiseToPay),
		activeSlot:   make(map[string]string),
	}
}

func (s *Store) SetInstallment(installment ports.InstallmentProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installments[installment.InstallmentID] = installment
}

func (s *Store) GetInstallment(_ context.Context, installmentID string) (ports.InstallmentProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	installment, ok := s.installments[strings.TrimSpace(installmentID)]
	if !ok {
		return ports.InstallmentProjection{}, domainerrors.ErrInstallmentNotFound
	}
	return installment, nil
}

func (s *Store) CreatePromise(_ context.Context, input ports.CreatePromiseInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	promise := input.Promise
	if promise.PromiseID == "" || promise.InstallmentID == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, taken := s.activeSlot[promise.InstallmentID]; taken {
		return domainerrors.ErrActivePTPExists
	}
	installment, ok := s.installments[promise.InstallmentID]
	if !ok {
		return domainerrors.ErrInstallmentNotFound
	}

	s.promises[promise.PromiseID] = promise
	s.activeSlot[promise.InstallmentID] = promise.PromiseID

	promisedDate := promise.PromisedDate
	installment.PTPDate = &promisedDate
	installment.PTPAmount = promise.Amount
	s.installments[promise.InstallmentID] = installment

	s.notes = append(s.notes, input.Note)
	return nil
}

func (s *Store) GetPromise(_ context.Context, promiseID string) (entities.PromiseToPay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	promise, ok := s.promises[strings.TrimSpace(promiseID)]
	if !ok {
		return entities.PromiseToPay{}, domainerrors.ErrPromiseNotFound
	}
	return promise, nil
}

func (s *Store) GetActivePromise(_ context.Context, installmentID string) (entities.PromiseToPay, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	promiseID, ok := s.activeSlot[strings.TrimSpace(installmentID)]
	if !ok {
		return entities.PromiseToPay{}, false, nil
	}
	return s.promises[promiseID], true, nil
}

func (s *Store) ResolvePromise(_ context.Context, input ports.ResolvePromiseInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	promise, ok := s.promises[input.PromiseID]
	if !ok {
		return domainerrors.ErrPromiseNotFound
	}
	if !promise.Active() {
		return domainerrors.ErrPromiseAlreadyResolved
	}

	promise.Status = input.Status
	promise.PaidTowards = input.PaidTowards
	if promise.Resolved() {
		resolvedAt := input.ResolvedAt.UTC()
		promise.ResolvedAt = &resolvedAt
		delete(s.activeSlot, promise.InstallmentID)
	}
	s.promises[input.PromiseID] = promise
	return nil
}

func (s *Store) ListActiveDueBefore(_ context.Context, cutoff time.Time, limit int) ([]entities.PromiseToPay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 500
	}
	items := make([]entities.PromiseToPay, 0)
	for _, promiseID := range s.activeSlot {
		promise := s.promises[promiseID]
		if promise.PromisedDate.Before(cutoff.UTC()) {
			items = append(items, promise)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PromisedDate.Before(items[j].PromisedDate)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Notes exposes the audit note trail for assertions in tests.
func (s *Store) Notes(installmentID string) []ports.AuditNote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.AuditNote, 0)
	for _, note := range s.notes {
		if note.InstallmentID == installmentID {
			items = append(items, note)
		}
	}
	return items
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
