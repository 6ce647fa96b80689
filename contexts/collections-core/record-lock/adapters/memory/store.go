package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"kolekta/contexts/collections-core/record-lock/domain/entities"
	domainerrors "kolekta/contexts/collections-core/record-lock/domain/errors"
	"kolekta/contexts/collections-core/record-lock/ports"

	"github.com/google/uuid"
)

// Store keeps the lock slot, audit trail, and installment projection in
// process memory. One mutex section per repository call gives the same
// atomic check-and-write guarantee the postgres adapter gets from a
// transaction plus partial unique index.
type Store struct {
	mu sync.RWMutex

	installments map[string]ports.InstallmentProjection
	active       map[string]entities.LockRecord
	released     []entities.LockRecord
	audits       map[string][]entities.LockAudit
}

func NewStore() *Store {
	return &Store{
		installments: make(map[string]ports.InstallmentProjection),
		active:       make(map[string]entities.LockRecord),
		audits:       make(map[string][]entities.LockAudit),
	}
}

// SetInstallment seeds the projection; used by tests and projection sync.
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

func (s *Store) Acquire(_ context.Context, lock entities.LockRecord, audit entities.LockAudit, maxActivePerAgent int) (ports.AcquireResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lock.InstallmentID == "" || lock.AgentID == "" {
		return ports.AcquireResult{}, domainerrors.ErrInvalidInput
	}
	if existing, ok := s.active[lock.InstallmentID]; ok {
		if existing.AgentID == lock.AgentID {
			return ports.AcquireResult{Lock: existing, AlreadyHeld: true}, nil
		}
		return ports.AcquireResult{}, domainerrors.ErrAlreadyLockedByOther
	}

	held := 0
	for _, existing := range s.active {
		if existing.AgentID == lock.AgentID {
			held++
		}
	}
	if maxActivePerAgent > 0 && held >= maxActivePerAgent {
		return ports.AcquireResult{}, domainerrors.ErrAgentQuotaExceeded
	}

	s.active[lock.InstallmentID] = lock
	s.audits[lock.InstallmentID] = append(s.audits[lock.InstallmentID], audit)
	return ports.AcquireResult{Lock: lock}, nil
}

func (s *Store) GetActiveLock(_ context.Context, installmentID string) (entities.LockRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lock, ok := s.active[strings.TrimSpace(installmentID)]
	return lock, ok, nil
}

func (s *Store) CountActiveByAgent(_ context.Context, agentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, lock := range s.active {
		if lock.AgentID == strings.TrimSpace(agentID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) Release(_ context.Context, input ports.ReleaseInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.active[input.InstallmentID]
	if !ok {
		return domainerrors.ErrNotLocked
	}
	releasedAt := input.ReleasedAt.UTC()
	lock.ReleasedAt = &releasedAt
	delete(s.active, input.InstallmentID)
	s.released = append(s.released, lock)
	s.audits[input.InstallmentID] = append(s.audits[input.InstallmentID], input.Audit)
	return nil
}

func (s *Store) ListAudits(_ context.Context, installmentID string) ([]entities.LockAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	audits := s.audits[strings.TrimSpace(installmentID)]
	return append([]entities.LockAudit(nil), audits...), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
