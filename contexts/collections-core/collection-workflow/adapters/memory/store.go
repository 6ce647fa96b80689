package memory

import (
	"context"
	"sync"
	"time"

	domainerrors "kolekta/contexts/collections-core/collection-workflow/domain/errors"
	"kolekta/contexts/collections-core/collection-workflow/ports"

	"github.com/google/uuid"
)

// Store backs the orchestrator's installment snapshots and audit notes in
// memory for tests and local runs.
type Store struct {
	mu           sync.Mutex
	installments map[string]ports.InstallmentSnapshot
	notes        map[string][]ports.AuditNote
}

func NewStore() *Store {
	return &Store{
		installments: make(map[string]ports.InstallmentSnapshot),
		notes:        make(map[string][]ports.AuditNote),
	}
}

func (s *Store) SetInstallment(snapshot ports.InstallmentSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installments[snapshot.InstallmentID] = snapshot
}

func (s *Store) GetInstallment(_ context.Context, installmentID string) (ports.InstallmentSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.installments[installmentID]
	if !ok {
		return ports.InstallmentSnapshot{}, domainerrors.ErrInstallmentNotFound
	}
	return snapshot, nil
}

func (s *Store) AppendNote(_ context.Context, note ports.AuditNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.InstallmentID] = append(s.notes[note.InstallmentID], note)
	return nil
}

// Notes exposes appended notes for tests.
func (s *Store) Notes(installmentID string) []ports.AuditNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.AuditNote(nil), s.notes[installmentID]...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
