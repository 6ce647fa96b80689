package ports

import (
	"context"
	"time"

	"kolekta/contexts/collections-core/record-lock/domain/entities"
)

// InstallmentProjection is the read model of an installment this module
// needs: enough to compute DPD and record the status at lock time.
type InstallmentProjection struct {
	InstallmentID     string
	DueDate           time.Time
	DueAmount         int64
	PaidAmount        int64
	Status            string
	CapitalProviderID string
}

type AcquireResult struct {
	Lock entities.LockRecord
	// AlreadyHeld reports an idempotent re-acquire by the current holder.
	AlreadyHeld bool
}

type ReleaseInput struct {
	InstallmentID string
	ReleasedAt    time.Time
	Audit         entities.LockAudit
}

// LockRepository owns the per-installment lock slot. Acquire and Release
// are single atomic check-and-write units: two concurrent acquirers can
// never both observe a free slot and both succeed.
type LockRepository interface {
	// Acquire inserts the lock and its audit entry if the slot is free and
	// the agent is under maxActivePerAgent. Re-acquire by the holder
	// returns the existing record with AlreadyHeld set.
	Acquire(ctx context.Context, lock entities.LockRecord, audit entities.LockAudit, maxActivePerAgent int) (AcquireResult, error)
	GetActiveLock(ctx context.Context, installmentID string) (entities.LockRecord, bool, error)
	CountActiveByAgent(ctx context.Context, agentID string) (int, error)
	// Release marks the active record released and appends the audit entry
	// in the same unit.
	Release(ctx context.Context, input ReleaseInput) error
	ListAudits(ctx context.Context, installmentID string) ([]entities.LockAudit, error)
}

type InstallmentReader interface {
	GetInstallment(ctx context.Context, installmentID string) (InstallmentProjection, error)
}

// RoleCapabilityChecker is the external authorization collaborator; the
// core only asks whether an agent carries the admin-unlock capability.
type RoleCapabilityChecker interface {
	IsAdminUnlocker(ctx context.Context, agentID string) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
