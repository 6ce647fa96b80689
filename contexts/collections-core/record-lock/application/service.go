package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	bucketdomain "kolekta/contexts/collections-core/bucket-engine/domain"
	"kolekta/contexts/collections-core/record-lock/domain/entities"
	domainerrors "kolekta/contexts/collections-core/record-lock/domain/errors"
	"kolekta/contexts/collections-core/record-lock/ports"
)

const defaultMaxActiveLocks = 30

type Service struct {
	Locks          ports.LockRepository
	Installments   ports.InstallmentReader
	Roles          ports.RoleCapabilityChecker
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	MaxActiveLocks int
	Logger         *slog.Logger
}

// Acquire takes the exclusive edit lock on an installment. Re-acquire by
// the current holder succeeds idempotently without a second record.
// Installments past the deep-delinquency threshold cannot be locked; any
// lingering lock is expired on the way out.
func (s Service) Acquire(ctx context.Context, installmentID string, agentID string) (entities.LockRecord, bool, error) {
	installmentID = strings.TrimSpace(installmentID)
	agentID = strings.TrimSpace(agentID)
	if installmentID == "" || agentID == "" {
		return entities.LockRecord{}, false, domainerrors.ErrInvalidInput
	}

	installment, err := s.Installments.GetInstallment(ctx, installmentID)
	if err != nil {
		return entities.LockRecord{}, false, err
	}
	now := s.now()
	if bucketdomain.IsDeepDelinquent(bucketdomain.DaysPastDue(installment.DueDate, now)) {
		if err := s.expireDeepDelinquentLock(ctx, installment, now); err != nil {
			return entities.LockRecord{}, false, err
		}
		return entities.LockRecord{}, false, domainerrors.ErrDeepDelinquentLock
	}

	lockID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.LockRecord{}, false, err
	}
	auditID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.LockRecord{}, false, err
	}

	result, err := s.Locks.Acquire(ctx, entities.LockRecord{
		LockID:        lockID,
		InstallmentID: installmentID,
		AgentID:       agentID,
		StatusAtLock:  installment.Status,
		LockedAt:      now,
	}, entities.LockAudit{
		AuditID:        auditID,
		InstallmentID:  installmentID,
		AgentID:        agentID,
		Action:         entities.LockActionAcquired,
		RecordedStatus: installment.Status,
		CreatedAt:      now,
	}, s.maxActiveLocks())
	if err != nil {
		return entities.LockRecord{}, false, err
	}

	ResolveLogger(s.Logger).Info("installment lock acquired",
		"event", "record_lock_acquired",
		"module", "collections-core/record-lock",
		"layer", "application",
		"installment_id", installmentID,
		"agent_id", agentID,
		"already_held", result.AlreadyHeld,
	)
	return result.Lock, result.AlreadyHeld, nil
}

// Release gives the lock back. Only the holder may release, unless the
// caller carries the admin-unlock capability; a forced release records
// who forced it.
func (s Service) Release(ctx context.Context, installmentID string, agentID string, recordedStatus string) error {
	installmentID = strings.TrimSpace(installmentID)
	agentID = strings.TrimSpace(agentID)
	if installmentID == "" || agentID == "" {
		return domainerrors.ErrInvalidInput
	}

	lock, found, err := s.Locks.GetActiveLock(ctx, installmentID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrNotLocked
	}

	forced := false
	if lock.AgentID != agentID {
		isAdmin, err := s.Roles.IsAdminUnlocker(ctx, agentID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return domainerrors.ErrNotLockHolder
		}
		forced = true
	}

	auditID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	audit := entities.LockAudit{
		AuditID:        auditID,
		InstallmentID:  installmentID,
		AgentID:        lock.AgentID,
		Action:         entities.LockActionReleased,
		RecordedStatus: strings.TrimSpace(recordedStatus),
		CreatedAt:      now,
	}
	if forced {
		audit.Action = entities.LockActionForceReleased
		audit.ForcedBy = agentID
	}
	if err := s.Locks.Release(ctx, ports.ReleaseInput{
		InstallmentID: installmentID,
		ReleasedAt:    now,
		Audit:         audit,
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("installment lock released",
		"event", "record_lock_released",
		"module", "collections-core/record-lock",
		"layer", "application",
		"installment_id", installmentID,
		"holder_id", lock.AgentID,
		"released_by", agentID,
		"forced", forced,
	)
	return nil
}

// IsLocked reports the active holder, treating locks on deep-delinquent
// installments as already released.
func (s Service) IsLocked(ctx context.Context, installmentID string) (bool, string, error) {
	installmentID = strings.TrimSpace(installmentID)
	if installmentID == "" {
		return false, "", domainerrors.ErrInvalidInput
	}
	lock, found, err := s.Locks.GetActiveLock(ctx, installmentID)
	if err != nil {
		return false, "", err
	}
	if !found {
		return false, "", nil
	}

	installment, err := s.Installments.GetInstallment(ctx, installmentID)
	if err != nil {
		return false, "", err
	}
	now := s.now()
	if bucketdomain.IsDeepDelinquent(bucketdomain.DaysPastDue(installment.DueDate, now)) {
		if err := s.expireDeepDelinquentLock(ctx, installment, now); err != nil {
			return false, "", err
		}
		return false, "", nil
	}
	return true, lock.AgentID, nil
}

// HolderOf is the read surface used by the workflow orchestrator.
func (s Service) HolderOf(ctx context.Context, installmentID string) (string, bool, error) {
	locked, holder, err := s.IsLocked(ctx, installmentID)
	if err != nil {
		return "", false, err
	}
	return holder, locked, nil
}

func (s Service) Audits(ctx context.Context, installmentID string) ([]entities.LockAudit, error) {
	installmentID = strings.TrimSpace(installmentID)
	if installmentID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Locks.ListAudits(ctx, installmentID)
}

// expireDeepDelinquentLock enforces the source behavior that a lock is
// treated as released once the installment's DPD passes the
// deep-delinquency threshold, regardless of holder.
func (s Service) expireDeepDelinquentLock(ctx context.Context, installment ports.InstallmentProjection, now time.Time) error {
	if !bucketdomain.IsDeepDelinquent(bucketdomain.DaysPastDue(installment.DueDate, now)) {
		return nil
	}
	lock, found, err := s.Locks.GetActiveLock(ctx, installment.InstallmentID)
	if err != nil || !found {
		return err
	}
	auditID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	if err := s.Locks.Release(ctx, ports.ReleaseInput{
		InstallmentID: installment.InstallmentID,
		ReleasedAt:    now,
		Audit: entities.LockAudit{
			AuditID:        auditID,
			InstallmentID:  installment.InstallmentID,
			AgentID:        lock.AgentID,
			Action:         entities.LockActionExpiredDeepDelinquency,
			RecordedStatus: installment.Status,
			ForcedBy:       "system",
			CreatedAt:      now,
		},
	}); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Warn("deep delinquency lock expired",
		"event", "record_lock_deep_delinquency_expired",
		"module", "collections-core/record-lock",
		"layer", "application",
		"installment_id", installment.InstallmentID,
		"holder_id", lock.AgentID,
	)
	return nil
}

func (s Service) maxActiveLocks() int {
	if s.MaxActiveLocks <= 0 {
		return defaultMaxActiveLocks
	}
	return s.MaxActiveLocks
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
