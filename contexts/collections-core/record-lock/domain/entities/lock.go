package entities

import "time"

type LockAction string

const (
	LockActionAcquired      LockAction = "acquired"
	LockActionReleased      LockAction = "released"
	LockActionForceReleased LockAction = "force_released"
	// LockActionExpiredDeepDelinquency marks the automatic release applied
	// once an installment crosses the deep-delinquency DPD threshold.
	LockActionExpiredDeepDelinquency LockAction = "expired_deep_delinquency"
)

type LockRecord struct {
	LockID        string
	InstallmentID string
	AgentID       string
	StatusAtLock  string
	LockedAt      time.Time
	ReleasedAt    *time.Time
}

func (l LockRecord) Active() bool {
	return l.ReleasedAt == nil
}

type LockAudit struct {
	AuditID        string
	InstallmentID  string
	AgentID        string
	Action         LockAction
	RecordedStatus string
	// ForcedBy is set when a release was applied by someone other than the
	// holder (admin override or system expiry).
	ForcedBy  string
	CreatedAt time.Time
}
