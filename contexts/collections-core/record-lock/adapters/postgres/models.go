package postgresadapter

import (
	"time"

	"kolekta/contexts/collections-core/record-lock/domain/entities"
	"kolekta/contexts/collections-core/record-lock/ports"
)

type installmentModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	DueDate           time.Time `gorm:"column:due_date"`
	DueAmount         int64     `gorm:"column:due_amount"`
	PaidAmount        int64     `gorm:"column:paid_amount"`
	Status            string    `gorm:"column:status"`
	CapitalProviderID string    `gorm:"column:capital_provider_id"`
}

func (installmentModel) TableName() string {
	return "installments"
}

func (m installmentModel) toProjection() ports.InstallmentProjection {
	return ports.InstallmentProjection{
		InstallmentID:     m.ID,
		DueDate:           m.DueDate,
		DueAmount:         m.DueAmount,
		PaidAmount:        m.PaidAmount,
		Status:            m.Status,
		CapitalProviderID: m.CapitalProviderID,
	}
}

type lockRecordModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	InstallmentID string     `gorm:"column:installment_id"`
	AgentID       string     `gorm:"column:agent_id"`
	StatusAtLock  string     `gorm:"column:status_at_lock"`
	LockedAt      time.Time  `gorm:"column:locked_at"`
	ReleasedAt    *time.Time `gorm:"column:released_at"`
}

func (lockRecordModel) TableName() string {
	return "lock_records"
}

func lockRecordModelFromEntity(lock entities.LockRecord) *lockRecordModel {
	return &lockRecordModel{
		ID:            lock.LockID,
		InstallmentID: lock.InstallmentID,
		AgentID:       lock.AgentID,
		StatusAtLock:  lock.StatusAtLock,
		LockedAt:      lock.LockedAt.UTC(),
		ReleasedAt:    lock.ReleasedAt,
	}
}

func (m lockRecordModel) toEntity() entities.LockRecord {
	return entities.LockRecord{
		LockID:        m.ID,
		InstallmentID: m.InstallmentID,
		AgentID:       m.AgentID,
		StatusAtLock:  m.StatusAtLock,
		LockedAt:      m.LockedAt,
		ReleasedAt:    m.ReleasedAt,
	}
}

type lockAuditModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	InstallmentID  string    `gorm:"column:installment_id"`
	AgentID        string    `gorm:"column:agent_id"`
	Action         string    `gorm:"column:action"`
	RecordedStatus string    `gorm:"column:recorded_status"`
	ForcedBy       string    `gorm:"column:forced_by"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (lockAuditModel) TableName() string {
	return "lock_audits"
}

func lockAuditModelFromEntity(audit entities.LockAudit) *lockAuditModel {
	return &lockAuditModel{
		ID:             audit.AuditID,
		InstallmentID:  audit.InstallmentID,
		AgentID:        audit.AgentID,
		Action:         string(audit.Action),
		RecordedStatus: audit.RecordedStatus,
		ForcedBy:       audit.ForcedBy,
		CreatedAt:      audit.CreatedAt.UTC(),
	}
}

func (m lockAuditModel) toEntity() entities.LockAudit {
	return entities.LockAudit{
		AuditID:        m.ID,
		InstallmentID:  m.InstallmentID,
		AgentID:        m.AgentID,
		Action:         entities.LockAction(m.Action),
		RecordedStatus: m.RecordedStatus,
		ForcedBy:       m.ForcedBy,
		CreatedAt:      m.CreatedAt,
	}
}
