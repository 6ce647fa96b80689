package postgresadapter

import (
	"time"

	"kolekta/contexts/collections-core/collection-workflow/ports"
)

type installmentModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	AccountID      string    `gorm:"column:account_id"`
	DueDate        time.Time `gorm:"column:due_date"`
	DueAmount      int64     `gorm:"column:due_amount"`
	PaidAmount     int64     `gorm:"column:paid_amount"`
	Status         string    `gorm:"column:status"`
	VendorAssigned bool      `gorm:"column:vendor_assigned"`
}

func (installmentModel) TableName() string {
	return "installments"
}

func (m installmentModel) toSnapshot() ports.InstallmentSnapshot {
	return ports.InstallmentSnapshot{
		InstallmentID:  m.ID,
		AccountID:      m.AccountID,
		DueDate:        m.DueDate,
		DueAmount:      m.DueAmount,
		PaidAmount:     m.PaidAmount,
		Status:         m.Status,
		VendorAssigned: m.VendorAssigned,
	}
}

type auditNoteModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	InstallmentID string    `gorm:"column:installment_id"`
	AgentID       string    `gorm:"column:agent_id"`
	Body          string    `gorm:"column:body"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (auditNoteModel) TableName() string {
	return "audit_notes"
}

func auditNoteModelFromPort(note ports.AuditNote) *auditNoteModel {
	return &auditNoteModel{
		ID:            note.NoteID,
		InstallmentID: note.InstallmentID,
		AgentID:       note.AgentID,
		Body:          note.Body,
		CreatedAt:     note.CreatedAt.UTC(),
	}
}
