package postgresadapter

import (
	"time"

	"kolekta/contexts/collections-core/ptp-ledger/domain/entities"
	"kolekta/contexts/collections-core/ptp-ledger/ports"
)

type installmentModel struct {
	ID         string     `gorm:"column:id;primaryKey"`
	AccountID  string     `gorm:"column:account_id"`
	DueDate    time.Time  `gorm:"column:due_date"`
	DueAmount  int64      `gorm:"column:due_amount"`
	PaidAmount int64      `gorm:"column:paid_amount"`
	Status     string     `gorm:"column:status"`
	PTPDate    *time.Time `gorm:"column:ptp_date"`
	PTPAmount  int64      `gorm:"column:ptp_amount"`
}

func (installmentModel) TableName() string {
	return "installments"
}

func (m installmentModel) toProjection() ports.InstallmentProjection {
	return ports.InstallmentProjection{
		InstallmentID:   m.ID,
		AccountID:       m.AccountID,
		DueDate:         m.DueDate,
		DueAmount:       m.DueAmount,
		PaidAmount:      m.PaidAmount,
		Status:          m.Status,
		OldestUnpaidDue: m.DueDate,
		PTPDate:         m.PTPDate,
		PTPAmount:       m.PTPAmount,
	}
}

type promiseModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	InstallmentID string     `gorm:"column:installment_id"`
	Amount        int64      `gorm:"column:amount"`
	PromisedDate  time.Time  `gorm:"column:promised_date"`
	Status        string     `gorm:"column:status"`
	CreatedBy     string     `gorm:"column:created_by"`
	Supersedes    string     `gorm:"column:supersedes"`
	PaidTowards   int64      `gorm:"column:paid_towards"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at"`
}

func (promiseModel) TableName() string {
	return "promises"
}

func promiseModelFromEntity(promise entities.PromiseToPay) *promiseModel {
	return &promiseModel{
		ID:            promise.PromiseID,
		InstallmentID: promise.InstallmentID,
		Amount:        promise.Amount,
		PromisedDate:  promise.PromisedDate.UTC(),
		Status:        string(promise.Status),
		CreatedBy:     promise.CreatedBy,
		Supersedes:    promise.Supersedes,
		PaidTowards:   promise.PaidTowards,
		CreatedAt:     promise.CreatedAt.UTC(),
		ResolvedAt:    promise.ResolvedAt,
	}
}

func (m promiseModel) toEntity() entities.PromiseToPay {
	return entities.PromiseToPay{
		PromiseID:     m.ID,
		InstallmentID: m.InstallmentID,
		Amount:        m.Amount,
		PromisedDate:  m.PromisedDate,
		Status:        entities.PromiseStatus(m.Status),
		CreatedBy:     m.CreatedBy,
		Supersedes:    m.Supersedes,
		PaidTowards:   m.PaidTowards,
		CreatedAt:     m.CreatedAt,
		ResolvedAt:    m.ResolvedAt,
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
