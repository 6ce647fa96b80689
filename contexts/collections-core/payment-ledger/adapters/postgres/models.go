package postgresadapter

import (
	"encoding/json"
	"time"

	"kolekta/contexts/collections-core/payment-ledger/domain/entities"
	"kolekta/contexts/collections-core/payment-ledger/ports"
)

type installmentModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	AccountID         string    `gorm:"column:account_id"`
	CapitalProviderID string    `gorm:"column:capital_provider_id"`
	DueDate           time.Time `gorm:"column:due_date"`
	DueAmount         int64     `gorm:"column:due_amount"`
	PaidAmount        int64     `gorm:"column:paid_amount"`
	LateFeeAccrued    int64     `gorm:"column:late_fee_accrued"`
	WalletBalance     int64     `gorm:"column:wallet_balance"`
	Status            string    `gorm:"column:status"`
}

func (installmentModel) TableName() string {
	return "installments"
}

func (m installmentModel) toProjection() ports.InstallmentProjection {
	return ports.InstallmentProjection{
		InstallmentID:     m.ID,
		AccountID:         m.AccountID,
		CapitalProviderID: m.CapitalProviderID,
		DueDate:           m.DueDate,
		DueAmount:         m.DueAmount,
		PaidAmount:        m.PaidAmount,
		LateFeeAccrued:    m.LateFeeAccrued,
		WalletBalance:     m.WalletBalance,
		Status:            m.Status,
	}
}

type paymentEventModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	InstallmentID string    `gorm:"column:installment_id"`
	EventType     string    `gorm:"column:event_type"`
	Amount        int64     `gorm:"column:amount"`
	Metadata      []byte    `gorm:"column:metadata"`
	Voided        bool      `gorm:"column:voided"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (paymentEventModel) TableName() string {
	return "payment_events"
}

func paymentEventModelFromEntity(event entities.PaymentEvent) *paymentEventModel {
	var metadata []byte
	if len(event.Metadata) > 0 {
		metadata, _ = json.Marshal(event.Metadata)
	}
	return &paymentEventModel{
		ID:            event.EventID,
		InstallmentID: event.InstallmentID,
		EventType:     string(event.Type),
		Amount:        event.Amount,
		Metadata:      metadata,
		Voided:        event.Voided,
		CreatedAt:     event.CreatedAt.UTC(),
	}
}

func (m paymentEventModel) toEntity() entities.PaymentEvent {
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return entities.PaymentEvent{
		EventID:       m.ID,
		InstallmentID: m.InstallmentID,
		Type:          entities.EventType(m.EventType),
		Amount:        m.Amount,
		Metadata:      metadata,
		Voided:        m.Voided,
		CreatedAt:     m.CreatedAt,
	}
}

type voidEventModel struct {
	ID                       string    `gorm:"column:id;primaryKey"`
	OriginalEventID          string    `gorm:"column:original_event_id"`
	Amount                   int64     `gorm:"column:amount"`
	Reason                   string    `gorm:"column:reason"`
	DestinationInstallmentID string    `gorm:"column:destination_installment_id"`
	CreatedAt                time.Time `gorm:"column:created_at"`
}

func (voidEventModel) TableName() string {
	return "void_events"
}

func voidEventModelFromEntity(void entities.VoidEvent) *voidEventModel {
	return &voidEventModel{
		ID:                       void.VoidID,
		OriginalEventID:          void.OriginalEventID,
		Amount:                   void.Amount,
		Reason:                   void.Reason,
		DestinationInstallmentID: void.DestinationInstallmentID,
		CreatedAt:                void.CreatedAt.UTC(),
	}
}

type providerTransferModel struct {
	ID                       string    `gorm:"column:id;primaryKey"`
	VoidID                   string    `gorm:"column:void_id"`
	SourceInstallmentID      string    `gorm:"column:source_installment_id"`
	DestinationInstallmentID string    `gorm:"column:destination_installment_id"`
	SourceProviderID         string    `gorm:"column:source_provider_id"`
	DestinationProviderID    string    `gorm:"column:destination_provider_id"`
	Amount                   int64     `gorm:"column:amount"`
	CreatedAt                time.Time `gorm:"column:created_at"`
}

func (providerTransferModel) TableName() string {
	return "provider_transfers"
}

func providerTransferModelFromEntity(transfer entities.ProviderTransfer) *providerTransferModel {
	return &providerTransferModel{
		ID:                       transfer.TransferID,
		VoidID:                   transfer.VoidID,
		SourceInstallmentID:      transfer.SourceInstallmentID,
		DestinationInstallmentID: transfer.DestinationInstallmentID,
		SourceProviderID:         transfer.SourceProviderID,
		DestinationProviderID:    transfer.DestinationProviderID,
		Amount:                   transfer.Amount,
		CreatedAt:                transfer.CreatedAt.UTC(),
	}
}
