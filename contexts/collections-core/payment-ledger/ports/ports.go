package ports

import (
	"context"
	"time"

	"kolekta/contexts/collections-core/payment-ledger/domain/entities"
)

type InstallmentProjection struct {
	InstallmentID     string
	AccountID         string
	CapitalProviderID string
	DueDate           time.Time
	DueAmount         int64
	PaidAmount        int64
	LateFeeAccrued    int64
	WalletBalance     int64
	Status            string
}

// Obligation is the amount still collectible: due amount plus accrued
// late fees minus payments.
func (p InstallmentProjection) Obligation() int64 {
	return p.DueAmount + p.LateFeeAccrued - p.PaidAmount
}

// StatusRecalculator is the out-of-scope collaborator that re-derives the
// installment status after a ledger write. The repository invokes it
// inside the same transaction; a failure rolls the event back.
type StatusRecalculator interface {
	Recalculate(ctx context.Context, installmentID string) error
}

type PostEventResult struct {
	Event entities.PaymentEvent
	// PaidTotal is the cumulative non-voided PAYMENT sum after the write.
	PaidTotal   int64
	Outstanding int64
}

// VoidEventInput carries everything the repository writes in one unit:
// the void record, balance reversal on the source, and optionally the
// compensating payment plus cross-provider transfer link.
type VoidEventInput struct {
	Void         entities.VoidEvent
	Original     entities.PaymentEvent
	Compensation *entities.PaymentEvent
	Transfer     *entities.ProviderTransfer
}

// EventRepository owns the append-only ledger. PostEvent and VoidEvent
// mutate derived balances atomically with the event write; the void slot
// (one void per original event) is a uniqueness constraint.
type EventRepository interface {
	GetInstallment(ctx context.Context, installmentID string) (InstallmentProjection, error)
	GetEvent(ctx context.Context, eventID string) (entities.PaymentEvent, error)
	PostEvent(ctx context.Context, event entities.PaymentEvent, recalc StatusRecalculator) (PostEventResult, error)
	VoidEvent(ctx context.Context, input VoidEventInput, recalc StatusRecalculator) error
	Outstanding(ctx context.Context, installmentID string) (int64, error)
	ListEvents(ctx context.Context, installmentID string) ([]entities.PaymentEvent, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
