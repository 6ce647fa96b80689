package ports

import (
	"context"
	"time"

	"kolekta/contexts/collections-core/ptp-ledger/domain/entities"
)

// InstallmentProjection is the read model this module needs: settlement
// status, DPD input, and the oldest unpaid due date the ceiling derives
// from.
type InstallmentProjection struct {
	InstallmentID   string
	AccountID       string
	DueDate         time.Time
	DueAmount       int64
	PaidAmount      int64
	Status          string
	OldestUnpaidDue time.Time
	PTPDate         *time.Time
	PTPAmount       int64
}

type AuditNote struct {
	NoteID        string
	InstallmentID string
	AgentID       string
	Body          string
	CreatedAt     time.Time
}

type CreatePromiseInput struct {
	Promise entities.PromiseToPay
	Note    AuditNote
}

type ResolvePromiseInput struct {
	PromiseID   string
	Status      entities.PromiseStatus
	PaidTowards int64
	ResolvedAt  time.Time
}

// PromiseRepository owns the per-installment active-promise slot.
// CreatePromise inserts the promise, mirrors ptp_date/ptp_amount onto the
// installment, and appends the audit note as one atomic unit; it fails
// ErrActivePTPExists when the slot is taken.
type PromiseRepository interface {
	CreatePromise(ctx context.Context, input CreatePromiseInput) error
	GetPromise(ctx context.Context, promiseID string) (entities.PromiseToPay, error)
	GetActivePromise(ctx context.Context, installmentID string) (entities.PromiseToPay, bool, error)
	// ResolvePromise transitions an OPEN/PARTIAL promise; resolving a
	// terminal promise fails ErrPromiseAlreadyResolved.
	ResolvePromise(ctx context.Context, input ResolvePromiseInput) error
	ListActiveDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]entities.PromiseToPay, error)
}

type InstallmentReader interface {
	GetInstallment(ctx context.Context, installmentID string) (InstallmentProjection, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
