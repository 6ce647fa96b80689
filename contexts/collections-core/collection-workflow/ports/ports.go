package ports

import (
	"context"
	"time"
)

// InstallmentSnapshot is the read model the orchestrator needs for the
// post-commit collaborator decisions.
type InstallmentSnapshot struct {
	InstallmentID  string
	AccountID      string
	DueDate        time.Time
	DueAmount      int64
	PaidAmount     int64
	Status         string
	VendorAssigned bool
}

// PromiseRef is the orchestrator's view of a promise owned by the PTP
// ledger module.
type PromiseRef struct {
	PromiseID    string
	Status       string
	Amount       int64
	PromisedDate time.Time
}

type CreatePromiseInput struct {
	InstallmentID string
	Amount        int64
	PromisedDate  time.Time
	AgentID       string
	Note          string
	Supersedes    string
}

type PaymentReceipt struct {
	EventID     string
	PaidTotal   int64
	Outstanding int64
}

type AuditNote struct {
	NoteID        string
	InstallmentID string
	AgentID       string
	Body          string
	CreatedAt     time.Time
}

// LockChecker answers who holds the record lock on an installment.
type LockChecker interface {
	HolderOf(ctx context.Context, installmentID string) (string, bool, error)
}

// PromiseWorkflow is the narrow slice of the PTP ledger the orchestrator
// drives: creation (with the combined audit note, one atomic unit inside
// the ledger) and payment application.
type PromiseWorkflow interface {
	Create(ctx context.Context, input CreatePromiseInput) (PromiseRef, error)
	ApplyPayment(ctx context.Context, installmentID string, cumulativePaid int64, postedAt time.Time) (PromiseRef, bool, error)
}

type PaymentPoster interface {
	PostPayment(ctx context.Context, installmentID string, amount int64, metadata map[string]string) (PaymentReceipt, error)
}

type InstallmentReader interface {
	GetInstallment(ctx context.Context, installmentID string) (InstallmentSnapshot, error)
}

type NoteAppender interface {
	AppendNote(ctx context.Context, note AuditNote) error
}

// CollaboratorDispatcher hands the fire-and-forget side effects to the
// messaging layer. Failures are logged, never rolled back into the
// recording unit.
type CollaboratorDispatcher interface {
	DialerQueueRemoval(ctx context.Context, installmentID string) error
	VendorAutoAssignment(ctx context.Context, installmentID string, agentID string) error
}

// CollaboratorExecutor performs the dispatched side effects on the worker
// side of the bus.
type CollaboratorExecutor interface {
	RemoveFromDialerQueue(ctx context.Context, installmentID string) error
	AssignVendor(ctx context.Context, installmentID string, agentID string) error
}

// EventEnvelope is the module's view of a consumed bus event.
type EventEnvelope struct {
	EventID        string
	EventType      string
	SourceService  string
	OccurredAtUTC  time.Time
	EntityType     string
	EntityID       string
	PayloadVersion int
	Payload        any
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
