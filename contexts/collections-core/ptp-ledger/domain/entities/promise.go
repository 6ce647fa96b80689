package entities

import "time"

type PromiseStatus string

const (
	PromiseStatusOpen    PromiseStatus = "OPEN"
	PromiseStatusPartial PromiseStatus = "PARTIAL"
	PromiseStatusKept    PromiseStatus = "KEPT"
	PromiseStatusBroken  PromiseStatus = "BROKEN"
)

type PromiseToPay struct {
	PromiseID     string
	InstallmentID string
	Amount        int64
	PromisedDate  time.Time
	Status        PromiseStatus
	CreatedBy     string
	// Supersedes names the resolved predecessor this promise replaces.
	Supersedes  string
	PaidTowards int64
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

// Active reports whether the promise still occupies the per-installment
// active slot.
func (p PromiseToPay) Active() bool {
	return p.Status == PromiseStatusOpen || p.Status == PromiseStatusPartial
}

func (p PromiseToPay) Resolved() bool {
	return p.Status == PromiseStatusKept || p.Status == PromiseStatusBroken
}
