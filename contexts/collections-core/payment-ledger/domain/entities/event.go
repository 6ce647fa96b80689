package entities

import "time"

type EventType string

const (
	EventTypePayment EventType = "PAYMENT"
	EventTypeLateFee EventType = "LATE_FEE"
	EventTypeWallet  EventType = "WALLET"
)

// SupportedEventType reports whether the type participates in the ledger
// (and is therefore voidable).
func SupportedEventType(t EventType) bool {
	switch t {
	case EventTypePayment, EventTypeLateFee, EventTypeWallet:
		return true
	default:
		return false
	}
}

// VoidReasonMisapplied marks a payment landed on the wrong installment;
// combined with a destination it triggers the compensating transfer.
const VoidReasonMisapplied = "misapplied_payment"

type PaymentEvent struct {
	EventID       string
	InstallmentID string
	Type          EventType
	Amount        int64
	Metadata      map[string]string
	CreatedAt     time.Time
	Voided        bool
}

type VoidEvent struct {
	VoidID          string
	OriginalEventID string
	// Amount is the negation of the original event amount.
	Amount                   int64
	Reason                   string
	DestinationInstallmentID string
	CreatedAt                time.Time
}

// ProviderTransfer links a void to its compensating payment when the two
// installments belong to different capital providers.
type ProviderTransfer struct {
	TransferID               string
	VoidID                   string
	SourceInstallmentID      string
	DestinationInstallmentID string
	SourceProviderID         string
	DestinationProviderID    string
	Amount                   int64
	CreatedAt                time.Time
}
