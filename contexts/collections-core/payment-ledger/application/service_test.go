package application_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	paymentledger "kolekta/contexts/collections-core/payment-ledger"
	"kolekta/contexts/collections-core/payment-ledger/application"
	"kolekta/contexts/collections-core/payment-ledger/domain/entities"
	domainerrors "kolekta/contexts/collections-core/payment-ledger/domain/errors"
	"kolekta/contexts/collections-core/payment-ledger/ports"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newFixture seeds two installments with distinct capital providers:
// inst-1 owes 100000 due 2024-01-10, inst-2 owes 50000 due 2024-01-20.
func newFixture(t *testing.T) (*paymentledger.Module, context.Context) {
	t.Helper()
	module := paymentledger.NewInMemoryModule(nil)
	module.Store.SetInstallment(ports.InstallmentProjection{
		InstallmentID:     "inst-1",
		AccountID:         "acct-1",
		CapitalProviderID: "provider-a",
		DueDate:           date(2024, time.January, 10),
		DueAmount:         100000,
		Status:            "late",
	})
	module.Store.SetInstallment(ports.InstallmentProjection{
		InstallmentID:     "inst-2",
		AccountID:         "acct-2",
		CapitalProviderID: "provider-b",
		DueDate:           date(2024, time.January, 20),
		DueAmount:         50000,
		Status:            "current",
	})
	return &module, context.Background()
}

func TestPostEventReducesOutstanding(t *testing.T) {
	module, ctx := newFixture(t)

	result, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 40000, nil)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if result.PaidTotal != 40000 {
		t.Fatalf("expected paid total 40000, got %d", result.PaidTotal)
	}
	if result.Outstanding != 60000 {
		t.Fatalf("expected outstanding 60000, got %d", result.Outstanding)
	}
}

func TestPostEventRejectsOverpayment(t *testing.T) {
	module, ctx := newFixture(t)

	if _, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 90000, nil); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	_, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 10001, nil)
	if !errors.Is(err, domainerrors.ErrOverpaymentRejected) {
		t.Fatalf("expected ErrOverpaymentRejected, got %v", err)
	}

	outstanding, err := module.Service.Outstanding(ctx, "inst-1")
	if err != nil {
		t.Fatalf("outstanding failed: %v", err)
	}
	if outstanding != 10000 {
		t.Fatalf("rejected payment mutated balances, outstanding %d", outstanding)
	}
}

func TestLateFeeRaisesTheObligation(t *testing.T) {
	module, ctx := newFixture(t)

	if _, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypeLateFee, 5000, nil); err != nil {
		t.Fatalf("post late fee failed: %v", err)
	}
	result, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 105000, nil)
	if err != nil {
		t.Fatalf("full payment with late fee failed: %v", err)
	}
	if result.Outstanding != 0 {
		t.Fatalf("expected zero outstanding, got %d", result.Outstanding)
	}
}

func TestPostEventRejectsUnsupportedTypeAndNonPositiveAmount(t *testing.T) {
	module, ctx := newFixture(t)

	if _, err := module.Service.PostEvent(ctx, "inst-1", "REFUND", 1000, nil); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
	if _, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 0, nil); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero amount, got %v", err)
	}
	if _, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, -500, nil); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative amount, got %v", err)
	}
}

func TestVoidRestoresOutstandingExactly(t *testing.T) {
	module, ctx := newFixture(t)

	before, err := module.Service.Outstanding(ctx, "inst-1")
	if err != nil {
		t.Fatalf("outstanding failed: %v", err)
	}
	result, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 100000, nil)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	void, err := module.Service.Void(ctx, result.Event.EventID, "duplicate_capture", "")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if void.Amount != -100000 {
		t.Fatalf("expected void amount -100000, got %d", void.Amount)
	}

	after, err := module.Service.Outstanding(ctx, "inst-1")
	if err != nil {
		t.Fatalf("outstanding failed: %v", err)
	}
	if after != before {
		t.Fatalf("void did not net to zero: before %d after %d", before, after)
	}
}

func TestVoidIsSingleUse(t *testing.T) {
	module, ctx := newFixture(t)

	result, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 30000, nil)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := module.Service.Void(ctx, result.Event.EventID, "duplicate_capture", ""); err != nil {
		t.Fatalf("first void failed: %v", err)
	}
	_, err = module.Service.Void(ctx, result.Event.EventID, "duplicate_capture", "")
	if !errors.Is(err, domainerrors.ErrAlreadyVoided) {
		t.Fatalf("expected ErrAlreadyVoided, got %v", err)
	}
}

type voidConflictRepo struct {
	ports.EventRepository
}

func (voidConflictRepo) VoidEvent(context.Context, ports.VoidEventInput, ports.StatusRecalculator) error {
	return fmt.Errorf("void slot taken: %w", domainerrors.ErrAlreadyVoided)
}

// TestVoidConflictIsRecognizedWhenWrapped loses the void-slot race at the
// repository: the wrapped conflict must surface as ErrAlreadyVoided and
// must not be reported as a failed cross-provider transfer.
func TestVoidConflictIsRecognizedWhenWrapped(t *testing.T) {
	module, ctx := newFixture(t)

	result, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 30000, nil)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}

	var logs bytes.Buffer
	service := application.Service{
		Events: voidConflictRepo{EventRepository: module.Store},
		Clock:  module.Store,
		IDGen:  module.Store,
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	}
	_, err = service.Void(ctx, result.Event.EventID, entities.VoidReasonMisapplied, "inst-2")
	if !errors.Is(err, domainerrors.ErrAlreadyVoided) {
		t.Fatalf("expected wrapped ErrAlreadyVoided, got %v", err)
	}
	if strings.Contains(logs.String(), "payment_event_transfer_failed") {
		t.Fatalf("conflict must not be logged as a transfer failure:\n%s", logs.String())
	}
}

func TestMisappliedVoidMovesPaymentAcrossProviders(t *testing.T) {
	module, ctx := newFixture(t)

	result, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 30000, nil)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	void, err := module.Service.Void(ctx, result.Event.EventID, entities.VoidReasonMisapplied, "inst-2")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if void.DestinationInstallmentID != "inst-2" {
		t.Fatalf("destination not recorded on void: %+v", void)
	}

	sourceOutstanding, err := module.Service.Outstanding(ctx, "inst-1")
	if err != nil {
		t.Fatalf("outstanding failed: %v", err)
	}
	if sourceOutstanding != 100000 {
		t.Fatalf("source not restored, outstanding %d", sourceOutstanding)
	}
	destinationOutstanding, err := module.Service.Outstanding(ctx, "inst-2")
	if err != nil {
		t.Fatalf("outstanding failed: %v", err)
	}
	if destinationOutstanding != 20000 {
		t.Fatalf("destination not credited, outstanding %d", destinationOutstanding)
	}

	transfers := module.Store.Transfers()
	if len(transfers) != 1 {
		t.Fatalf("expected one provider transfer, got %d", len(transfers))
	}
	transfer := transfers[0]
	if transfer.SourceProviderID != "provider-a" || transfer.DestinationProviderID != "provider-b" || transfer.Amount != 30000 {
		t.Fatalf("unexpected transfer record: %+v", transfer)
	}
}

func TestMisappliedVoidSameProviderSkipsTransfer(t *testing.T) {
	module, ctx := newFixture(t)
	module.Store.SetInstallment(ports.InstallmentProjection{
		InstallmentID:     "inst-3",
		AccountID:         "acct-1",
		CapitalProviderID: "provider-a",
		DueDate:           date(2024, time.February, 10),
		DueAmount:         80000,
		Status:            "current",
	})

	result, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 30000, nil)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := module.Service.Void(ctx, result.Event.EventID, entities.VoidReasonMisapplied, "inst-3"); err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if transfers := module.Store.Transfers(); len(transfers) != 0 {
		t.Fatalf("same-provider move should not record a transfer, got %d", len(transfers))
	}

	events, err := module.Service.ListEvents(ctx, "inst-3")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 1 || events[0].Amount != 30000 || events[0].Type != entities.EventTypePayment {
		t.Fatalf("expected one compensating payment on destination, got %+v", events)
	}
}

func TestMisappliedVoidRollsBackWhenDestinationCannotAbsorb(t *testing.T) {
	module, ctx := newFixture(t)

	result, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 60000, nil)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	// inst-2 only owes 50000, so moving 60000 onto it would overpay.
	_, err = module.Service.Void(ctx, result.Event.EventID, entities.VoidReasonMisapplied, "inst-2")
	if !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}

	original, err := module.Service.GetInstallment(ctx, "inst-1")
	if err != nil {
		t.Fatalf("get installment failed: %v", err)
	}
	if original.PaidAmount != 60000 {
		t.Fatalf("failed void must leave the original applied, paid %d", original.PaidAmount)
	}
	events, err := module.Service.ListEvents(ctx, "inst-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 1 || events[0].Voided {
		t.Fatalf("original event must stay unvoided after rollback: %+v", events)
	}
}

func TestVoidOfUnknownEvent(t *testing.T) {
	module, ctx := newFixture(t)

	_, err := module.Service.Void(ctx, "missing-event", "duplicate_capture", "")
	if !errors.Is(err, domainerrors.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestListEventsIsOrderedByPostingTime(t *testing.T) {
	module, ctx := newFixture(t)

	if _, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypeLateFee, 2000, nil); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 50000, nil); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := module.Service.PostEvent(ctx, "inst-1", entities.EventTypeWallet, 7000, map[string]string{"source": "cashback"}); err != nil {
		t.Fatalf("post failed: %v", err)
	}

	events, err := module.Service.ListEvents(ctx, "inst-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].CreatedAt.Before(events[i-1].CreatedAt) {
			t.Fatalf("events out of order at %d: %+v", i, events)
		}
	}
}

type failingRecalculator struct{}

func (failingRecalculator) Recalculate(context.Context, string) error {
	return errors.New("status projection unavailable")
}

func TestRecalculationFailureRollsBackThePost(t *testing.T) {
	module, ctx := newFixture(t)
	service := module.Service
	service.Recalc = failingRecalculator{}

	_, err := service.PostEvent(ctx, "inst-1", entities.EventTypePayment, 40000, nil)
	if err == nil {
		t.Fatal("expected recalculation failure to surface")
	}

	outstanding, err := module.Service.Outstanding(ctx, "inst-1")
	if err != nil {
		t.Fatalf("outstanding failed: %v", err)
	}
	if outstanding != 100000 {
		t.Fatalf("rolled-back post mutated balances, outstanding %d", outstanding)
	}
	events, err := module.Service.ListEvents(ctx, "inst-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("rolled-back post left events behind: %+v", events)
	}
}
