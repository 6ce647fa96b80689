package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	bucketdomain "kolekta/contexts/collections-core/bucket-engine/domain"
	collectionworkflow "kolekta/contexts/collections-core/collection-workflow"
	workflowmemory "kolekta/contexts/collections-core/collection-workflow/adapters/memory"
	workflowapp "kolekta/contexts/collections-core/collection-workflow/application"
	workflowdomain "kolekta/contexts/collections-core/collection-workflow/domain"
	workflowports "kolekta/contexts/collections-core/collection-workflow/ports"
	paymentledger "kolekta/contexts/collections-core/payment-ledger"
	paymentports "kolekta/contexts/collections-core/payment-ledger/ports"
	ptpledger "kolekta/contexts/collections-core/ptp-ledger"
	ptpentities "kolekta/contexts/collections-core/ptp-ledger/domain/entities"
	ptpports "kolekta/contexts/collections-core/ptp-ledger/ports"
	recordlock "kolekta/contexts/collections-core/record-lock"
	lockerrors "kolekta/contexts/collections-core/record-lock/domain/errors"
	recordlockports "kolekta/contexts/collections-core/record-lock/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type noRoles struct{}

func (noRoles) IsAdminUnlocker(context.Context, string) (bool, error) {
	return false, nil
}

type nullDispatcher struct{}

func (nullDispatcher) DialerQueueRemoval(context.Context, string) error {
	return nil
}

func (nullDispatcher) VendorAutoAssignment(context.Context, string, string) error {
	return nil
}

type stack struct {
	workflow collectionworkflow.Module
	locks    recordlock.Module
	promises ptpledger.Module
	payments paymentledger.Module
}

// newStack composes the in-memory stack at 2024-01-12 with one seeded
// installment: inst-1 owed 100000, due 2024-01-10.
func newStack(t *testing.T, dispatcher workflowports.CollaboratorDispatcher) stack {
	t.Helper()
	now := time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	locks := recordlock.NewInMemoryModule(noRoles{}, nil)
	locks.Service.Clock = fixedClock{now: now}
	promises := ptpledger.NewInMemoryModule(nil)
	promises.Service.Clock = fixedClock{now: now}
	payments := paymentledger.NewInMemoryModule(nil)
	payments.Service.Clock = fixedClock{now: now}

	store := workflowmemory.NewStore()
	workflow := collectionworkflow.NewComposedModule(
		locks, promises, payments,
		store, store, dispatcher,
		fixedClock{now: now}, store, nil,
	)

	store.SetInstallment(workflowports.InstallmentSnapshot{
		InstallmentID: "inst-1",
		AccountID:     "acct-7",
		DueDate:       due,
		DueAmount:     100000,
		Status:        "late",
	})
	locks.Store.SetInstallment(recordlockports.InstallmentProjection{
		InstallmentID: "inst-1",
		DueDate:       due,
		DueAmount:     100000,
		Status:        "late",
	})
	promises.Store.SetInstallment(ptpports.InstallmentProjection{
		InstallmentID: "inst-1",
		AccountID:     "acct-7",
		DueDate:       due,
		DueAmount:     100000,
		Status:        "late",
	})
	payments.Store.SetInstallment(paymentports.InstallmentProjection{
		InstallmentID:     "inst-1",
		AccountID:         "acct-7",
		CapitalProviderID: "provider-a",
		DueDate:           due,
		DueAmount:         100000,
		Status:            "late",
	})

	return stack{workflow: workflow, locks: locks, promises: promises, payments: payments}
}

func TestCollectionFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	dpd := bucketdomain.DaysPastDue(due, now)
	if dpd != 2 {
		t.Fatalf("expected dpd 2, got %d", dpd)
	}
	classification := bucketdomain.Classify(dpd, bucketdomain.Flags{})
	if classification.Code != bucketdomain.BucketTier1 {
		t.Fatalf("expected tier_1, got %s", classification.Code)
	}
	ceiling := bucketdomain.PromiseCeiling(dpd, due)
	if !ceiling.Equal(due.AddDate(0, 0, 4)) {
		t.Fatalf("expected ceiling due+4, got %s", ceiling)
	}

	s := newStack(t, nullDispatcher{})

	// Agent A takes the record lock; agent B is shut out.
	if _, _, err := s.locks.Service.Acquire(ctx, "inst-1", "agent-a"); err != nil {
		t.Fatalf("agent-a acquire failed: %v", err)
	}
	if _, _, err := s.locks.Service.Acquire(ctx, "inst-1", "agent-b"); !errors.Is(err, lockerrors.ErrAlreadyLockedByOther) {
		t.Fatalf("expected ErrAlreadyLockedByOther for agent-b, got %v", err)
	}

	// Promise for the full amount, one day inside the ceiling.
	outcome, err := s.workflow.Service.RecordContactOutcome(ctx, workflowapp.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       workflowdomain.OutcomePromiseToPay,
		Note:          "will pay tomorrow",
		Promise: &workflowapp.PromiseDetails{
			Amount:       100000,
			PromisedDate: time.Date(2024, time.January, 13, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("record promise outcome failed: %v", err)
	}
	if outcome.Promise == nil || outcome.Promise.Status != string(ptpentities.PromiseStatusOpen) {
		t.Fatalf("expected OPEN promise, got %+v", outcome.Promise)
	}
	promiseID := outcome.Promise.PromiseID

	// Full payment settles the installment and keeps the promise.
	payment, err := s.workflow.Service.RecordPayment(ctx, workflowapp.PaymentCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
	})
	if err != nil {
		t.Fatalf("record payment failed: %v", err)
	}
	if payment.Receipt.Outstanding != 0 {
		t.Fatalf("expected outstanding 0 after full payment, got %d", payment.Receipt.Outstanding)
	}
	if !payment.PromiseResolved || payment.Promise == nil || payment.Promise.Status != string(ptpentities.PromiseStatusKept) {
		t.Fatalf("expected promise KEPT, got %+v", payment)
	}

	// Voiding the payment restores the balance; the KEPT resolution is
	// never reopened.
	if _, err := s.payments.Service.Void(ctx, payment.Receipt.EventID, "agent_error", ""); err != nil {
		t.Fatalf("void failed: %v", err)
	}
	outstanding, err := s.payments.Service.Outstanding(ctx, "inst-1")
	if err != nil {
		t.Fatalf("outstanding failed: %v", err)
	}
	if outstanding != 100000 {
		t.Fatalf("expected outstanding restored to 100000, got %d", outstanding)
	}
	kept, err := s.promises.Service.Get(ctx, promiseID)
	if err != nil {
		t.Fatalf("get promise failed: %v", err)
	}
	if kept.Status != ptpentities.PromiseStatusKept {
		t.Fatalf("void must not reopen a kept promise, got %s", kept.Status)
	}

	// Agent A hands the record back.
	if err := s.locks.Service.Release(ctx, "inst-1", "agent-a", "late"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if _, _, err := s.locks.Service.Acquire(ctx, "inst-1", "agent-b"); err != nil {
		t.Fatalf("agent-b acquire after release failed: %v", err)
	}
}
