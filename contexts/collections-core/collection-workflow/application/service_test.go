package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	collectionworkflow "kolekta/contexts/collections-core/collection-workflow"
	"kolekta/contexts/collections-core/collection-workflow/adapters/memory"
	"kolekta/contexts/collections-core/collection-workflow/application"
	"kolekta/contexts/collections-core/collection-workflow/domain"
	domainerrors "kolekta/contexts/collections-core/collection-workflow/domain/errors"
	workflowports "kolekta/contexts/collections-core/collection-workflow/ports"
	paymentledger "kolekta/contexts/collections-core/payment-ledger"
	paymentports "kolekta/contexts/collections-core/payment-ledger/ports"
	ptpledger "kolekta/contexts/collections-core/ptp-ledger"
	ptpdomainerrors "kolekta/contexts/collections-core/ptp-ledger/domain/errors"
	ptpports "kolekta/contexts/collections-core/ptp-ledger/ports"
	recordlock "kolekta/contexts/collections-core/record-lock"
	recordlockports "kolekta/contexts/collections-core/record-lock/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type stubRoles struct {
	admin bool
}

func (r stubRoles) IsAdminUnlocker(context.Context, string) (bool, error) {
	return r.admin, nil
}

type recordingDispatcher struct {
	dialerRemovals    []string
	vendorAssignments []string
	err               error
}

func (d *recordingDispatcher) DialerQueueRemoval(_ context.Context, installmentID string) error {
	d.dialerRemovals = append(d.dialerRemovals, installmentID)
	return d.err
}

func (d *recordingDispatcher) VendorAutoAssignment(_ context.Context, installmentID string, agentID string) error {
	d.vendorAssignments = append(d.vendorAssignments, installmentID+":"+agentID)
	return d.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	workflow   application.Service
	locks      recordlock.Module
	promises   ptpledger.Module
	payments   paymentledger.Module
	store      *memory.Store
	dispatcher *recordingDispatcher
}

// newFixture composes the in-memory stack at 2024-01-12 with two seeded
// installments: inst-1 two days past due (100000 owed, ceiling +4) and
// inst-2 sixty-three days past due with no vendor assigned.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := date(2024, time.January, 12)

	locks := recordlock.NewInMemoryModule(stubRoles{}, nil)
	locks.Service.Clock = fixedClock{now: now}
	promises := ptpledger.NewInMemoryModule(nil)
	promises.Service.Clock = fixedClock{now: now}
	payments := paymentledger.NewInMemoryModule(nil)
	payments.Service.Clock = fixedClock{now: now}

	store := memory.NewStore()
	dispatcher := &recordingDispatcher{}
	module := collectionworkflow.NewComposedModule(
		locks, promises, payments,
		store, store, dispatcher,
		fixedClock{now: now}, store, nil,
	)

	seed := []struct {
		id      string
		dueDate time.Time
		amount  int64
	}{
		{id: "inst-1", dueDate: date(2024, time.January, 10), amount: 100000},
		{id: "inst-2", dueDate: date(2023, time.November, 10), amount: 200000},
	}
	for _, s := range seed {
		locks.Store.SetInstallment(recordlockports.InstallmentProjection{
			InstallmentID: s.id,
			DueDate:       s.dueDate,
			DueAmount:     s.amount,
			Status:        "late",
		})
		promises.Store.SetInstallment(ptpports.InstallmentProjection{
			InstallmentID: s.id,
			AccountID:     "acct-1",
			DueDate:       s.dueDate,
			DueAmount:     s.amount,
			Status:        "late",
		})
		payments.Store.SetInstallment(paymentports.InstallmentProjection{
			InstallmentID:     s.id,
			AccountID:         "acct-1",
			CapitalProviderID: "provider-a",
			DueDate:           s.dueDate,
			DueAmount:         s.amount,
			Status:            "late",
		})
		store.SetInstallment(workflowports.InstallmentSnapshot{
			InstallmentID: s.id,
			AccountID:     "acct-1",
			DueDate:       s.dueDate,
			DueAmount:     s.amount,
			Status:        "late",
		})
	}

	return &fixture{
		workflow:   module.Service,
		locks:      locks,
		promises:   promises,
		payments:   payments,
		store:      store,
		dispatcher: dispatcher,
	}
}

func (f *fixture) acquireLock(t *testing.T, installmentID string, agentID string) {
	t.Helper()
	if _, _, err := f.locks.Service.Acquire(context.Background(), installmentID, agentID); err != nil {
		t.Fatalf("acquire lock failed: %v", err)
	}
}

func TestRecordContactOutcomeRequiresHolderLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workflow.RecordContactOutcome(ctx, application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       domain.OutcomeNoAnswer,
	})
	if !errors.Is(err, domainerrors.ErrNotLocked) {
		t.Fatalf("expected ErrNotLocked without a lock, got %v", err)
	}

	f.acquireLock(t, "inst-1", "agent-a")
	_, err = f.workflow.RecordContactOutcome(ctx, application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-b",
		Outcome:       domain.OutcomeNoAnswer,
	})
	if !errors.Is(err, domainerrors.ErrNotLocked) {
		t.Fatalf("expected ErrNotLocked for non-holder, got %v", err)
	}
}

func TestRecordContactOutcomeRejectsUnknownCode(t *testing.T) {
	f := newFixture(t)
	f.acquireLock(t, "inst-1", "agent-a")

	_, err := f.workflow.RecordContactOutcome(context.Background(), application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       "called_twice",
	})
	if !errors.Is(err, domainerrors.ErrUnknownOutcome) {
		t.Fatalf("expected ErrUnknownOutcome, got %v", err)
	}
}

func TestRecordContactOutcomeAppendsNote(t *testing.T) {
	f := newFixture(t)
	f.acquireLock(t, "inst-1", "agent-a")

	_, err := f.workflow.RecordContactOutcome(context.Background(), application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       domain.OutcomeNoAnswer,
		Note:          "rang 3 times",
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	notes := f.store.Notes("inst-1")
	if len(notes) != 1 {
		t.Fatalf("expected one note, got %d", len(notes))
	}
	if !strings.Contains(notes[0].Body, "no_answer") || !strings.Contains(notes[0].Body, "rang 3 times") {
		t.Fatalf("note body missing outcome or agent text: %q", notes[0].Body)
	}
	if len(f.dispatcher.dialerRemovals) != 0 {
		t.Fatalf("no_answer must not dequeue the dialer: %v", f.dispatcher.dialerRemovals)
	}
}

func TestPromiseOutcomeDelegatesToLedger(t *testing.T) {
	f := newFixture(t)
	f.acquireLock(t, "inst-1", "agent-a")
	ctx := context.Background()

	result, err := f.workflow.RecordContactOutcome(ctx, application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       domain.OutcomePromiseToPay,
		Note:          "customer will pay after payday",
		Promise: &application.PromiseDetails{
			Amount:       100000,
			PromisedDate: date(2024, time.January, 13),
		},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if result.Promise == nil || result.Promise.Status != "OPEN" {
		t.Fatalf("expected an OPEN promise ref, got %+v", result.Promise)
	}

	installment, err := f.promises.Store.GetInstallment(ctx, "inst-1")
	if err != nil {
		t.Fatalf("get installment failed: %v", err)
	}
	if installment.PTPAmount != 100000 {
		t.Fatalf("ptp fields not mirrored: %+v", installment)
	}
	notes := f.promises.Store.Notes("inst-1")
	if len(notes) != 1 || !strings.Contains(notes[0].Body, "promise to pay 100000") {
		t.Fatalf("combined audit note missing: %+v", notes)
	}
}

func TestPromiseOutcomeRequiresDetails(t *testing.T) {
	f := newFixture(t)
	f.acquireLock(t, "inst-1", "agent-a")

	_, err := f.workflow.RecordContactOutcome(context.Background(), application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       domain.OutcomePromiseToPay,
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPromiseOutcomePropagatesCeilingRejection(t *testing.T) {
	f := newFixture(t)
	f.acquireLock(t, "inst-1", "agent-a")

	_, err := f.workflow.RecordContactOutcome(context.Background(), application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       domain.OutcomePromiseToPay,
		Promise: &application.PromiseDetails{
			Amount:       100000,
			PromisedDate: date(2024, time.January, 20),
		},
	})
	if !errors.Is(err, ptpdomainerrors.ErrDateBeyondBucketCeiling) {
		t.Fatalf("expected ceiling rejection to pass through, got %v", err)
	}
}

func TestTerminalOutcomesDispatchDialerRemoval(t *testing.T) {
	f := newFixture(t)
	f.acquireLock(t, "inst-1", "agent-a")

	_, err := f.workflow.RecordContactOutcome(context.Background(), application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       domain.OutcomeRefuseToPay,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(f.dispatcher.dialerRemovals) != 1 || f.dispatcher.dialerRemovals[0] != "inst-1" {
		t.Fatalf("expected dialer removal for inst-1, got %v", f.dispatcher.dialerRemovals)
	}
}

func TestHighDelinquencyDispatchesVendorAssignment(t *testing.T) {
	f := newFixture(t)
	f.acquireLock(t, "inst-2", "agent-a")

	_, err := f.workflow.RecordContactOutcome(context.Background(), application.ContactOutcomeCommand{
		InstallmentID: "inst-2",
		AgentID:       "agent-a",
		Outcome:       domain.OutcomeNotContactable,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(f.dispatcher.vendorAssignments) != 1 || f.dispatcher.vendorAssignments[0] != "inst-2:agent-a" {
		t.Fatalf("expected vendor assignment for inst-2, got %v", f.dispatcher.vendorAssignments)
	}
}

func TestDispatcherFailureDoesNotFailTheOutcome(t *testing.T) {
	f := newFixture(t)
	f.acquireLock(t, "inst-1", "agent-a")
	f.dispatcher.err = errors.New("bus unavailable")

	_, err := f.workflow.RecordContactOutcome(context.Background(), application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       domain.OutcomeDispute,
	})
	if err != nil {
		t.Fatalf("dispatch failure must stay best-effort: %v", err)
	}
	if len(f.store.Notes("inst-1")) != 1 {
		t.Fatal("note write must survive dispatch failure")
	}
}

func TestRecordPaymentResolvesActivePromise(t *testing.T) {
	f := newFixture(t)
	f.acquireLock(t, "inst-1", "agent-a")
	ctx := context.Background()

	_, err := f.workflow.RecordContactOutcome(ctx, application.ContactOutcomeCommand{
		InstallmentID: "inst-1",
		AgentID:       "agent-a",
		Outcome:       domain.OutcomePromiseToPay,
		Promise: &application.PromiseDetails{
			Amount:       100000,
			PromisedDate: date(2024, time.January, 13),
		},
	})
	if err != nil {
		t.Fatalf("record outcome failed: %v", err)
	}

	result, err := f.workflow.RecordPayment(ctx, application.PaymentCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
	})
	if err != nil {
		t.Fatalf("record payment failed: %v", err)
	}
	if result.Receipt.Outstanding != 0 {
		t.Fatalf("expected zero outstanding, got %d", result.Receipt.Outstanding)
	}
	if !result.PromiseResolved || result.Promise == nil || result.Promise.Status != "KEPT" {
		t.Fatalf("expected promise resolved KEPT, got %+v", result)
	}
}

func TestRecordPaymentWithoutPromiseStillPosts(t *testing.T) {
	f := newFixture(t)

	result, err := f.workflow.RecordPayment(context.Background(), application.PaymentCommand{
		InstallmentID: "inst-1",
		Amount:        40000,
	})
	if err != nil {
		t.Fatalf("record payment failed: %v", err)
	}
	if result.PromiseResolved || result.Promise != nil {
		t.Fatalf("no promise should resolve, got %+v", result)
	}
	if result.Receipt.Outstanding != 60000 {
		t.Fatalf("expected outstanding 60000, got %d", result.Receipt.Outstanding)
	}
}
