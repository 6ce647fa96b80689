package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	ptpledger "kolekta/contexts/collections-core/ptp-ledger"
	"kolekta/contexts/collections-core/ptp-ledger/application"
	"kolekta/contexts/collections-core/ptp-ledger/domain/entities"
	domainerrors "kolekta/contexts/collections-core/ptp-ledger/domain/errors"
	"kolekta/contexts/collections-core/ptp-ledger/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newFixture wires a service against the memory store with a pinned clock:
// due date 2024-01-10, evaluated at 2024-01-12 (DPD 2, tier 1, ceiling
// due+4 = 2024-01-14).
func newFixture(t *testing.T) (application.Service, *ptpledger.Module) {
	t.Helper()
	module := ptpledger.NewInMemoryModule(nil)
	module.Store.SetInstallment(ports.InstallmentProjection{
		InstallmentID: "inst-1",
		AccountID:     "acct-1",
		DueDate:       date(2024, time.January, 10),
		DueAmount:     100000,
		Status:        "late",
	})
	service := module.Service
	service.Clock = fixedClock{now: date(2024, time.January, 12)}
	return service, &module
}

func TestCreateRejectsDateBeyondBucketCeiling(t *testing.T) {
	service, _ := newFixture(t)

	_, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 20),
		AgentID:       "agent-a",
	})
	if !errors.Is(err, domainerrors.ErrDateBeyondBucketCeiling) {
		t.Fatalf("expected ErrDateBeyondBucketCeiling, got %v", err)
	}
}

func TestCreateWithinCeilingMirrorsInstallmentAndNote(t *testing.T) {
	service, module := newFixture(t)

	promise, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 13),
		AgentID:       "agent-a",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if promise.Status != entities.PromiseStatusOpen {
		t.Fatalf("expected OPEN promise, got %s", promise.Status)
	}

	installment, err := module.Store.GetInstallment(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("get installment failed: %v", err)
	}
	if installment.PTPAmount != 100000 || installment.PTPDate == nil || !installment.PTPDate.Equal(date(2024, time.January, 13)) {
		t.Fatalf("installment ptp fields not mirrored: %+v", installment)
	}
	notes := module.Store.Notes("inst-1")
	if len(notes) != 1 {
		t.Fatalf("expected one audit note, got %d", len(notes))
	}
}

func TestCreateRejectsSecondActivePromise(t *testing.T) {
	service, _ := newFixture(t)

	if _, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        50000,
		PromisedDate:  date(2024, time.January, 13),
		AgentID:       "agent-a",
	}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        60000,
		PromisedDate:  date(2024, time.January, 14),
		AgentID:       "agent-b",
	})
	if !errors.Is(err, domainerrors.ErrActivePTPExists) {
		t.Fatalf("expected ErrActivePTPExists, got %v", err)
	}
}

func TestCreateRejectsSettledInstallment(t *testing.T) {
	service, module := newFixture(t)
	module.Store.SetInstallment(ports.InstallmentProjection{
		InstallmentID: "inst-paid",
		AccountID:     "acct-1",
		DueDate:       date(2024, time.January, 10),
		DueAmount:     100000,
		PaidAmount:    100000,
		Status:        "paid",
	})

	_, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-paid",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 13),
		AgentID:       "agent-a",
	})
	if !errors.Is(err, domainerrors.ErrInstallmentAlreadySettled) {
		t.Fatalf("expected ErrInstallmentAlreadySettled, got %v", err)
	}
}

func TestSupersedesRequiresResolvedParent(t *testing.T) {
	service, _ := newFixture(t)

	first, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 13),
		AgentID:       "agent-a",
	})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := service.Resolve(context.Background(), first.PromiseID, entities.PromiseStatusBroken); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	second, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 14),
		AgentID:       "agent-a",
		Supersedes:    first.PromiseID,
	})
	if err != nil {
		t.Fatalf("superseding create failed: %v", err)
	}
	if second.Supersedes != first.PromiseID {
		t.Fatalf("expected supersedes back-reference, got %q", second.Supersedes)
	}
}

func TestResolveIsTerminal(t *testing.T) {
	service, _ := newFixture(t)

	promise, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 13),
		AgentID:       "agent-a",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.Resolve(context.Background(), promise.PromiseID, entities.PromiseStatusKept); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	_, err = service.Resolve(context.Background(), promise.PromiseID, entities.PromiseStatusBroken)
	if !errors.Is(err, domainerrors.ErrPromiseAlreadyResolved) {
		t.Fatalf("expected ErrPromiseAlreadyResolved, got %v", err)
	}
}

func TestApplyPaymentResolvesKeptOnTime(t *testing.T) {
	service, _ := newFixture(t)

	promise, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 13),
		AgentID:       "agent-a",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, changed, err := service.ApplyPayment(context.Background(), "inst-1", 100000, date(2024, time.January, 13))
	if err != nil || !changed {
		t.Fatalf("apply payment: changed=%v err=%v", changed, err)
	}
	if updated.Status != entities.PromiseStatusKept {
		t.Fatalf("expected KEPT, got %s", updated.Status)
	}
	if updated.PromiseID != promise.PromiseID {
		t.Fatalf("resolved a different promise: %s", updated.PromiseID)
	}
}

func TestApplyPaymentMarksPartial(t *testing.T) {
	service, _ := newFixture(t)

	if _, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 13),
		AgentID:       "agent-a",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, changed, err := service.ApplyPayment(context.Background(), "inst-1", 40000, date(2024, time.January, 12))
	if err != nil || !changed {
		t.Fatalf("apply payment: changed=%v err=%v", changed, err)
	}
	if updated.Status != entities.PromiseStatusPartial || updated.PaidTowards != 40000 {
		t.Fatalf("expected PARTIAL with 40000 towards, got %s/%d", updated.Status, updated.PaidTowards)
	}

	// A PARTIAL promise still occupies the active slot.
	_, err = service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        60000,
		PromisedDate:  date(2024, time.January, 14),
		AgentID:       "agent-a",
	})
	if !errors.Is(err, domainerrors.ErrActivePTPExists) {
		t.Fatalf("expected ErrActivePTPExists while PARTIAL, got %v", err)
	}
}

func TestLatePaymentDoesNotKeepPromise(t *testing.T) {
	service, _ := newFixture(t)

	promise, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 13),
		AgentID:       "agent-a",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, changed, err := service.ApplyPayment(context.Background(), "inst-1", 100000, date(2024, time.January, 15))
	if err != nil {
		t.Fatalf("apply payment failed: %v", err)
	}
	if changed {
		t.Fatalf("late full payment must not resolve the promise")
	}

	broken, err := service.ExpireOverdue(context.Background(), date(2024, time.January, 15))
	if err != nil {
		t.Fatalf("expire sweep failed: %v", err)
	}
	if broken != 1 {
		t.Fatalf("expected one broken promise, got %d", broken)
	}
	got, err := service.Get(context.Background(), promise.PromiseID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != entities.PromiseStatusBroken {
		t.Fatalf("expected BROKEN after sweep, got %s", got.Status)
	}
}

func TestExpireOverdueLeavesFuturePromises(t *testing.T) {
	service, _ := newFixture(t)

	if _, err := service.Create(context.Background(), application.CreatePromiseCommand{
		InstallmentID: "inst-1",
		Amount:        100000,
		PromisedDate:  date(2024, time.January, 14),
		AgentID:       "agent-a",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	broken, err := service.ExpireOverdue(context.Background(), date(2024, time.January, 14))
	if err != nil {
		t.Fatalf("expire sweep failed: %v", err)
	}
	if broken != 0 {
		t.Fatalf("promise due today must survive the sweep, broke %d", broken)
	}
}
