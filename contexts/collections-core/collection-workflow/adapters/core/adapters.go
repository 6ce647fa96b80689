// Package coreadapter bridges the orchestrator's narrow ports onto the
// application services of the other collections-core modules.
package coreadapter

import (
	"context"
	"time"

	"kolekta/contexts/collections-core/collection-workflow/ports"
	paymentapp "kolekta/contexts/collections-core/payment-ledger/application"
	paymententities "kolekta/contexts/collections-core/payment-ledger/domain/entities"
	ptpapp "kolekta/contexts/collections-core/ptp-ledger/application"
	recordlockapp "kolekta/contexts/collections-core/record-lock/application"
)

type LockAdapter struct {
	Service recordlockapp.Service
}

func (a LockAdapter) HolderOf(ctx context.Context, installmentID string) (string, bool, error) {
	return a.Service.HolderOf(ctx, installmentID)
}

type PromiseAdapter struct {
	Service ptpapp.Service
}

func (a PromiseAdapter) Create(ctx context.Context, input ports.CreatePromiseInput) (ports.PromiseRef, error) {
	promise, err := a.Service.Create(ctx, ptpapp.CreatePromiseCommand{
		InstallmentID: input.InstallmentID,
		Amount:        input.Amount,
		PromisedDate:  input.PromisedDate,
		AgentID:       input.AgentID,
		Note:          input.Note,
		Supersedes:    input.Supersedes,
	})
	if err != nil {
		return ports.PromiseRef{}, err
	}
	return ports.PromiseRef{
		PromiseID:    promise.PromiseID,
		Status:       string(promise.Status),
		Amount:       promise.Amount,
		PromisedDate: promise.PromisedDate,
	}, nil
}

func (a PromiseAdapter) ApplyPayment(ctx context.Context, installmentID string, cumulativePaid int64, postedAt time.Time) (ports.PromiseRef, bool, error) {
	promise, resolved, err := a.Service.ApplyPayment(ctx, installmentID, cumulativePaid, postedAt)
	if err != nil {
		return ports.PromiseRef{}, false, err
	}
	if promise.PromiseID == "" {
		return ports.PromiseRef{}, false, nil
	}
	return ports.PromiseRef{
		PromiseID:    promise.PromiseID,
		Status:       string(promise.Status),
		Amount:       promise.Amount,
		PromisedDate: promise.PromisedDate,
	}, resolved, nil
}

type PaymentAdapter struct {
	Service paymentapp.Service
}

func (a PaymentAdapter) PostPayment(ctx context.Context, installmentID string, amount int64, metadata map[string]string) (ports.PaymentReceipt, error) {
	result, err := a.Service.PostEvent(ctx, installmentID, paymententities.EventTypePayment, amount, metadata)
	if err != nil {
		return ports.PaymentReceipt{}, err
	}
	return ports.PaymentReceipt{
		EventID:     result.Event.EventID,
		PaidTotal:   result.PaidTotal,
		Outstanding: result.Outstanding,
	}, nil
}
