package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	bucketdomain "kolekta/contexts/collections-core/bucket-engine/domain"
	"kolekta/contexts/collections-core/ptp-ledger/domain/entities"
	domainerrors "kolekta/contexts/collections-core/ptp-ledger/domain/errors"
	"kolekta/contexts/collections-core/ptp-ledger/ports"
)

// settledStatuses are the installment statuses under which no new promise
// may be recorded.
var settledStatuses = map[string]bool{
	"paid":     true,
	"paid_off": true,
	"settled":  true,
}

type Service struct {
	Promises     ports.PromiseRepository
	Installments ports.InstallmentReader
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

type CreatePromiseCommand struct {
	InstallmentID string
	Amount        int64
	PromisedDate  time.Time
	AgentID       string
	Note          string
	Supersedes    string
}

// Create records a new promise. The promised date must not exceed the
// bucket ceiling derived from the installment's DPD and oldest unpaid due
// date. Promise insert, installment ptp-field mirror, and audit note land
// as one atomic repository unit.
func (s Service) Create(ctx context.Context, cmd CreatePromiseCommand) (entities.PromiseToPay, error) {
	cmd.InstallmentID = strings.TrimSpace(cmd.InstallmentID)
	cmd.AgentID = strings.TrimSpace(cmd.AgentID)
	if cmd.InstallmentID == "" || cmd.AgentID == "" || cmd.Amount <= 0 || cmd.PromisedDate.IsZero() {
		return entities.PromiseToPay{}, domainerrors.ErrInvalidInput
	}

	installment, err := s.Installments.GetInstallment(ctx, cmd.InstallmentID)
	if err != nil {
		return entities.PromiseToPay{}, err
	}
	if settledStatuses[strings.ToLower(strings.TrimSpace(installment.Status))] {
		return entities.PromiseToPay{}, domainerrors.ErrInstallmentAlreadySettled
	}

	now := s.now()
	oldestUnpaid := installment.OldestUnpaidDue
	if oldestUnpaid.IsZero() {
		oldestUnpaid = installment.DueDate
	}
	dpd := bucketdomain.DaysPastDue(installment.DueDate, now)
	ceiling := bucketdomain.PromiseCeiling(dpd, oldestUnpaid)
	promisedDate := cmd.PromisedDate.UTC().Truncate(24 * time.Hour)
	if promisedDate.After(ceiling) {
		return entities.PromiseToPay{}, domainerrors.ErrDateBeyondBucketCeiling
	}

	if _, found, err := s.Promises.GetActivePromise(ctx, cmd.InstallmentID); err != nil {
		return entities.PromiseToPay{}, err
	} else if found {
		return entities.PromiseToPay{}, domainerrors.ErrActivePTPExists
	}

	if supersedes := strings.TrimSpace(cmd.Supersedes); supersedes != "" {
		parent, err := s.Promises.GetPromise(ctx, supersedes)
		if err != nil {
			return entities.PromiseToPay{}, err
		}
		if parent.Active() {
			return entities.PromiseToPay{}, domainerrors.ErrSupersededPromiseNotResolved
		}
	}

	promiseID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.PromiseToPay{}, err
	}
	noteID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.PromiseToPay{}, err
	}

	promise := entities.PromiseToPay{
		PromiseID:     promiseID,
		InstallmentID: cmd.InstallmentID,
		Amount:        cmd.Amount,
		PromisedDate:  promisedDate,
		Status:        entities.PromiseStatusOpen,
		CreatedBy:     cmd.AgentID,
		Supersedes:    strings.TrimSpace(cmd.Supersedes),
		CreatedAt:     now,
	}
	body := strings.TrimSpace(cmd.Note)
	if body == "" {
		body = fmt.Sprintf("promise to pay %d by %s", cmd.Amount, promisedDate.Format("2006-01-02"))
	}
	if err := s.Promises.CreatePromise(ctx, ports.CreatePromiseInput{
		Promise: promise,
		Note: ports.AuditNote{
			NoteID:        noteID,
			InstallmentID: cmd.InstallmentID,
			AgentID:       cmd.AgentID,
			Body:          body,
			CreatedAt:     now,
		},
	}); err != nil {
		return entities.PromiseToPay{}, err
	}

	ResolveLogger(s.Logger).Info("promise to pay recorded",
		"event", "ptp_created",
		"module", "collections-core/ptp-ledger",
		"layer", "application",
		"installment_id", cmd.InstallmentID,
		"promise_id", promise.PromiseID,
		"amount", cmd.Amount,
		"promised_date", promisedDate.Format("2006-01-02"),
		"agent_id", cmd.AgentID,
	)
	return promise, nil
}

// Resolve applies an explicit outcome to an active promise. Terminal
// promises are immutable: a KEPT promise stays KEPT even when its settling
// payment is later voided.
func (s Service) Resolve(ctx context.Context, promiseID string, outcome entities.PromiseStatus) (entities.PromiseToPay, error) {
	promiseID = strings.TrimSpace(promiseID)
	if promiseID == "" {
		return entities.PromiseToPay{}, domainerrors.ErrInvalidInput
	}
	switch outcome {
	case entities.PromiseStatusKept, entities.PromiseStatusBroken, entities.PromiseStatusPartial:
	default:
		return entities.PromiseToPay{}, domainerrors.ErrInvalidInput
	}

	promise, err := s.Promises.GetPromise(ctx, promiseID)
	if err != nil {
		return entities.PromiseToPay{}, err
	}
	if !promise.Active() {
		return entities.PromiseToPay{}, domainerrors.ErrPromiseAlreadyResolved
	}

	now := s.now()
	if err := s.Promises.ResolvePromise(ctx, ports.ResolvePromiseInput{
		PromiseID:   promiseID,
		Status:      outcome,
		PaidTowards: promise.PaidTowards,
		ResolvedAt:  now,
	}); err != nil {
		return entities.PromiseToPay{}, err
	}
	promise.Status = outcome
	if promise.Resolved() {
		promise.ResolvedAt = &now
	}

	ResolveLogger(s.Logger).Info("promise to pay resolved",
		"event", "ptp_resolved",
		"module", "collections-core/ptp-ledger",
		"layer", "application",
		"promise_id", promiseID,
		"outcome", string(outcome),
	)
	return promise, nil
}

// ApplyPayment folds a new cumulative paid total into the active promise:
// KEPT when the promised amount is met on or before the promised date,
// PARTIAL while something has been paid. Late payments are left to the
// expiry sweep.
func (s Service) ApplyPayment(ctx context.Context, installmentID string, cumulativePaid int64, postedAt time.Time) (entities.PromiseToPay, bool, error) {
	installmentID = strings.TrimSpace(installmentID)
	if installmentID == "" {
		return entities.PromiseToPay{}, false, domainerrors.ErrInvalidInput
	}
	promise, found, err := s.Promises.GetActivePromise(ctx, installmentID)
	if err != nil || !found {
		return entities.PromiseToPay{}, false, err
	}

	onTime := !postedAt.UTC().Truncate(24 * time.Hour).After(promise.PromisedDate)
	var status entities.PromiseStatus
	switch {
	case cumulativePaid >= promise.Amount && onTime:
		status = entities.PromiseStatusKept
	case cumulativePaid > 0 && cumulativePaid < promise.Amount:
		status = entities.PromiseStatusPartial
	default:
		return promise, false, nil
	}
	if status == entities.PromiseStatusPartial && promise.Status == entities.PromiseStatusPartial && promise.PaidTowards == cumulativePaid {
		return promise, false, nil
	}

	now := s.now()
	if err := s.Promises.ResolvePromise(ctx, ports.ResolvePromiseInput{
		PromiseID:   promise.PromiseID,
		Status:      status,
		PaidTowards: cumulativePaid,
		ResolvedAt:  now,
	}); err != nil {
		return entities.PromiseToPay{}, false, err
	}
	promise.Status = status
	promise.PaidTowards = cumulativePaid
	if promise.Resolved() {
		promise.ResolvedAt = &now
	}

	ResolveLogger(s.Logger).Info("promise to pay settlement applied",
		"event", "ptp_payment_applied",
		"module", "collections-core/ptp-ledger",
		"layer", "application",
		"installment_id", installmentID,
		"promise_id", promise.PromiseID,
		"status", string(status),
		"paid_towards", cumulativePaid,
	)
	return promise, true, nil
}

// ExpireOverdue breaks every OPEN/PARTIAL promise whose date has elapsed
// unmet. Driven by the worker's daily sweep.
func (s Service) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.UTC().Truncate(24 * time.Hour)
	overdue, err := s.Promises.ListActiveDueBefore(ctx, cutoff, 500)
	if err != nil {
		return 0, err
	}
	broken := 0
	for _, promise := range overdue {
		if err := s.Promises.ResolvePromise(ctx, ports.ResolvePromiseInput{
			PromiseID:   promise.PromiseID,
			Status:      entities.PromiseStatusBroken,
			PaidTowards: promise.PaidTowards,
			ResolvedAt:  now.UTC(),
		}); err != nil {
			return broken, err
		}
		broken++
	}
	if broken > 0 {
		ResolveLogger(s.Logger).Info("overdue promises broken",
			"event", "ptp_expiry_sweep",
			"module", "collections-core/ptp-ledger",
			"layer", "application",
			"broken", broken,
		)
	}
	return broken, nil
}

func (s Service) Get(ctx context.Context, promiseID string) (entities.PromiseToPay, error) {
	promiseID = strings.TrimSpace(promiseID)
	if promiseID == "" {
		return entities.PromiseToPay{}, domainerrors.ErrInvalidInput
	}
	return s.Promises.GetPromise(ctx, promiseID)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
