package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	bucketdomain "kolekta/contexts/collections-core/bucket-engine/domain"
	"kolekta/contexts/collections-core/collection-workflow/domain"
	domainerrors "kolekta/contexts/collections-core/collection-workflow/domain/errors"
	"kolekta/contexts/collections-core/collection-workflow/ports"
)

// vendorAssignmentMinDPD marks the high-delinquency tier whose unassigned
// installments route to an external vendor. Kept below the
// deep-delinquency threshold: at that point locks are force-expired and
// contact outcomes can no longer be recorded.
const vendorAssignmentMinDPD = 60

type Service struct {
	Locks        ports.LockChecker
	Promises     ports.PromiseWorkflow
	Payments     ports.PaymentPoster
	Installments ports.InstallmentReader
	Notes        ports.NoteAppender
	Dispatcher   ports.CollaboratorDispatcher
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

type PromiseDetails struct {
	Amount       int64
	PromisedDate time.Time
	Supersedes   string
}

type ContactOutcomeCommand struct {
	InstallmentID string
	AgentID       string
	Outcome       domain.OutcomeCode
	Note          string
	Promise       *PromiseDetails
}

type ContactOutcomeResult struct {
	Outcome domain.OutcomeCode
	Promise *ports.PromiseRef
}

type PaymentCommand struct {
	InstallmentID string
	Amount        int64
	Metadata      map[string]string
}

type PaymentResult struct {
	Receipt         ports.PaymentReceipt
	Promise         *ports.PromiseRef
	PromiseResolved bool
}

// RecordContactOutcome records one agent action. The acting agent must
// hold the record lock. A promise_to_pay outcome delegates to the PTP
// ledger, which writes the promise, the installment mirror fields, and
// the combined audit note in one atomic unit; every other outcome appends
// the contact note alone. Collaborator dispatch happens after the unit
// commits and never rolls it back.
func (s Service) RecordContactOutcome(ctx context.Context, cmd ContactOutcomeCommand) (ContactOutcomeResult, error) {
	cmd.InstallmentID = strings.TrimSpace(cmd.InstallmentID)
	cmd.AgentID = strings.TrimSpace(cmd.AgentID)
	if cmd.InstallmentID == "" || cmd.AgentID == "" {
		return ContactOutcomeResult{}, domainerrors.ErrInvalidInput
	}
	if !domain.ValidOutcome(cmd.Outcome) {
		return ContactOutcomeResult{}, domainerrors.ErrUnknownOutcome
	}

	holder, locked, err := s.Locks.HolderOf(ctx, cmd.InstallmentID)
	if err != nil {
		return ContactOutcomeResult{}, err
	}
	if !locked || holder != cmd.AgentID {
		return ContactOutcomeResult{}, domainerrors.ErrNotLocked
	}

	result := ContactOutcomeResult{Outcome: cmd.Outcome}
	if cmd.Outcome == domain.OutcomePromiseToPay {
		if cmd.Promise == nil {
			return ContactOutcomeResult{}, domainerrors.ErrInvalidInput
		}
		promise, err := s.Promises.Create(ctx, ports.CreatePromiseInput{
			InstallmentID: cmd.InstallmentID,
			Amount:        cmd.Promise.Amount,
			PromisedDate:  cmd.Promise.PromisedDate,
			AgentID:       cmd.AgentID,
			Note:          combinedNote(cmd.Outcome, cmd.Note, cmd.Promise),
			Supersedes:    cmd.Promise.Supersedes,
		})
		if err != nil {
			return ContactOutcomeResult{}, err
		}
		result.Promise = &promise
	} else {
		noteID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return ContactOutcomeResult{}, err
		}
		if err := s.Notes.AppendNote(ctx, ports.AuditNote{
			NoteID:        noteID,
			InstallmentID: cmd.InstallmentID,
			AgentID:       cmd.AgentID,
			Body:          combinedNote(cmd.Outcome, cmd.Note, nil),
			CreatedAt:     s.now(),
		}); err != nil {
			return ContactOutcomeResult{}, err
		}
	}

	ResolveLogger(s.Logger).Info("contact outcome recorded",
		"event", "contact_outcome_recorded",
		"module", "collections-core/collection-workflow",
		"layer", "application",
		"installment_id", cmd.InstallmentID,
		"agent_id", cmd.AgentID,
		"outcome", string(cmd.Outcome),
	)

	s.dispatchCollaborators(ctx, cmd)
	return result, nil
}

// RecordPayment posts a PAYMENT ledger event and feeds the new cumulative
// paid total to the PTP ledger so an active promise can resolve. The two
// modules own their writes; a promise-side failure after the ledger commit
// is surfaced, not rolled back.
func (s Service) RecordPayment(ctx context.Context, cmd PaymentCommand) (PaymentResult, error) {
	cmd.InstallmentID = strings.TrimSpace(cmd.InstallmentID)
	if cmd.InstallmentID == "" || cmd.Amount <= 0 {
		return PaymentResult{}, domainerrors.ErrInvalidInput
	}

	receipt, err := s.Payments.PostPayment(ctx, cmd.InstallmentID, cmd.Amount, cmd.Metadata)
	if err != nil {
		return PaymentResult{}, err
	}

	promise, resolved, err := s.Promises.ApplyPayment(ctx, cmd.InstallmentID, receipt.PaidTotal, s.now())
	if err != nil {
		return PaymentResult{}, err
	}

	result := PaymentResult{
		Receipt:         receipt,
		PromiseResolved: resolved,
	}
	if promise.PromiseID != "" {
		result.Promise = &promise
	}
	ResolveLogger(s.Logger).Info("payment recorded",
		"event", "payment_recorded",
		"module", "collections-core/collection-workflow",
		"layer", "application",
		"installment_id", cmd.InstallmentID,
		"event_id", receipt.EventID,
		"amount", cmd.Amount,
		"outstanding", receipt.Outstanding,
		"promise_resolved", resolved,
	)
	return result, nil
}

// dispatchCollaborators fires the post-commit side effects: dialer
// dequeue for terminal outcomes, vendor auto-assignment for unassigned
// deep-delinquent installments. Best-effort, at-least-once.
func (s Service) dispatchCollaborators(ctx context.Context, cmd ContactOutcomeCommand) {
	if s.Dispatcher == nil {
		return
	}
	logger := ResolveLogger(s.Logger)

	if domain.RequiresDialerRemoval(cmd.Outcome) {
		if err := s.Dispatcher.DialerQueueRemoval(ctx, cmd.InstallmentID); err != nil {
			logger.Error("dialer removal dispatch failed",
				"event", "dialer_removal_dispatch_failed",
				"module", "collections-core/collection-workflow",
				"layer", "application",
				"installment_id", cmd.InstallmentID,
				"outcome", string(cmd.Outcome),
				"error", err.Error(),
			)
		}
	}

	snapshot, err := s.Installments.GetInstallment(ctx, cmd.InstallmentID)
	if err != nil {
		logger.Error("installment snapshot unavailable for collaborator dispatch",
			"event", "collaborator_snapshot_failed",
			"module", "collections-core/collection-workflow",
			"layer", "application",
			"installment_id", cmd.InstallmentID,
			"error", err.Error(),
		)
		return
	}
	dpd := bucketdomain.DaysPastDue(snapshot.DueDate, s.now())
	if dpd >= vendorAssignmentMinDPD && !snapshot.VendorAssigned {
		if err := s.Dispatcher.VendorAutoAssignment(ctx, cmd.InstallmentID, cmd.AgentID); err != nil {
			logger.Error("vendor assignment dispatch failed",
				"event", "vendor_assignment_dispatch_failed",
				"module", "collections-core/collection-workflow",
				"layer", "application",
				"installment_id", cmd.InstallmentID,
				"agent_id", cmd.AgentID,
				"error", err.Error(),
			)
		}
	}
}

func combinedNote(outcome domain.OutcomeCode, note string, promise *PromiseDetails) string {
	body := fmt.Sprintf("contact outcome %s", outcome)
	if note != "" {
		body = fmt.Sprintf("%s: %s", body, note)
	}
	if promise != nil {
		body = fmt.Sprintf("%s | promise to pay %d by %s", body, promise.Amount, promise.PromisedDate.Format("2006-01-02"))
	}
	return body
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
