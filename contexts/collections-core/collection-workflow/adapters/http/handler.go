package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"kolekta/contexts/collections-core/collection-workflow/application"
	"kolekta/contexts/collections-core/collection-workflow/domain"
	domainerrors "kolekta/contexts/collections-core/collection-workflow/domain/errors"
	"kolekta/contexts/collections-core/collection-workflow/ports"
	httptransport "kolekta/contexts/collections-core/collection-workflow/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ContactOutcomeHandler(ctx context.Context, installmentID string, req httptransport.ContactOutcomeRequest) (httptransport.ContactOutcomeResponse, error) {
	cmd := application.ContactOutcomeCommand{
		InstallmentID: installmentID,
		AgentID:       req.AgentID,
		Outcome:       domain.OutcomeCode(req.Outcome),
		Note:          req.Note,
	}
	if req.Promise != nil {
		promisedDate, err := time.Parse("2006-01-02", req.Promise.PromisedDate)
		if err != nil {
			return httptransport.ContactOutcomeResponse{}, domainerrors.ErrInvalidInput
		}
		cmd.Promise = &application.PromiseDetails{
			Amount:       req.Promise.Amount,
			PromisedDate: promisedDate,
			Supersedes:   req.Promise.Supersedes,
		}
	}

	result, err := h.Service.RecordContactOutcome(ctx, cmd)
	if err != nil {
		return httptransport.ContactOutcomeResponse{}, err
	}
	return httptransport.ContactOutcomeResponse{
		InstallmentID: installmentID,
		Outcome:       string(result.Outcome),
		Promise:       toPromiseRefResponse(result.Promise),
	}, nil
}

func (h Handler) RecordPaymentHandler(ctx context.Context, installmentID string, req httptransport.RecordPaymentRequest) (httptransport.RecordPaymentResponse, error) {
	result, err := h.Service.RecordPayment(ctx, application.PaymentCommand{
		InstallmentID: installmentID,
		Amount:        req.Amount,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return httptransport.RecordPaymentResponse{}, err
	}
	return httptransport.RecordPaymentResponse{
		InstallmentID:   installmentID,
		EventID:         result.Receipt.EventID,
		PaidTotal:       result.Receipt.PaidTotal,
		Outstanding:     result.Receipt.Outstanding,
		PromiseResolved: result.PromiseResolved,
		Promise:         toPromiseRefResponse(result.Promise),
	}, nil
}

func toPromiseRefResponse(promise *ports.PromiseRef) *httptransport.PromiseRefResponse {
	if promise == nil {
		return nil
	}
	return &httptransport.PromiseRefResponse{
		PromiseID:    promise.PromiseID,
		Status:       promise.Status,
		Amount:       promise.Amount,
		PromisedDate: promise.PromisedDate,
	}
}
