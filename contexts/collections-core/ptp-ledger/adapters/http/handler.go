package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"kolekta/contexts/collections-core/ptp-ledger/application"
	"kolekta/contexts/collections-core/ptp-ledger/domain/entities"
	domainerrors "kolekta/contexts/collections-core/ptp-ledger/domain/errors"
	httptransport "kolekta/contexts/collections-core/ptp-ledger/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreatePromiseHandler(ctx context.Context, installmentID string, req httptransport.CreatePromiseRequest) (httptransport.PromiseResponse, error) {
	promisedDate, err := time.Parse("2006-01-02", req.PromisedDate)
	if err != nil {
		return httptransport.PromiseResponse{}, domainerrors.ErrInvalidInput
	}
	promise, err := h.Service.Create(ctx, application.CreatePromiseCommand{
		InstallmentID: installmentID,
		Amount:        req.Amount,
		PromisedDate:  promisedDate,
		AgentID:       req.AgentID,
		Note:          req.Note,
		Supersedes:    req.Supersedes,
	})
	if err != nil {
		return httptransport.PromiseResponse{}, err
	}
	return toPromiseResponse(promise), nil
}

func (h Handler) ResolvePromiseHandler(ctx context.Context, promiseID string, req httptransport.ResolvePromiseRequest) (httptransport.PromiseResponse, error) {
	promise, err := h.Service.Resolve(ctx, promiseID, entities.PromiseStatus(req.Outcome))
	if err != nil {
		return httptransport.PromiseResponse{}, err
	}
	return toPromiseResponse(promise), nil
}

func (h Handler) GetPromiseHandler(ctx context.Context, promiseID string) (httptransport.PromiseResponse, error) {
	promise, err := h.Service.Get(ctx, promiseID)
	if err != nil {
		return httptransport.PromiseResponse{}, err
	}
	return toPromiseResponse(promise), nil
}

func toPromiseResponse(promise entities.PromiseToPay) httptransport.PromiseResponse {
	return httptransport.PromiseResponse{
		PromiseID:     promise.PromiseID,
		InstallmentID: promise.InstallmentID,
		Amount:        promise.Amount,
		PromisedDate:  promise.PromisedDate.Format("2006-01-02"),
		Status:        string(promise.Status),
		CreatedBy:     promise.CreatedBy,
		Supersedes:    promise.Supersedes,
		PaidTowards:   promise.PaidTowards,
		CreatedAt:     promise.CreatedAt,
		ResolvedAt:    promise.ResolvedAt,
	}
}
