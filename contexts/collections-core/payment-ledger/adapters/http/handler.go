package httpadapter

import (
	"context"
	"log/slog"

	"kolekta/contexts/collections-core/payment-ledger/application"
	"kolekta/contexts/collections-core/payment-ledger/domain/entities"
	httptransport "kolekta/contexts/collections-core/payment-ledger/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) PostEventHandler(ctx context.Context, installmentID string, req httptransport.PostEventRequest) (httptransport.PostEventResponse, error) {
	result, err := h.Service.PostEvent(ctx, installmentID, entities.EventType(req.EventType), req.Amount, req.Metadata)
	if err != nil {
		return httptransport.PostEventResponse{}, err
	}
	return httptransport.PostEventResponse{
		Event:       toEventResponse(result.Event),
		PaidTotal:   result.PaidTotal,
		Outstanding: result.Outstanding,
	}, nil
}

func (h Handler) VoidEventHandler(ctx context.Context, eventID string, req httptransport.VoidEventRequest) (httptransport.VoidEventResponse, error) {
	void, err := h.Service.Void(ctx, eventID, req.Reason, req.DestinationInstallmentID)
	if err != nil {
		return httptransport.VoidEventResponse{}, err
	}
	return httptransport.VoidEventResponse{
		VoidID:                   void.VoidID,
		OriginalEventID:          void.OriginalEventID,
		Amount:                   void.Amount,
		Reason:                   void.Reason,
		DestinationInstallmentID: void.DestinationInstallmentID,
		CreatedAt:                void.CreatedAt,
	}, nil
}

func (h Handler) OutstandingHandler(ctx context.Context, installmentID string) (httptransport.OutstandingResponse, error) {
	outstanding, err := h.Service.Outstanding(ctx, installmentID)
	if err != nil {
		return httptransport.OutstandingResponse{}, err
	}
	return httptransport.OutstandingResponse{
		InstallmentID: installmentID,
		Outstanding:   outstanding,
	}, nil
}

func (h Handler) ListEventsHandler(ctx context.Context, installmentID string) (httptransport.EventListResponse, error) {
	events, err := h.Service.ListEvents(ctx, installmentID)
	if err != nil {
		return httptransport.EventListResponse{}, err
	}
	responses := make([]httptransport.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, toEventResponse(event))
	}
	return httptransport.EventListResponse{
		InstallmentID: installmentID,
		Events:        responses,
	}, nil
}

func toEventResponse(event entities.PaymentEvent) httptransport.EventResponse {
	return httptransport.EventResponse{
		EventID:       event.EventID,
		InstallmentID: event.InstallmentID,
		EventType:     string(event.Type),
		Amount:        event.Amount,
		Metadata:      event.Metadata,
		Voided:        event.Voided,
		CreatedAt:     event.CreatedAt,
	}
}
