package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	ledgererrors "kolekta/contexts/collections-core/payment-ledger/domain/errors"
	ledgerhttp "kolekta/contexts/collections-core/payment-ledger/transport/http"
)

func (s *Server) handlePostEvent(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.PostEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.PostEventHandler(r.Context(), r.PathValue("installment_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVoidEvent(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.VoidEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.VoidEventHandler(r.Context(), r.PathValue("event_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOutstanding(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.OutstandingHandler(r.Context(), r.PathValue("installment_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	// Responses never show a negative rollup.
	if resp.Outstanding < 0 {
		resp.Outstanding = 0
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListEventsHandler(r.Context(), r.PathValue("installment_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrInvalidInput):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrInstallmentNotFound),
		errors.Is(err, ledgererrors.ErrEventNotFound):
		writeLedgerError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrUnsupportedEventType):
		writeLedgerError(w, http.StatusUnprocessableEntity, "unsupported_event_type", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyVoided):
		writeLedgerError(w, http.StatusConflict, "already_voided", err.Error())
	case errors.Is(err, ledgererrors.ErrOverpaymentRejected):
		writeLedgerError(w, http.StatusUnprocessableEntity, "overpayment_rejected", err.Error())
	case errors.Is(err, ledgererrors.ErrTransferFailed):
		writeLedgerError(w, http.StatusConflict, "transfer_failed", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
