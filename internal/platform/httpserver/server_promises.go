package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	ptperrors "kolekta/contexts/collections-core/ptp-ledger/domain/errors"
	ptphttp "kolekta/contexts/collections-core/ptp-ledger/transport/http"
)

func (s *Server) handleCreatePromise(w http.ResponseWriter, r *http.Request) {
	var req ptphttp.CreatePromiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePromiseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.promises.Handler.CreatePromiseHandler(r.Context(), r.PathValue("installment_id"), req)
	if err != nil {
		writePromiseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPromise(w http.ResponseWriter, r *http.Request) {
	resp, err := s.promises.Handler.GetPromiseHandler(r.Context(), r.PathValue("promise_id"))
	if err != nil {
		writePromiseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolvePromise(w http.ResponseWriter, r *http.Request) {
	var req ptphttp.ResolvePromiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePromiseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.promises.Handler.ResolvePromiseHandler(r.Context(), r.PathValue("promise_id"), req)
	if err != nil {
		writePromiseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePromiseDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ptperrors.ErrInvalidInput):
		writePromiseError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ptperrors.ErrInstallmentNotFound),
		errors.Is(err, ptperrors.ErrPromiseNotFound):
		writePromiseError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ptperrors.ErrDateBeyondBucketCeiling):
		writePromiseError(w, http.StatusUnprocessableEntity, "date_beyond_bucket_ceiling", err.Error())
	case errors.Is(err, ptperrors.ErrInstallmentAlreadySettled):
		writePromiseError(w, http.StatusConflict, "installment_already_settled", err.Error())
	case errors.Is(err, ptperrors.ErrActivePTPExists):
		writePromiseError(w, http.StatusConflict, "active_ptp_exists", err.Error())
	case errors.Is(err, ptperrors.ErrPromiseAlreadyResolved):
		writePromiseError(w, http.StatusConflict, "promise_already_resolved", err.Error())
	case errors.Is(err, ptperrors.ErrSupersededPromiseNotResolved):
		writePromiseError(w, http.StatusConflict, "superseded_promise_not_resolved", err.Error())
	default:
		writePromiseError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePromiseError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ptphttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
