package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	workflowerrors "kolekta/contexts/collections-core/collection-workflow/domain/errors"
	workflowhttp "kolekta/contexts/collections-core/collection-workflow/transport/http"
	ledgererrors "kolekta/contexts/collections-core/payment-ledger/domain/errors"
	ptperrors "kolekta/contexts/collections-core/ptp-ledger/domain/errors"
)

func (s *Server) handleContactOutcome(w http.ResponseWriter, r *http.Request) {
	var req workflowhttp.ContactOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.ContactOutcomeHandler(r.Context(), r.PathValue("installment_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req workflowhttp.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWorkflowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.workflow.Handler.RecordPaymentHandler(r.Context(), r.PathValue("installment_id"), req)
	if err != nil {
		writeWorkflowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// writeWorkflowDomainError also maps the delegated ledger errors so the
// orchestration endpoints report the underlying conflict, not a 500.
func writeWorkflowDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflowerrors.ErrInvalidInput),
		errors.Is(err, workflowerrors.ErrUnknownOutcome):
		writeWorkflowError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, workflowerrors.ErrNotLocked):
		writeWorkflowError(w, http.StatusConflict, "not_locked", err.Error())
	case errors.Is(err, workflowerrors.ErrInstallmentNotFound):
		writeWorkflowError(w, http.StatusNotFound, "installment_not_found", err.Error())
	case errors.Is(err, ptperrors.ErrDateBeyondBucketCeiling):
		writeWorkflowError(w, http.StatusUnprocessableEntity, "date_beyond_bucket_ceiling", err.Error())
	case errors.Is(err, ptperrors.ErrInstallmentAlreadySettled):
		writeWorkflowError(w, http.StatusConflict, "installment_already_settled", err.Error())
	case errors.Is(err, ptperrors.ErrActivePTPExists):
		writeWorkflowError(w, http.StatusConflict, "active_ptp_exists", err.Error())
	case errors.Is(err, ptperrors.ErrInvalidInput):
		writeWorkflowError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrOverpaymentRejected):
		writeWorkflowError(w, http.StatusUnprocessableEntity, "overpayment_rejected", err.Error())
	case errors.Is(err, ledgererrors.ErrInstallmentNotFound):
		writeWorkflowError(w, http.StatusNotFound, "installment_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidInput):
		writeWorkflowError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeWorkflowError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeWorkflowError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, workflowhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
