package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	lockerrors "kolekta/contexts/collections-core/record-lock/domain/errors"
	lockhttp "kolekta/contexts/collections-core/record-lock/transport/http"
)

func (s *Server) handleAcquireLock(w http.ResponseWriter, r *http.Request) {
	var req lockhttp.AcquireLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLockError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.locks.Handler.AcquireLockHandler(r.Context(), r.PathValue("installment_id"), req)
	if err != nil {
		writeLockDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReleaseLock(w http.ResponseWriter, r *http.Request) {
	var req lockhttp.ReleaseLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLockError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.locks.Handler.ReleaseLockHandler(r.Context(), r.PathValue("installment_id"), req); err != nil {
		writeLockDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLockStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.locks.Handler.LockStatusHandler(r.Context(), r.PathValue("installment_id"))
	if err != nil {
		writeLockDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLockAudits(w http.ResponseWriter, r *http.Request) {
	resp, err := s.locks.Handler.LockAuditsHandler(r.Context(), r.PathValue("installment_id"))
	if err != nil {
		writeLockDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLockDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lockerrors.ErrInvalidInput):
		writeLockError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, lockerrors.ErrInstallmentNotFound):
		writeLockError(w, http.StatusNotFound, "installment_not_found", err.Error())
	case errors.Is(err, lockerrors.ErrAlreadyLockedByOther):
		writeLockError(w, http.StatusConflict, "already_locked_by_other", err.Error())
	case errors.Is(err, lockerrors.ErrAgentQuotaExceeded):
		writeLockError(w, http.StatusConflict, "agent_quota_exceeded", err.Error())
	case errors.Is(err, lockerrors.ErrNotLocked):
		writeLockError(w, http.StatusConflict, "not_locked", err.Error())
	case errors.Is(err, lockerrors.ErrNotLockHolder):
		writeLockError(w, http.StatusForbidden, "not_lock_holder", err.Error())
	case errors.Is(err, lockerrors.ErrDeepDelinquentLock):
		writeLockError(w, http.StatusUnprocessableEntity, "deep_delinquency_lock_disabled", err.Error())
	default:
		writeLockError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLockError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, lockhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
