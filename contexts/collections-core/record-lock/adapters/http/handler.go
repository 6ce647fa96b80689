package httpadapter

import (
	"context"
	"log/slog"

	"kolekta/contexts/collections-core/record-lock/application"
	httptransport "kolekta/contexts/collections-core/record-lock/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// AcquireLockHandler godoc
// @Summary Acquire the exclusive agent lock on an installment
// @Description Fails with a conflict when another agent holds the lock or the agent quota is exhausted; re-acquire by the holder is idempotent.
// @Tags record-lock
// @Accept json
// @Produce json
// @Param installment_id path string true "Installment id"
// @Param request body httptransport.AcquireLockRequest true "Acquiring agent"
// @Success 200 {object} httptransport.LockResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/installments/{installment_id}/lock [post]
func (h Handler) AcquireLockHandler(ctx context.Context, installmentID string, req httptransport.AcquireLockRequest) (httptransport.LockResponse, error) {
	lock, alreadyHeld, err := h.Service.Acquire(ctx, installmentID, req.AgentID)
	if err != nil {
		return httptransport.LockResponse{}, err
	}
	return httptransport.LockResponse{
		InstallmentID: lock.InstallmentID,
		AgentID:       lock.AgentID,
		StatusAtLock:  lock.StatusAtLock,
		LockedAt:      lock.LockedAt,
		AlreadyHeld:   alreadyHeld,
	}, nil
}

// ReleaseLockHandler godoc
// @Summary Release the lock on an installment
// @Description Only the holder may release; an admin-unlock capability force-releases and records who forced it.
// @Tags record-lock
// @Accept json
// @Produce json
// @Param installment_id path string true "Installment id"
// @Param request body httptransport.ReleaseLockRequest true "Releasing agent and recorded status"
// @Success 204
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/installments/{installment_id}/unlock [post]
func (h Handler) ReleaseLockHandler(ctx context.Context, installmentID string, req httptransport.ReleaseLockRequest) error {
	return h.Service.Release(ctx, installmentID, req.AgentID, req.RecordedStatus)
}

// LockStatusHandler godoc
// @Summary Read the current lock holder
// @Tags record-lock
// @Produce json
// @Param installment_id path string true "Installment id"
// @Success 200 {object} httptransport.LockStatusResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/installments/{installment_id}/lock [get]
func (h Handler) LockStatusHandler(ctx context.Context, installmentID string) (httptransport.LockStatusResponse, error) {
	locked, holder, err := h.Service.IsLocked(ctx, installmentID)
	if err != nil {
		return httptransport.LockStatusResponse{}, err
	}
	return httptransport.LockStatusResponse{
		InstallmentID: installmentID,
		Locked:        locked,
		HolderID:      holder,
	}, nil
}

func (h Handler) LockAuditsHandler(ctx context.Context, installmentID string) (httptransport.LockAuditsResponse, error) {
	audits, err := h.Service.Audits(ctx, installmentID)
	if err != nil {
		return httptransport.LockAuditsResponse{}, err
	}
	items := make([]httptransport.LockAuditItem, 0, len(audits))
	for _, audit := range audits {
		items = append(items, httptransport.LockAuditItem{
			AuditID:        audit.AuditID,
			InstallmentID:  audit.InstallmentID,
			AgentID:        audit.AgentID,
			Action:         string(audit.Action),
			RecordedStatus: audit.RecordedStatus,
			ForcedBy:       audit.ForcedBy,
			CreatedAt:      audit.CreatedAt,
		})
	}
	return httptransport.LockAuditsResponse{Items: items}, nil
}
