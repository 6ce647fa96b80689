package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AcquireLockRequest struct {
	AgentID string `json:"agent_id"`
}

type LockResponse struct {
	InstallmentID string    `json:"installment_id"`
	AgentID       string    `json:"agent_id"`
	StatusAtLock  string    `json:"status_at_lock"`
	LockedAt      time.Time `json:"locked_at"`
	AlreadyHeld   bool      `json:"already_held"`
}

type ReleaseLockRequest struct {
	AgentID        string `json:"agent_id"`
	RecordedStatus string `json:"recorded_status"`
}

type LockStatusResponse struct {
	InstallmentID string `json:"installment_id"`
	Locked        bool   `json:"locked"`
	HolderID      string `json:"holder_id,omitempty"`
}

type LockAuditItem struct {
	AuditID        string    `json:"audit_id"`
	InstallmentID  string    `json:"installment_id"`
	AgentID        string    `json:"agent_id"`
	Action         string    `json:"action"`
	RecordedStatus string    `json:"recorded_status,omitempty"`
	ForcedBy       string    `json:"forced_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type LockAuditsResponse struct {
	Items []LockAuditItem `json:"items"`
}
