package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreatePromiseRequest struct {
	Amount       int64  `json:"amount"`
	PromisedDate string `json:"promised_date"` // 2006-01-02
	AgentID      string `json:"agent_id"`
	Note         string `json:"note,omitempty"`
	Supersedes   string `json:"supersedes,omitempty"`
}

type ResolvePromiseRequest struct {
	Outcome string `json:"outcome"`
}

type PromiseResponse struct {
	PromiseID     string     `json:"promise_id"`
	InstallmentID string     `json:"installment_id"`
	Amount        int64      `json:"amount"`
	PromisedDate  string     `json:"promised_date"`
	Status        string     `json:"status"`
	CreatedBy     string     `json:"created_by"`
	Supersedes    string     `json:"supersedes,omitempty"`
	PaidTowards   int64      `json:"paid_towards"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}
