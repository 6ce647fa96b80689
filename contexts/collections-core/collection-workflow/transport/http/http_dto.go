package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PromiseDetailsRequest struct {
	Amount       int64  `json:"amount"`
	PromisedDate string `json:"promised_date"` // 2006-01-02
	Supersedes   string `json:"supersedes,omitempty"`
}

type ContactOutcomeRequest struct {
	AgentID string                 `json:"agent_id"`
	Outcome string                 `json:"outcome"`
	Note    string                 `json:"note,omitempty"`
	Promise *PromiseDetailsRequest `json:"promise,omitempty"`
}

type PromiseRefResponse struct {
	PromiseID    string    `json:"promise_id"`
	Status       string    `json:"status"`
	Amount       int64     `json:"amount"`
	PromisedDate time.Time `json:"promised_date"`
}

type ContactOutcomeResponse struct {
	InstallmentID string              `json:"installment_id"`
	Outcome       string              `json:"outcome"`
	Promise       *PromiseRefResponse `json:"promise,omitempty"`
}

type RecordPaymentRequest struct {
	Amount   int64             `json:"amount"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type RecordPaymentResponse struct {
	InstallmentID   string              `json:"installment_id"`
	EventID         string              `json:"event_id"`
	PaidTotal       int64               `json:"paid_total"`
	Outstanding     int64               `json:"outstanding"`
	PromiseResolved bool                `json:"promise_resolved"`
	Promise         *PromiseRefResponse `json:"promise,omitempty"`
}
