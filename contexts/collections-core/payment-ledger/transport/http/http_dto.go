package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PostEventRequest struct {
	EventType string            `json:"event_type"`
	Amount    int64             `json:"amount"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type VoidEventRequest struct {
	Reason                   string `json:"reason"`
	DestinationInstallmentID string `json:"destination_installment_id,omitempty"`
}

type EventResponse struct {
	EventID       string            `json:"event_id"`
	InstallmentID string            `json:"installment_id"`
	EventType     string            `json:"event_type"`
	Amount        int64             `json:"amount"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Voided        bool              `json:"voided"`
	CreatedAt     time.Time         `json:"created_at"`
}

type PostEventResponse struct {
	Event       EventResponse `json:"event"`
	PaidTotal   int64         `json:"paid_total"`
	Outstanding int64         `json:"outstanding"`
}

type VoidEventResponse struct {
	VoidID                   string    `json:"void_id"`
	OriginalEventID          string    `json:"original_event_id"`
	Amount                   int64     `json:"amount"`
	Reason                   string    `json:"reason"`
	DestinationInstallmentID string    `json:"destination_installment_id,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
}

type OutstandingResponse struct {
	InstallmentID string `json:"installment_id"`
	Outstanding   int64  `json:"outstanding"`
}

type EventListResponse struct {
	InstallmentID string          `json:"installment_id"`
	Events        []EventResponse `json:"events"`
}
