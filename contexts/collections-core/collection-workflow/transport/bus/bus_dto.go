// Package bustransport defines the topics and payload shapes the
// collection workflow publishes for its fire-and-forget collaborator
// calls. Shared by the publishing adapter and the worker consumer.
package bustransport

const (
	TopicDialerRemoval    = "collections.dialer-removal"
	TopicVendorAssignment = "collections.vendor-assignment"

	EventTypeDialerRemovalRequested    = "collections.dialer_removal.requested"
	EventTypeVendorAssignmentRequested = "collections.vendor_assignment.requested"
)

type DialerRemovalPayload struct {
	InstallmentID string `json:"installment_id"`
}

type VendorAssignmentPayload struct {
	InstallmentID string `json:"installment_id"`
	AgentID       string `json:"agent_id"`
}
