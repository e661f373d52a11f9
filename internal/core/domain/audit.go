package domain

import "time"

const (
	ActionUpdateStatus      = "UPDATE_STATUS"
	ActionReviewDocument    = "REVIEW_DOCUMENT"
	ActionDeleteApplication = "DELETE_APPLICATION"
	ActionAssignRole        = "ASSIGN_ROLE"
	ActionRevokeRole        = "REVOKE_ROLE"
	ActionCreateInvoice     = "CREATE_INVOICE"
	ActionRecordPayment     = "RECORD_PAYMENT"
	ActionVoidInvoice       = "VOID_INVOICE"
)

const (
	EntityApplication = "Application"
	EntityDocument    = "Document"
	EntityUser        = "User"
	EntityInvoice     = "Invoice"
)

// AuditLog is an append-only record. ActorID is nil when the actor is unknown
// or has since been deleted.
type AuditLog struct {
	ID         string         `json:"id" bson:"_id"`
	ActorID    *string        `json:"actor_id" bson:"actor_id,omitempty"`
	Action     string         `json:"action" bson:"action"`
	EntityType string         `json:"entity_type" bson:"entity_type"`
	EntityID   string         `json:"entity_id" bson:"entity_id"`
	Meta       map[string]any `json:"meta" bson:"meta"`
	IPAddress  string         `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent" bson:"user_agent"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}
