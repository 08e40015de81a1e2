package partner

import (
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Supplier
const AggregateTypeSupplier = "Supplier"

// Event type constants for Supplier
const (
	EventTypeSupplierCreated     = "SupplierCreated"
	EventTypeSupplierSubmitted   = "SupplierSubmitted"
	EventTypeSupplierApproved    = "SupplierApproved"
	EventTypeSupplierRejected    = "SupplierRejected"
	EventTypeSupplierActivated   = "SupplierActivated"
	EventTypeSupplierDeactivated = "SupplierDeactivated"
	EventTypeSupplierBlacklisted = "SupplierBlacklisted"
	EventTypeSupplierRemoved     = "SupplierRemoved"
)

// SupplierEventTypes lists every supplier event type
var SupplierEventTypes = []string{
	EventTypeSupplierCreated,
	EventTypeSupplierSubmitted,
	EventTypeSupplierApproved,
	EventTypeSupplierRejected,
	EventTypeSupplierActivated,
	EventTypeSupplierDeactivated,
	EventTypeSupplierBlacklisted,
	EventTypeSupplierRemoved,
}

// SupplierEvent is raised on every supplier lifecycle transition.
// The concrete transition is carried by the event type.
type SupplierEvent struct {
	shared.BaseDomainEvent
	SupplierID     uuid.UUID      `json:"supplier_id"`
	SupplierNumber string         `json:"supplier_number"`
	FromStatus     SupplierStatus `json:"from_status,omitempty"`
	ToStatus       SupplierStatus `json:"to_status"`
	Reason         string         `json:"reason,omitempty"`
}

// NewSupplierEvent creates a supplier lifecycle event
func NewSupplierEvent(eventType string, s *Supplier, from SupplierStatus, actorID, reason string) *SupplierEvent {
	return &SupplierEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSupplier, s.ID, actorID),
		SupplierID:      s.ID,
		SupplierNumber:  s.SupplierNumber,
		FromStatus:      from,
		ToStatus:        s.Status,
		Reason:          reason,
	}
}
