package sourcing

import (
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for MaterialQuotation
const AggregateTypeMaterialQuotation = "MaterialQuotation"

// Event type constants for MaterialQuotation
const (
	EventTypeQuotationCreated   = "QuotationCreated"
	EventTypeQuotationSent      = "QuotationSent"
	EventTypeQuotationCompleted = "QuotationCompleted"
	EventTypeQuotationCancelled = "QuotationCancelled"
	EventTypeQuotationConverted = "QuotationConverted"
	EventTypeQuotationRemoved   = "QuotationRemoved"
)

// QuotationEvent is raised on quotation lifecycle transitions
type QuotationEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID       `json:"quotation_id"`
	QuotationNumber string          `json:"quotation_number"`
	FromStatus      QuotationStatus `json:"from_status,omitempty"`
	ToStatus        QuotationStatus `json:"to_status"`
	SelectedTotal   decimal.Decimal `json:"selected_total"`
	RequiredLevels  []int           `json:"required_levels,omitempty"`
	Reason          string          `json:"reason,omitempty"`
}

// NewQuotationEvent creates a quotation lifecycle event
func NewQuotationEvent(eventType string, q *MaterialQuotation, from QuotationStatus, actorID, reason string) *QuotationEvent {
	return &QuotationEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeMaterialQuotation, q.ID, actorID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		FromStatus:      from,
		ToStatus:        q.Status,
		SelectedTotal:   q.Selected.TotalValue,
		RequiredLevels:  q.Route.RequiredLevels,
		Reason:          reason,
	}
}

// QuotationConvertedEvent is raised when purchase orders were created from a quotation
type QuotationConvertedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID           `json:"quotation_id"`
	QuotationNumber string              `json:"quotation_number"`
	PurchaseOrders  []PurchaseOrderLink `json:"purchase_orders"`
}

// NewQuotationConvertedEvent creates a QuotationConvertedEvent
func NewQuotationConvertedEvent(q *MaterialQuotation, actorID string) *QuotationConvertedEvent {
	return &QuotationConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationConverted, AggregateTypeMaterialQuotation, q.ID, actorID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		PurchaseOrders:  append([]PurchaseOrderLink(nil), q.PurchaseOrders...),
	}
}
