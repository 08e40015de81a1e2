package trade

import (
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeGoodsReceipt  = "GoodsReceipt"
)

// Event type constants for PurchaseOrder
const (
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderSubmitted = "PurchaseOrderSubmitted"
	EventTypePurchaseOrderApproved  = "PurchaseOrderApproved"
	EventTypePurchaseOrderRejected  = "PurchaseOrderRejected"
	EventTypePurchaseOrderSent      = "PurchaseOrderSent"
	EventTypePurchaseOrderConfirmed = "PurchaseOrderConfirmed"
	EventTypePurchaseOrderCancelled = "PurchaseOrderCancelled"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
	EventTypePurchaseOrderCompleted = "PurchaseOrderCompleted"
	EventTypePurchaseOrderRemoved   = "PurchaseOrderRemoved"
)

// PurchaseOrderEvent is raised on purchase order lifecycle transitions
type PurchaseOrderEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID           `json:"purchase_order_id"`
	PONumber        string              `json:"po_number"`
	SupplierID      uuid.UUID           `json:"supplier_id"`
	FromStatus      PurchaseOrderStatus `json:"from_status,omitempty"`
	ToStatus        PurchaseOrderStatus `json:"to_status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Reason          string              `json:"reason,omitempty"`
}

// NewPurchaseOrderEvent creates a purchase order lifecycle event
func NewPurchaseOrderEvent(eventType string, o *PurchaseOrder, from PurchaseOrderStatus, actorID, reason string) *PurchaseOrderEvent {
	return &PurchaseOrderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePurchaseOrder, o.ID, actorID),
		PurchaseOrderID: o.ID,
		PONumber:        o.PONumber,
		SupplierID:      o.SupplierID,
		FromStatus:      from,
		ToStatus:        o.Status,
		TotalAmount:     o.TotalAmount,
		Reason:          reason,
	}
}

// OrderedLine is the quantity of one material placed on order
type OrderedLine struct {
	MaterialID uuid.UUID       `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UOM        string          `json:"uom"`
}

// PurchaseOrderSentEvent is raised when an order is issued to the supplier.
// It carries the ordered lines so inventory can book them as on order.
type PurchaseOrderSentEvent struct {
	PurchaseOrderEvent
	Email string        `json:"email"`
	Lines []OrderedLine `json:"lines"`
}

// NewPurchaseOrderSentEvent creates a PurchaseOrderSentEvent
func NewPurchaseOrderSentEvent(o *PurchaseOrder, actorID string) *PurchaseOrderSentEvent {
	lines := make([]OrderedLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, OrderedLine{MaterialID: item.MaterialID, Quantity: item.Quantity, UOM: item.UOM})
	}
	e := &PurchaseOrderSentEvent{
		PurchaseOrderEvent: *NewPurchaseOrderEvent(EventTypePurchaseOrderSent, o, PurchaseOrderStatusApproved, actorID, ""),
		Lines:              lines,
	}
	if o.SentToSupplier != nil {
		e.Email = o.SentToSupplier.Email
	}
	return e
}
