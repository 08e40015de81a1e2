package trade

import (
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeGoodsReceiptCompleted is raised when a goods receipt is completed
const EventTypeGoodsReceiptCompleted = "GoodsReceiptCompleted"

// ReceivedLine is the outcome of one receipt line
type ReceivedLine struct {
	POItemID         uuid.UUID       `json:"po_item_id"`
	MaterialID       uuid.UUID       `json:"material_id"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
}

// GoodsReceiptCompletedEvent drives reconciliation of the purchase order and
// the inventory posting of the accepted quantities
type GoodsReceiptCompletedEvent struct {
	shared.BaseDomainEvent
	GoodsReceiptID  uuid.UUID      `json:"goods_receipt_id"`
	ReceiptNumber   string         `json:"receipt_number"`
	PurchaseOrderID uuid.UUID      `json:"purchase_order_id"`
	SupplierID      uuid.UUID      `json:"supplier_id"`
	ReceiptDate     time.Time      `json:"receipt_date"`
	Lines           []ReceivedLine `json:"lines"`
}

// NewGoodsReceiptCompletedEvent creates a GoodsReceiptCompletedEvent
func NewGoodsReceiptCompletedEvent(g *GoodsReceipt, actorID string) *GoodsReceiptCompletedEvent {
	lines := make([]ReceivedLine, 0, len(g.Items))
	for _, item := range g.Items {
		lines = append(lines, ReceivedLine{
			POItemID:         item.POItemID,
			MaterialID:       item.MaterialID,
			ReceivedQuantity: item.ReceivedQuantity,
			AcceptedQuantity: item.AcceptedQuantity,
			RejectedQuantity: item.RejectedQuantity,
		})
	}
	return &GoodsReceiptCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptCompleted, AggregateTypeGoodsReceipt, g.ID, actorID),
		GoodsReceiptID:  g.ID,
		ReceiptNumber:   g.ReceiptNumber,
		PurchaseOrderID: g.PurchaseOrderID,
		SupplierID:      g.SupplierID,
		ReceiptDate:     g.ReceiptDate,
		Lines:           lines,
	}
}

// AcceptedByMaterial sums the accepted quantity per material
func (e *GoodsReceiptCompletedEvent) AcceptedByMaterial() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, l := range e.Lines {
		if !l.AcceptedQuantity.IsPositive() {
			continue
		}
		out[l.MaterialID] = out[l.MaterialID].Add(l.AcceptedQuantity)
	}
	return out
}
