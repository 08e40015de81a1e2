package trade

import (
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoodsReceiptItemView is a receipt line with its derived acceptance rate
type GoodsReceiptItemView struct {
	GoodsReceiptItem
	AcceptanceRate decimal.Decimal `json:"acceptance_rate"`
}

// GoodsReceiptView is the client-facing projection of a GoodsReceipt
type GoodsReceiptView struct {
	ID                uuid.UUID              `json:"id"`
	ReceiptNumber     string                 `json:"receipt_number"`
	PurchaseOrderID   uuid.UUID              `json:"purchase_order_id"`
	PONumber          string                 `json:"po_number"`
	SupplierID        uuid.UUID              `json:"supplier_id"`
	ReceiptDate       time.Time              `json:"receipt_date"`
	WarehouseLocation string                 `json:"warehouse_location,omitempty"`
	DeliveryNote      string                 `json:"delivery_note,omitempty"`
	Status            GoodsReceiptStatus     `json:"status"`
	Items             []GoodsReceiptItemView `json:"items"`
	QualityInspection QualityInspection      `json:"quality_inspection"`
	TotalReceived     decimal.Decimal        `json:"total_received"`
	TotalAccepted     decimal.Decimal        `json:"total_accepted"`
	TotalRejected     decimal.Decimal        `json:"total_rejected"`
	AcceptanceRate    decimal.Decimal        `json:"acceptance_rate"`
	Notes             string                 `json:"notes,omitempty"`
	CompletedAt       *time.Time             `json:"completed_at,omitempty"`
	shared.AuditStamps
}

// Format projects the goods receipt into its client-facing view
func (g *GoodsReceipt) Format() GoodsReceiptView {
	items := make([]GoodsReceiptItemView, 0, len(g.Items))
	for _, item := range g.Items {
		items = append(items, GoodsReceiptItemView{GoodsReceiptItem: item, AcceptanceRate: item.AcceptanceRate()})
	}
	return GoodsReceiptView{
		ID:                g.ID,
		ReceiptNumber:     g.ReceiptNumber,
		PurchaseOrderID:   g.PurchaseOrderID,
		PONumber:          g.PONumber,
		SupplierID:        g.SupplierID,
		ReceiptDate:       g.ReceiptDate,
		WarehouseLocation: g.WarehouseLocation,
		DeliveryNote:      g.DeliveryNote,
		Status:            g.Status,
		Items:             items,
		QualityInspection: g.QualityInspection,
		TotalReceived:     g.TotalReceived,
		TotalAccepted:     g.TotalAccepted,
		TotalRejected:     g.TotalRejected,
		AcceptanceRate:    g.AcceptanceRate(),
		Notes:             g.Notes,
		CompletedAt:       g.CompletedAt,
		AuditStamps:       g.AuditStamps(),
	}
}
