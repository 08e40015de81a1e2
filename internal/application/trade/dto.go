package trade

import (
	"time"

	"github.com/erp/procurement/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one purchase order line
type OrderItemRequest struct {
	MaterialID   uuid.UUID       `json:"material_id" validate:"required"`
	Description  string          `json:"description" validate:"max=500"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	UOM          string          `json:"uom" validate:"required,max=20"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0"`
	TaxRate      decimal.Decimal `json:"tax_rate" validate:"gte=0,lte=100"`
	Discount     decimal.Decimal `json:"discount" validate:"gte=0"`
	RequiredDate *time.Time      `json:"required_date"`
}

func (r OrderItemRequest) input() trade.ItemInput {
	return trade.ItemInput{
		MaterialID:   r.MaterialID,
		Description:  r.Description,
		Quantity:     r.Quantity,
		UOM:          r.UOM,
		UnitPrice:    r.UnitPrice,
		TaxRate:      r.TaxRate,
		Discount:     r.Discount,
		RequiredDate: r.RequiredDate,
	}
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID           uuid.UUID          `json:"supplier_id" validate:"required"`
	Currency             string             `json:"currency" validate:"omitempty,oneof=CNY USD EUR JPY HKD"`
	ExpectedDeliveryDate *time.Time         `json:"expected_delivery_date"`
	Discount             decimal.Decimal    `json:"discount" validate:"gte=0"`
	ShippingCost         decimal.Decimal    `json:"shipping_cost" validate:"gte=0"`
	Notes                string             `json:"notes" validate:"max=2000"`
	Items                []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest updates the header of a draft purchase order
type UpdatePurchaseOrderRequest struct {
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	Discount             decimal.Decimal `json:"discount" validate:"gte=0"`
	ShippingCost         decimal.Decimal `json:"shipping_cost" validate:"gte=0"`
	Notes                string          `json:"notes" validate:"max=2000"`
}

// ApproveRequest carries optional approver comments
type ApproveRequest struct {
	Comments string `json:"comments" validate:"max=500"`
}

// ReasonRequest carries a mandatory free-text reason
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// SendRequest issues an approved order to the supplier's address
type SendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ConfirmRequest records the supplier's confirmation number
type ConfirmRequest struct {
	ConfirmationNumber string `json:"confirmation_number" validate:"required,max=100"`
}

// ShipRequest records a supplier shipment
type ShipRequest struct {
	Partial bool `json:"partial"`
}

// ReceiveLineRequest is a quantity received against an order line
type ReceiveLineRequest struct {
	ItemID   uuid.UUID       `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// ReceiveRequest receives goods directly against an order
type ReceiveRequest struct {
	ReceiptDate time.Time            `json:"receipt_date"`
	Lines       []ReceiveLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderListFilter represents filter options for the purchase order list
type PurchaseOrderListFilter struct {
	Search     string     `json:"search"`
	Status     string     `json:"status" validate:"omitempty,oneof=draft pending_approval approved rejected sent_to_supplier confirmed in_production partially_shipped shipped partially_received received completed cancelled"`
	SupplierID *uuid.UUID `json:"supplier_id"`
	Page       int        `json:"page" validate:"gte=0"`
	PageSize   int        `json:"page_size" validate:"gte=0,lte=100"`
	OrderBy    string     `json:"order_by" validate:"omitempty,oneof=po_number created_at updated_at status total_amount"`
	OrderDir   string     `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ReceiptLineRequest receives quantity against one purchase order line
type ReceiptLineRequest struct {
	POItemID         uuid.UUID       `json:"po_item_id" validate:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity" validate:"gt=0"`
	StorageLocation  string          `json:"storage_location" validate:"max=100"`
}

// CreateGoodsReceiptRequest represents a request to create a goods receipt
type CreateGoodsReceiptRequest struct {
	PurchaseOrderID    uuid.UUID            `json:"purchase_order_id" validate:"required"`
	ReceiptDate        time.Time            `json:"receipt_date"`
	WarehouseLocation  string               `json:"warehouse_location" validate:"max=100"`
	DeliveryNote       string               `json:"delivery_note" validate:"max=100"`
	Notes              string               `json:"notes" validate:"max=2000"`
	InspectionRequired bool                 `json:"inspection_required"`
	Items              []ReceiptLineRequest `json:"items" validate:"required,min=1,dive"`
}

// ItemInspectionRequest is the inspection outcome of one receipt line
type ItemInspectionRequest struct {
	ItemID           uuid.UUID       `json:"item_id" validate:"required"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity" validate:"gte=0"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity" validate:"gte=0"`
	QualityStatus    string          `json:"quality_status" validate:"omitempty,oneof=pending passed failed partial"`
	Notes            string          `json:"notes" validate:"max=500"`
}

// InspectionRequest records a quality inspection of a receipt
type InspectionRequest struct {
	Date   time.Time               `json:"date"`
	Result string                  `json:"result" validate:"omitempty,oneof=pending passed failed partial"`
	Notes  string                  `json:"notes" validate:"max=2000"`
	Items  []ItemInspectionRequest `json:"items" validate:"dive"`
}

// GoodsReceiptListFilter represents filter options for the goods receipt list
type GoodsReceiptListFilter struct {
	Search          string     `json:"search"`
	Status          string     `json:"status" validate:"omitempty,oneof=draft completed cancelled"`
	PurchaseOrderID *uuid.UUID `json:"purchase_order_id"`
	Page            int        `json:"page" validate:"gte=0"`
	PageSize        int        `json:"page_size" validate:"gte=0,lte=100"`
	OrderBy         string     `json:"order_by" validate:"omitempty,oneof=receipt_number receipt_date created_at status"`
	OrderDir        string     `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}
