package trade

import (
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemReceiptStatus is the receiving state of one order line
type ItemReceiptStatus string

const (
	ItemReceiptPending  ItemReceiptStatus = "pending"
	ItemReceiptPartial  ItemReceiptStatus = "partial"
	ItemReceiptComplete ItemReceiptStatus = "complete"
)

var hundred = decimal.NewFromInt(100)

// PurchaseOrderItem is a line of a purchase order.
// TaxRate is a percentage, Discount an absolute amount off the line.
type PurchaseOrderItem struct {
	ID                uuid.UUID         `json:"id"`
	MaterialID        uuid.UUID         `json:"material_id"`
	Description       string            `json:"description,omitempty"`
	Quantity          decimal.Decimal   `json:"quantity"`
	UOM               string            `json:"uom"`
	UnitPrice         decimal.Decimal   `json:"unit_price"`
	TaxRate           decimal.Decimal   `json:"tax_rate"`
	Discount          decimal.Decimal   `json:"discount"`
	TotalPrice        decimal.Decimal   `json:"total_price"`
	TaxAmount         decimal.Decimal   `json:"tax_amount"`
	LineTotal         decimal.Decimal   `json:"line_total"`
	ReceivedQuantity  decimal.Decimal   `json:"received_quantity"`
	RemainingQuantity decimal.Decimal   `json:"remaining_quantity"`
	ReceiptStatus     ItemReceiptStatus `json:"receipt_status"`
	RequiredDate      *time.Time        `json:"required_date,omitempty"`
}

// ItemInput describes an order line
type ItemInput struct {
	MaterialID   uuid.UUID
	Description  string
	Quantity     decimal.Decimal
	UOM          string
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal
	Discount     decimal.Decimal
	RequiredDate *time.Time
}

func newPurchaseOrderItem(in ItemInput) (*PurchaseOrderItem, error) {
	if in.MaterialID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_MATERIAL", "Material is required")
	}
	if !in.Quantity.IsPositive() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(hundred) {
		return nil, shared.NewValidationError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	if in.Discount.IsNegative() {
		return nil, shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if in.Discount.GreaterThan(in.Quantity.Mul(in.UnitPrice)) {
		return nil, shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot exceed the line amount")
	}
	uom := strings.ToUpper(strings.TrimSpace(in.UOM))
	if uom == "" {
		return nil, shared.NewValidationError("INVALID_UOM", "Unit of measure is required")
	}
	item := &PurchaseOrderItem{
		ID:               uuid.New(),
		MaterialID:       in.MaterialID,
		Description:      strings.TrimSpace(in.Description),
		Quantity:         in.Quantity,
		UOM:              uom,
		UnitPrice:        in.UnitPrice,
		TaxRate:          in.TaxRate,
		Discount:         in.Discount,
		ReceivedQuantity: decimal.Zero,
		RequiredDate:     in.RequiredDate,
	}
	item.recalculate()
	return item, nil
}

// recalculate derives the line amounts and receiving counters
func (i *PurchaseOrderItem) recalculate() {
	i.TotalPrice = i.Quantity.Mul(i.UnitPrice)
	i.TaxAmount = i.TotalPrice.Sub(i.Discount).Mul(i.TaxRate).Div(hundred).Round(4)
	i.LineTotal = i.TotalPrice.Sub(i.Discount).Add(i.TaxAmount)
	i.setReceived(i.ReceivedQuantity)
}

// setReceived sets the received quantity and derives remaining quantity and receipt status
func (i *PurchaseOrderItem) setReceived(received decimal.Decimal) {
	i.ReceivedQuantity = received
	i.RemainingQuantity = i.Quantity.Sub(received)
	switch {
	case !i.RemainingQuantity.IsPositive():
		i.ReceiptStatus = ItemReceiptComplete
	case received.IsPositive():
		i.ReceiptStatus = ItemReceiptPartial
	default:
		i.ReceiptStatus = ItemReceiptPending
	}
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceiptStatus == ItemReceiptComplete
}
