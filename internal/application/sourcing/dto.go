package sourcing

import (
	"time"

	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationItemRequest is one requested material
type QuotationItemRequest struct {
	MaterialID   uuid.UUID       `json:"material_id" validate:"required"`
	Description  string          `json:"description" validate:"max=500"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	UOM          string          `json:"uom" validate:"required,max=20"`
	TargetPrice  decimal.Decimal `json:"target_price" validate:"gte=0"`
	RequiredDate *time.Time      `json:"required_date"`
}

func (r QuotationItemRequest) input() sourcing.ItemInput {
	return sourcing.ItemInput{
		MaterialID:   r.MaterialID,
		Description:  r.Description,
		Quantity:     r.Quantity,
		UOM:          r.UOM,
		TargetPrice:  r.TargetPrice,
		RequiredDate: r.RequiredDate,
	}
}

// CreateQuotationRequest represents a request to create a material quotation
type CreateQuotationRequest struct {
	Title           string                 `json:"title" validate:"required,max=200"`
	Currency        string                 `json:"currency" validate:"omitempty,oneof=CNY USD EUR JPY HKD"`
	ValidUntil      *time.Time             `json:"valid_until"`
	Notes           string                 `json:"notes" validate:"max=2000"`
	Items           []QuotationItemRequest `json:"items" validate:"dive"`
	TargetSuppliers []uuid.UUID            `json:"target_suppliers" validate:"dive,required"`
}

// TargetSupplierRequest invites a supplier to quote
type TargetSupplierRequest struct {
	SupplierID uuid.UUID `json:"supplier_id" validate:"required"`
}

// QuoteRequest is a supplier's response for one item
type QuoteRequest struct {
	SupplierID   uuid.UUID       `json:"supplier_id" validate:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gt=0"`
	Currency     string          `json:"currency" validate:"omitempty,oneof=CNY USD EUR JPY HKD"`
	LeadTimeDays int             `json:"lead_time_days" validate:"gte=0,lte=365"`
	ValidUntil   *time.Time      `json:"valid_until"`
	Notes        string          `json:"notes" validate:"max=500"`
}

// SelectQuoteRequest selects one quote of an item
type SelectQuoteRequest struct {
	QuoteID uuid.UUID `json:"quote_id" validate:"required"`
}

// ReasonRequest carries a mandatory free-text reason
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// QuotationListFilter represents filter options for the quotation list
type QuotationListFilter struct {
	Search   string `json:"search"`
	Status   string `json:"status" validate:"omitempty,oneof=draft sent in_review completed cancelled"`
	Page     int    `json:"page" validate:"gte=0"`
	PageSize int    `json:"page_size" validate:"gte=0,lte=100"`
	OrderBy  string `json:"order_by" validate:"omitempty,oneof=quotation_number created_at updated_at status"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ConversionResult lists the purchase orders created from a quotation
type ConversionResult struct {
	QuotationID     uuid.UUID                 `json:"quotation_id"`
	QuotationNumber string                    `json:"quotation_number"`
	PurchaseOrders  []trade.PurchaseOrderView `json:"purchase_orders"`
	SkippedItems    []uuid.UUID               `json:"skipped_items,omitempty"`
}
