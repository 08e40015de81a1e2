package trade

import (
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderView is the client-facing projection of a PurchaseOrder
type PurchaseOrderView struct {
	ID                    uuid.UUID             `json:"id"`
	PONumber              string                `json:"po_number"`
	SupplierID            uuid.UUID             `json:"supplier_id"`
	Currency              valueobject.Currency  `json:"currency"`
	Status                PurchaseOrderStatus   `json:"status"`
	Items                 []PurchaseOrderItem   `json:"items"`
	Subtotal              decimal.Decimal       `json:"subtotal"`
	ItemDiscountTotal     decimal.Decimal       `json:"item_discount_total"`
	Discount              decimal.Decimal       `json:"discount"`
	TaxAmount             decimal.Decimal       `json:"tax_amount"`
	ShippingCost          decimal.Decimal       `json:"shipping_cost"`
	TotalAmount           decimal.Decimal       `json:"total_amount"`
	ApprovalStatus        ApprovalStatus        `json:"approval_status"`
	RequiredLevels        []int                 `json:"required_levels,omitempty"`
	ApprovalCount         int                   `json:"approval_count"`
	RejectionReason       string                `json:"rejection_reason,omitempty"`
	SentToSupplier        *SupplierDispatch     `json:"sent_to_supplier,omitempty"`
	Confirmation          *SupplierConfirmation `json:"confirmation,omitempty"`
	Receiving             ReceivingSummary      `json:"receiving"`
	IsFullyReceived       bool                  `json:"is_fully_received"`
	ReceiveProgress       decimal.Decimal       `json:"receive_progress"`
	ExpectedDeliveryDate  *time.Time            `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time            `json:"actual_delivery_date,omitempty"`
	SourceQuotationID     *uuid.UUID            `json:"source_quotation_id,omitempty"`
	SourceQuotationNumber string                `json:"source_quotation_number,omitempty"`
	Notes                 string                `json:"notes,omitempty"`
	shared.AuditStamps
}

// Format projects the purchase order into its client-facing view
func (o *PurchaseOrder) Format() PurchaseOrderView {
	approvals := 0
	for _, a := range o.Workflow.Actions {
		if a.Action == workflow.ActionApproved {
			approvals++
		}
	}
	return PurchaseOrderView{
		ID:                    o.ID,
		PONumber:              o.PONumber,
		SupplierID:            o.SupplierID,
		Currency:              o.Currency,
		Status:                o.Status,
		Items:                 append([]PurchaseOrderItem(nil), o.Items...),
		Subtotal:              o.Subtotal,
		ItemDiscountTotal:     o.ItemDiscountTotal,
		Discount:              o.Discount,
		TaxAmount:             o.TaxAmount,
		ShippingCost:          o.ShippingCost,
		TotalAmount:           o.TotalAmount,
		ApprovalStatus:        o.Workflow.ApprovalStatus,
		RequiredLevels:        o.Workflow.Route.RequiredLevels,
		ApprovalCount:         approvals,
		RejectionReason:       o.Workflow.RejectionReason,
		SentToSupplier:        o.SentToSupplier,
		Confirmation:          o.Confirmation,
		Receiving:             o.Receiving,
		IsFullyReceived:       o.IsFullyReceived(),
		ReceiveProgress:       o.ReceiveProgress(),
		ExpectedDeliveryDate:  o.ExpectedDeliveryDate,
		ActualDeliveryDate:    o.ActualDeliveryDate,
		SourceQuotationID:     o.SourceQuotationID,
		SourceQuotationNumber: o.SourceQuotationNumber,
		Notes:                 o.Notes,
		AuditStamps:           o.AuditStamps(),
	}
}
