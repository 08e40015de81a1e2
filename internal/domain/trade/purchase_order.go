package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "draft"
	PurchaseOrderStatusPendingApproval   PurchaseOrderStatus = "pending_approval"
	PurchaseOrderStatusApproved          PurchaseOrderStatus = "approved"
	PurchaseOrderStatusRejected          PurchaseOrderStatus = "rejected"
	PurchaseOrderStatusSentToSupplier    PurchaseOrderStatus = "sent_to_supplier"
	PurchaseOrderStatusConfirmed         PurchaseOrderStatus = "confirmed"
	PurchaseOrderStatusInProduction      PurchaseOrderStatus = "in_production"
	PurchaseOrderStatusPartiallyShipped  PurchaseOrderStatus = "partially_shipped"
	PurchaseOrderStatusShipped           PurchaseOrderStatus = "shipped"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "received"
	PurchaseOrderStatusCompleted         PurchaseOrderStatus = "completed"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPendingApproval, PurchaseOrderStatusApproved,
		PurchaseOrderStatusRejected, PurchaseOrderStatusSentToSupplier, PurchaseOrderStatusConfirmed,
		PurchaseOrderStatusInProduction, PurchaseOrderStatusPartiallyShipped, PurchaseOrderStatusShipped,
		PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived, PurchaseOrderStatusCompleted,
		PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanCancel returns true if the order may still be cancelled
func (s PurchaseOrderStatus) CanCancel() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPendingApproval,
		PurchaseOrderStatusApproved, PurchaseOrderStatusSentToSupplier:
		return true
	}
	return false
}

// CanReceive returns true if goods may be received against the order
func (s PurchaseOrderStatus) CanReceive() bool {
	switch s {
	case PurchaseOrderStatusSentToSupplier, PurchaseOrderStatusConfirmed, PurchaseOrderStatusInProduction,
		PurchaseOrderStatusPartiallyShipped, PurchaseOrderStatusShipped, PurchaseOrderStatusPartiallyReceived:
		return true
	}
	return false
}

// ApprovalStatus is the approval state recorded in the order's workflow sub-record
type ApprovalStatus string

const (
	ApprovalStatusNone     ApprovalStatus = ""
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// ApprovalRecord is the order's embedded approval workflow sub-record
type ApprovalRecord struct {
	ApprovalStatus  ApprovalStatus    `json:"approval_status"`
	SubmittedBy     string            `json:"submitted_by,omitempty"`
	SubmittedAt     *time.Time        `json:"submitted_at,omitempty"`
	Route           workflow.Route    `json:"route"`
	Actions         []workflow.Action `json:"actions"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
}

// SupplierDispatch records when and where the order was sent
type SupplierDispatch struct {
	Email  string    `json:"email"`
	SentBy string    `json:"sent_by"`
	SentAt time.Time `json:"sent_at"`
}

// SupplierConfirmation records the supplier's acknowledgement
type SupplierConfirmation struct {
	ConfirmationNumber string    `json:"confirmation_number"`
	ConfirmedBy        string    `json:"confirmed_by"`
	ConfirmedAt        time.Time `json:"confirmed_at"`
}

// ReceivingStatus is the document-level receiving state
type ReceivingStatus string

const (
	ReceivingStatusNotReceived       ReceivingStatus = "not_received"
	ReceivingStatusPartiallyReceived ReceivingStatus = "partially_received"
	ReceivingStatusFullyReceived     ReceivingStatus = "fully_received"
)

// ReceivingSummary is the reconciled receiving state of the order
type ReceivingSummary struct {
	Status          ReceivingStatus `json:"status"`
	LastReceiptDate *time.Time      `json:"last_receipt_date,omitempty"`
}

// PurchaseOrder is the aggregate root for orders placed with a supplier
type PurchaseOrder struct {
	shared.DocumentRoot
	PONumber              string
	SupplierID            uuid.UUID
	Currency              valueobject.Currency
	Items                 []PurchaseOrderItem
	Subtotal              decimal.Decimal
	ItemDiscountTotal     decimal.Decimal
	Discount              decimal.Decimal
	TaxAmount             decimal.Decimal
	ShippingCost          decimal.Decimal
	TotalAmount           decimal.Decimal
	Status                PurchaseOrderStatus
	ExpectedDeliveryDate  *time.Time
	ActualDeliveryDate    *time.Time
	Workflow              ApprovalRecord
	SentToSupplier        *SupplierDispatch
	Confirmation          *SupplierConfirmation
	Receiving             ReceivingSummary
	SourceQuotationID     *uuid.UUID
	SourceQuotationNumber string
	Notes                 string
	CompletedAt           *time.Time
	CancelledAt           *time.Time
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(number string, supplierID uuid.UUID, currency valueobject.Currency, createdBy string) (*PurchaseOrder, error) {
	if err := sequence.Validate(sequence.DocumentTypePurchaseOrder, number); err != nil {
		return nil, err
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_SUPPLIER", "Supplier is required")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", currency))
	}

	po := &PurchaseOrder{
		DocumentRoot: shared.NewDocumentRoot(createdBy),
		PONumber:     number,
		SupplierID:   supplierID,
		Currency:     currency,
		Items:        make([]PurchaseOrderItem, 0),
		Discount:     decimal.Zero,
		ShippingCost: decimal.Zero,
		Status:       PurchaseOrderStatusDraft,
		Workflow:     ApprovalRecord{Actions: make([]workflow.Action, 0)},
		Receiving:    ReceivingSummary{Status: ReceivingStatusNotReceived},
	}
	po.RecalculateTotals()
	po.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderCreated, po, "", createdBy, ""))
	return po, nil
}

// AddItem appends a line to a draft order
func (o *PurchaseOrder) AddItem(in ItemInput, userID string) (uuid.UUID, error) {
	if !o.CanModify() {
		return uuid.Nil, shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot modify purchase order with status: %s", o.Status))
	}
	item, err := newPurchaseOrderItem(in)
	if err != nil {
		return uuid.Nil, err
	}
	o.Items = append(o.Items, *item)
	o.RecalculateTotals()
	o.Touch(userID)
	return item.ID, nil
}

// UpdateItem replaces the commercial terms of a draft line
func (o *PurchaseOrder) UpdateItem(itemID uuid.UUID, in ItemInput, userID string) error {
	if !o.CanModify() {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot modify purchase order with status: %s", o.Status))
	}
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewNotFoundError("Purchase order item")
	}
	updated, err := newPurchaseOrderItem(in)
	if err != nil {
		return err
	}
	updated.ID = item.ID
	*item = *updated
	o.RecalculateTotals()
	o.Touch(userID)
	return nil
}

// RemoveItem removes a line from a draft order
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID, userID string) error {
	if !o.CanModify() {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot modify purchase order with status: %s", o.Status))
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.RecalculateTotals()
			o.Touch(userID)
			return nil
		}
	}
	return shared.NewNotFoundError("Purchase order item")
}

// SetCharges sets the document-level discount and shipping cost
func (o *PurchaseOrder) SetCharges(discount, shippingCost decimal.Decimal, userID string) error {
	if !o.CanModify() {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot modify purchase order with status: %s", o.Status))
	}
	if discount.IsNegative() || shippingCost.IsNegative() {
		return shared.NewValidationError("INVALID_AMOUNT", "Discount and shipping cost cannot be negative")
	}
	o.Discount = discount
	o.ShippingCost = shippingCost
	o.RecalculateTotals()
	o.Touch(userID)
	return nil
}

// SetDelivery sets the expected delivery date and notes of a draft order
func (o *PurchaseOrder) SetDelivery(expected *time.Time, notes, userID string) error {
	if !o.CanModify() {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot modify purchase order with status: %s", o.Status))
	}
	o.ExpectedDeliveryDate = expected
	o.Notes = strings.TrimSpace(notes)
	o.Touch(userID)
	return nil
}

// LinkSourceQuotation records the quotation the order was converted from
func (o *PurchaseOrder) LinkSourceQuotation(quotationID uuid.UUID, quotationNumber string) {
	id := quotationID
	o.SourceQuotationID = &id
	o.SourceQuotationNumber = quotationNumber
	o.Notes = appendNote(o.Notes, fmt.Sprintf("Created from quotation %s", quotationNumber))
}

// RecalculateTotals derives line and document totals from the items.
// totalAmount = subtotal - item discounts - document discount + tax + shipping.
func (o *PurchaseOrder) RecalculateTotals() {
	subtotal := decimal.Zero
	itemDiscounts := decimal.Zero
	tax := decimal.Zero
	for i := range o.Items {
		o.Items[i].recalculate()
		subtotal = subtotal.Add(o.Items[i].TotalPrice)
		itemDiscounts = itemDiscounts.Add(o.Items[i].Discount)
		tax = tax.Add(o.Items[i].TaxAmount)
	}
	o.Subtotal = subtotal
	o.ItemDiscountTotal = itemDiscounts
	o.TaxAmount = tax
	o.TotalAmount = subtotal.Sub(itemDiscounts).Sub(o.Discount).Add(tax).Add(o.ShippingCost)
}

// SubmitForApproval routes the order for approval. wf may be nil when no
// workflow is configured for purchase orders.
func (o *PurchaseOrder) SubmitForApproval(wf *workflow.Workflow, userID string) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only draft purchase orders can be submitted, current status: %s", o.Status))
	}
	if o.Workflow.ApprovalStatus == ApprovalStatusPending {
		return shared.NewGuardError("ALREADY_PENDING", "Purchase order is already pending approval")
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Purchase order must have at least one item")
	}
	o.RecalculateTotals()

	route := workflow.Route{}
	if wf != nil {
		route = wf.Route(workflow.Facts{Amount: o.TotalAmount})
	}
	ts := shared.Now()
	o.Status = PurchaseOrderStatusPendingApproval
	o.Workflow = ApprovalRecord{
		ApprovalStatus: ApprovalStatusPending,
		SubmittedBy:    userID,
		SubmittedAt:    &ts,
		Route:          route,
		Actions:        make([]workflow.Action, 0),
	}
	o.Touch(userID)
	o.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderSubmitted, o, PurchaseOrderStatusDraft, userID, ""))
	return nil
}

// Approve records an approval by userID holding roles. The order becomes approved
// once every mandatory required level is satisfied; without a route one approval suffices.
// It reports whether the order is now fully approved.
func (o *PurchaseOrder) Approve(wf *workflow.Workflow, userID string, roles []string, comments string) (bool, error) {
	if o.Status != PurchaseOrderStatusPendingApproval {
		return false, shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only purchase orders pending approval can be approved, current status: %s", o.Status))
	}

	action := workflow.Action{
		ApproverID: userID,
		Action:     workflow.ActionApproved,
		Comments:   strings.TrimSpace(comments),
		ActedAt:    shared.Now(),
	}
	routed := wf != nil && !o.Workflow.Route.IsEmpty()
	if routed {
		level, ok := workflow.PendingLevelFor(wf, o.Workflow.Route, o.Workflow.Actions, roles)
		if !ok {
			return false, shared.NewGuardError("NOT_AN_APPROVER", "User holds no role required by a pending approval level")
		}
		for _, a := range o.Workflow.Actions {
			if a.ApproverID == userID && a.Level == level.LevelNumber {
				return false, shared.NewGuardError("ALREADY_ACTED", fmt.Sprintf("User has already approved level %d", level.LevelNumber))
			}
		}
		action.Level = level.LevelNumber
		action.Roles = workflow.RolesForLevel(level, roles)
	} else {
		action.Roles = roles
	}
	o.Workflow.Actions = append(o.Workflow.Actions, action)
	o.Touch(userID)

	if routed && !workflow.RouteSatisfied(wf, o.Workflow.Route, o.Workflow.Actions) {
		return false, nil
	}
	o.Status = PurchaseOrderStatusApproved
	o.Workflow.ApprovalStatus = ApprovalStatusApproved
	o.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderApproved, o, PurchaseOrderStatusPendingApproval, userID, ""))
	return true, nil
}

// Reject turns the order down. A reason is required.
func (o *PurchaseOrder) Reject(userID string, roles []string, reason string) error {
	if o.Status != PurchaseOrderStatusPendingApproval {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only purchase orders pending approval can be rejected, current status: %s", o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("REASON_REQUIRED", "Rejection reason is required")
	}
	o.Workflow.Actions = append(o.Workflow.Actions, workflow.Action{
		ApproverID: userID,
		Roles:      roles,
		Action:     workflow.ActionRejected,
		Comments:   reason,
		ActedAt:    shared.Now(),
	})
	o.Workflow.ApprovalStatus = ApprovalStatusRejected
	o.Workflow.RejectionReason = reason
	o.Status = PurchaseOrderStatusRejected
	o.Touch(userID)
	o.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderRejected, o, PurchaseOrderStatusPendingApproval, userID, reason))
	return nil
}

// Revise returns a rejected order to draft so it can be corrected and resubmitted
func (o *PurchaseOrder) Revise(userID string) error {
	if o.Status != PurchaseOrderStatusRejected {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only rejected purchase orders can be revised, current status: %s", o.Status))
	}
	o.Status = PurchaseOrderStatusDraft
	o.Touch(userID)
	return nil
}

// SendToSupplier issues an approved order to the supplier
func (o *PurchaseOrder) SendToSupplier(email, userID string) error {
	if o.Status != PurchaseOrderStatusApproved {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only approved purchase orders can be sent, current status: %s", o.Status))
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewValidationError("EMAIL_REQUIRED", "Supplier email is required")
	}
	o.SentToSupplier = &SupplierDispatch{Email: email, SentBy: userID, SentAt: shared.Now()}
	o.Status = PurchaseOrderStatusSentToSupplier
	o.Touch(userID)
	o.AddDomainEvent(NewPurchaseOrderSentEvent(o, userID))
	return nil
}

// ConfirmFromSupplier records the supplier's order confirmation
func (o *PurchaseOrder) ConfirmFromSupplier(confirmationNumber, userID string) error {
	if o.Status != PurchaseOrderStatusSentToSupplier {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only purchase orders sent to the supplier can be confirmed, current status: %s", o.Status))
	}
	confirmationNumber = strings.TrimSpace(confirmationNumber)
	if confirmationNumber == "" {
		return shared.NewValidationError("CONFIRMATION_REQUIRED", "Supplier confirmation number is required")
	}
	o.Confirmation = &SupplierConfirmation{ConfirmationNumber: confirmationNumber, ConfirmedBy: userID, ConfirmedAt: shared.Now()}
	o.Status = PurchaseOrderStatusConfirmed
	o.Touch(userID)
	o.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderConfirmed, o, PurchaseOrderStatusSentToSupplier, userID, ""))
	return nil
}

// StartProduction marks a confirmed order as being manufactured
func (o *PurchaseOrder) StartProduction(userID string) error {
	if o.Status != PurchaseOrderStatusConfirmed {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only confirmed purchase orders can start production, current status: %s", o.Status))
	}
	o.Status = PurchaseOrderStatusInProduction
	o.Touch(userID)
	return nil
}

// MarkShipped records a (partial) shipment by the supplier
func (o *PurchaseOrder) MarkShipped(partial bool, userID string) error {
	switch o.Status {
	case PurchaseOrderStatusConfirmed, PurchaseOrderStatusInProduction, PurchaseOrderStatusPartiallyShipped:
	default:
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot mark purchase order shipped with status: %s", o.Status))
	}
	if partial {
		o.Status = PurchaseOrderStatusPartiallyShipped
	} else {
		o.Status = PurchaseOrderStatusShipped
	}
	o.Touch(userID)
	return nil
}

// ReceiveLine is a quantity received against one order line
type ReceiveLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// ReceiveGoods adds received quantities to the order lines and promotes the
// order to partially_received or received
func (o *PurchaseOrder) ReceiveGoods(lines []ReceiveLine, receiptDate time.Time, userID string) error {
	if !o.Status.CanReceive() {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for purchase order with status: %s", o.Status))
	}
	if len(lines) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Receive items cannot be empty")
	}
	for _, l := range lines {
		if !l.Quantity.IsPositive() {
			return shared.NewValidationError("INVALID_QUANTITY", "Receive quantity must be positive")
		}
		if o.GetItem(l.ItemID) == nil {
			return shared.NewNotFoundError("Purchase order item")
		}
	}
	for _, l := range lines {
		item := o.GetItem(l.ItemID)
		item.setReceived(item.ReceivedQuantity.Add(l.Quantity))
	}
	o.refreshReceiving(receiptDate, userID)
	return nil
}

// ApplyReconciliation overwrites each line's received quantity with the accepted
// quantity reconciled from all completed goods receipts of its material.
// Lines whose material has no receipt are reset to zero.
func (o *PurchaseOrder) ApplyReconciliation(r Reconciliation, userID string) error {
	if o.Status == PurchaseOrderStatusCancelled {
		return shared.NewGuardError("PO_CANCELLED", "Cannot reconcile receipts against a cancelled purchase order")
	}
	for i := range o.Items {
		o.Items[i].setReceived(r.Accepted(o.Items[i].MaterialID))
	}
	date := r.LastReceiptDate
	if date.IsZero() {
		date = shared.Now()
	}
	o.refreshReceiving(date, userID)
	return nil
}

func (o *PurchaseOrder) refreshReceiving(receiptDate time.Time, userID string) {
	o.Receiving.Status = o.deriveReceivingStatus()
	d := receiptDate.UTC()
	o.Receiving.LastReceiptDate = &d

	from := o.Status
	if o.Status.CanReceive() {
		switch o.Receiving.Status {
		case ReceivingStatusFullyReceived:
			o.Status = PurchaseOrderStatusReceived
		case ReceivingStatusPartiallyReceived:
			o.Status = PurchaseOrderStatusPartiallyReceived
		}
	}
	if o.IsFullyReceived() && o.ActualDeliveryDate == nil {
		o.ActualDeliveryDate = &d
	}
	o.Touch(userID)
	if from != o.Status {
		o.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderReceived, o, from, userID, ""))
	}
}

func (o *PurchaseOrder) deriveReceivingStatus() ReceivingStatus {
	if len(o.Items) == 0 {
		return ReceivingStatusNotReceived
	}
	complete, started := 0, false
	for i := range o.Items {
		switch o.Items[i].ReceiptStatus {
		case ItemReceiptComplete:
			complete++
			started = true
		case ItemReceiptPartial:
			started = true
		}
	}
	switch {
	case complete == len(o.Items):
		return ReceivingStatusFullyReceived
	case started:
		return ReceivingStatusPartiallyReceived
	}
	return ReceivingStatusNotReceived
}

// Complete closes a fully received order
func (o *PurchaseOrder) Complete(userID string) error {
	if o.Status != PurchaseOrderStatusReceived {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only received purchase orders can be completed, current status: %s", o.Status))
	}
	ts := shared.Now()
	o.Status = PurchaseOrderStatusCompleted
	o.CompletedAt = &ts
	o.Touch(userID)
	o.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderCompleted, o, PurchaseOrderStatusReceived, userID, ""))
	return nil
}

// Cancel cancels an order that has not been confirmed by the supplier
func (o *PurchaseOrder) Cancel(reason, userID string) error {
	if !o.Status.CanCancel() {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot cancel PO with status: %s", o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("REASON_REQUIRED", "Cancellation reason is required")
	}
	from := o.Status
	ts := shared.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &ts
	o.Notes = appendNote(o.Notes, fmt.Sprintf("[Cancelled: %s]", reason))
	o.Touch(userID)
	o.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderCancelled, o, from, userID, reason))
	return nil
}

// SoftDelete removes a draft, rejected or cancelled order
func (o *PurchaseOrder) SoftDelete(userID string) error {
	switch o.Status {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusRejected, PurchaseOrderStatusCancelled:
	default:
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot delete PO with status: %s", o.Status))
	}
	if err := o.MarkRemoved(userID); err != nil {
		return err
	}
	o.AddDomainEvent(NewPurchaseOrderEvent(EventTypePurchaseOrderRemoved, o, o.Status, userID, ""))
	return nil
}

// CanModify returns true if lines and charges may still change
func (o *PurchaseOrder) CanModify() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// GetItem returns the line with the given ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// IsFullyReceived returns true if every line has been received in full
func (o *PurchaseOrder) IsFullyReceived() bool {
	return len(o.Items) > 0 && o.deriveReceivingStatus() == ReceivingStatusFullyReceived
}

// ReceiveProgress returns the received share of the ordered quantity, in percent
func (o *PurchaseOrder) ReceiveProgress() decimal.Decimal {
	ordered, received := decimal.Zero, decimal.Zero
	for _, item := range o.Items {
		ordered = ordered.Add(item.Quantity)
		received = received.Add(decimal.Min(item.ReceivedQuantity, item.Quantity))
	}
	if ordered.IsZero() {
		return decimal.Zero
	}
	return received.Div(ordered).Mul(decimal.NewFromInt(100)).Round(2)
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}
