package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoodsReceiptStatus represents the status of a goods receipt
type GoodsReceiptStatus string

const (
	GoodsReceiptStatusDraft     GoodsReceiptStatus = "draft"
	GoodsReceiptStatusCompleted GoodsReceiptStatus = "completed"
	GoodsReceiptStatusCancelled GoodsReceiptStatus = "cancelled"
)

// IsValid checks if the status is a valid GoodsReceiptStatus
func (s GoodsReceiptStatus) IsValid() bool {
	switch s {
	case GoodsReceiptStatusDraft, GoodsReceiptStatusCompleted, GoodsReceiptStatusCancelled:
		return true
	}
	return false
}

// QualityStatus is the inspection outcome of a receipt line
type QualityStatus string

const (
	QualityStatusPending QualityStatus = "pending"
	QualityStatusPassed  QualityStatus = "passed"
	QualityStatusFailed  QualityStatus = "failed"
	QualityStatusPartial QualityStatus = "partial"
)

// IsValid checks if the quality status is known
func (s QualityStatus) IsValid() bool {
	switch s {
	case QualityStatusPending, QualityStatusPassed, QualityStatusFailed, QualityStatusPartial:
		return true
	}
	return false
}

// GoodsReceiptItem is a received line of a purchase order
type GoodsReceiptItem struct {
	ID               uuid.UUID       `json:"id"`
	POItemID         uuid.UUID       `json:"po_item_id"`
	MaterialID       uuid.UUID       `json:"material_id"`
	Description      string          `json:"description,omitempty"`
	UOM              string          `json:"uom"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
	QualityStatus    QualityStatus   `json:"quality_status"`
	InspectionNotes  string          `json:"inspection_notes,omitempty"`
	StorageLocation  string          `json:"storage_location,omitempty"`
}

// AcceptanceRate is the accepted share of the received quantity, in percent
func (i GoodsReceiptItem) AcceptanceRate() decimal.Decimal {
	if !i.ReceivedQuantity.IsPositive() {
		return decimal.Zero
	}
	return i.AcceptedQuantity.Div(i.ReceivedQuantity).Mul(hundred).Round(2)
}

func (i GoodsReceiptItem) isInspected() bool {
	return i.AcceptedQuantity.IsPositive() || i.RejectedQuantity.IsPositive()
}

// QualityInspection is the receipt-level inspection record
type QualityInspection struct {
	Required       bool          `json:"required"`
	Inspector      string        `json:"inspector,omitempty"`
	InspectionDate *time.Time    `json:"inspection_date,omitempty"`
	Result         QualityStatus `json:"result,omitempty"`
	Notes          string        `json:"notes,omitempty"`
}

// GoodsReceipt records goods delivered against a purchase order
type GoodsReceipt struct {
	shared.DocumentRoot
	ReceiptNumber     string
	PurchaseOrderID   uuid.UUID
	PONumber          string
	SupplierID        uuid.UUID
	ReceiptDate       time.Time
	WarehouseLocation string
	DeliveryNote      string
	Items             []GoodsReceiptItem
	QualityInspection QualityInspection
	Status            GoodsReceiptStatus
	TotalReceived     decimal.Decimal
	TotalAccepted     decimal.Decimal
	TotalRejected     decimal.Decimal
	Notes             string
	CompletedBy       string
	CompletedAt       *time.Time
	CancelledAt       *time.Time
}

// NewGoodsReceipt creates a draft receipt for a purchase order that can receive goods
func NewGoodsReceipt(number string, po *PurchaseOrder, receiptDate time.Time, inspectionRequired bool, createdBy string) (*GoodsReceipt, error) {
	if err := sequence.Validate(sequence.DocumentTypeGoodsReceipt, number); err != nil {
		return nil, err
	}
	if po == nil {
		return nil, shared.NewNotFoundError("Purchase order")
	}
	if !po.Status.CanReceive() {
		return nil, shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for purchase order with status: %s", po.Status))
	}
	if receiptDate.IsZero() {
		receiptDate = shared.Now()
	}
	gr := &GoodsReceipt{
		DocumentRoot:      shared.NewDocumentRoot(createdBy),
		ReceiptNumber:     number,
		PurchaseOrderID:   po.ID,
		PONumber:          po.PONumber,
		SupplierID:        po.SupplierID,
		ReceiptDate:       receiptDate.UTC(),
		Items:             make([]GoodsReceiptItem, 0),
		QualityInspection: QualityInspection{Required: inspectionRequired},
		Status:            GoodsReceiptStatusDraft,
	}
	gr.RecalculateTotals()
	return gr, nil
}

// SetDelivery sets where the goods were stored and the carrier's delivery note
func (g *GoodsReceipt) SetDelivery(warehouseLocation, deliveryNote, notes, userID string) error {
	if g.Status != GoodsReceiptStatusDraft {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot edit goods receipt with status: %s", g.Status))
	}
	g.WarehouseLocation = strings.TrimSpace(warehouseLocation)
	g.DeliveryNote = strings.TrimSpace(deliveryNote)
	g.Notes = strings.TrimSpace(notes)
	g.Touch(userID)
	return nil
}

// AddItem receives quantity against a purchase order line
func (g *GoodsReceipt) AddItem(line PurchaseOrderItem, received decimal.Decimal, storageLocation, userID string) (uuid.UUID, error) {
	if g.Status != GoodsReceiptStatusDraft {
		return uuid.Nil, shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot add items to goods receipt with status: %s", g.Status))
	}
	if !received.IsPositive() {
		return uuid.Nil, shared.NewValidationError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	for _, existing := range g.Items {
		if existing.POItemID == line.ID {
			return uuid.Nil, shared.NewConsistencyError("DUPLICATE_LINE", "Purchase order line is already on this receipt")
		}
	}
	item := GoodsReceiptItem{
		ID:               uuid.New(),
		POItemID:         line.ID,
		MaterialID:       line.MaterialID,
		Description:      line.Description,
		UOM:              line.UOM,
		OrderedQuantity:  line.Quantity,
		ReceivedQuantity: received,
		AcceptedQuantity: decimal.Zero,
		RejectedQuantity: decimal.Zero,
		QualityStatus:    QualityStatusPending,
		StorageLocation:  strings.TrimSpace(storageLocation),
	}
	g.Items = append(g.Items, item)
	g.RecalculateTotals()
	g.Touch(userID)
	return item.ID, nil
}

// ItemInspection is the inspection outcome of one receipt line
type ItemInspection struct {
	ItemID           uuid.UUID
	AcceptedQuantity decimal.Decimal
	RejectedQuantity decimal.Decimal
	QualityStatus    QualityStatus
	Notes            string
}

// InspectionInput is a quality inspection of the receipt
type InspectionInput struct {
	Inspector string
	Date      time.Time
	Result    QualityStatus
	Notes     string
	Items     []ItemInspection
}

// RecordInspection records inspection results. Allowed in any state except cancelled.
func (g *GoodsReceipt) RecordInspection(in InspectionInput, userID string) error {
	if g.Status == GoodsReceiptStatusCancelled {
		return shared.NewGuardError("INVALID_STATE", "Cannot record inspection on a cancelled goods receipt")
	}
	if in.Result != "" && !in.Result.IsValid() {
		return shared.NewValidationError("INVALID_QUALITY_STATUS", fmt.Sprintf("Invalid quality status: %s", in.Result))
	}
	for _, ii := range in.Items {
		item := g.item(ii.ItemID)
		if item == nil {
			return shared.NewNotFoundError("Goods receipt item")
		}
		if ii.AcceptedQuantity.IsNegative() || ii.RejectedQuantity.IsNegative() {
			return shared.NewValidationError("INVALID_QUANTITY", "Accepted and rejected quantities cannot be negative")
		}
		if ii.AcceptedQuantity.Add(ii.RejectedQuantity).GreaterThan(item.ReceivedQuantity) {
			return shared.NewConsistencyError("INSPECTION_EXCEEDS_RECEIVED", "Accepted plus rejected quantity cannot exceed received quantity")
		}
		if ii.QualityStatus != "" && !ii.QualityStatus.IsValid() {
			return shared.NewValidationError("INVALID_QUALITY_STATUS", fmt.Sprintf("Invalid quality status: %s", ii.QualityStatus))
		}
	}

	date := in.Date
	if date.IsZero() {
		date = shared.Now()
	}
	g.QualityInspection.Inspector = strings.TrimSpace(in.Inspector)
	g.QualityInspection.InspectionDate = &date
	g.QualityInspection.Notes = strings.TrimSpace(in.Notes)
	for _, ii := range in.Items {
		item := g.item(ii.ItemID)
		item.AcceptedQuantity = ii.AcceptedQuantity
		item.RejectedQuantity = ii.RejectedQuantity
		item.InspectionNotes = strings.TrimSpace(ii.Notes)
		item.QualityStatus = ii.QualityStatus
		if item.QualityStatus == "" {
			item.QualityStatus = deriveQualityStatus(ii.AcceptedQuantity, ii.RejectedQuantity)
		}
	}
	g.QualityInspection.Result = in.Result
	if g.QualityInspection.Result == "" {
		g.QualityInspection.Result = g.overallQuality()
	}
	g.RecalculateTotals()
	g.Touch(userID)
	return nil
}

func deriveQualityStatus(accepted, rejected decimal.Decimal) QualityStatus {
	switch {
	case !accepted.IsPositive() && !rejected.IsPositive():
		return QualityStatusPending
	case !rejected.IsPositive():
		return QualityStatusPassed
	case !accepted.IsPositive():
		return QualityStatusFailed
	}
	return QualityStatusPartial
}

func (g *GoodsReceipt) overallQuality() QualityStatus {
	return deriveQualityStatus(g.sum(func(i GoodsReceiptItem) decimal.Decimal { return i.AcceptedQuantity }),
		g.sum(func(i GoodsReceiptItem) decimal.Decimal { return i.RejectedQuantity }))
}

// Complete finalises the receipt. When inspection is required every received line
// must have been inspected; otherwise uninspected lines are accepted in full.
func (g *GoodsReceipt) Complete(userID string) error {
	switch g.Status {
	case GoodsReceiptStatusCompleted:
		return shared.NewGuardError("INVALID_STATE", "Goods receipt is already completed")
	case GoodsReceiptStatusCancelled:
		return shared.NewGuardError("INVALID_STATE", "Cannot complete a cancelled goods receipt")
	}
	if len(g.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Goods receipt must have at least one item")
	}
	for i := range g.Items {
		item := &g.Items[i]
		if !item.ReceivedQuantity.IsPositive() || item.isInspected() {
			continue
		}
		if g.QualityInspection.Required {
			return shared.NewConsistencyError("INSPECTION_REQUIRED", "Quality inspection required for all received items")
		}
	}
	if !g.QualityInspection.Required {
		for i := range g.Items {
			item := &g.Items[i]
			if item.ReceivedQuantity.IsPositive() && !item.isInspected() {
				item.AcceptedQuantity = item.ReceivedQuantity
				item.QualityStatus = QualityStatusPassed
			}
		}
	}

	ts := shared.Now()
	g.Status = GoodsReceiptStatusCompleted
	g.CompletedBy = userID
	g.CompletedAt = &ts
	g.RecalculateTotals()
	g.Touch(userID)
	g.AddDomainEvent(NewGoodsReceiptCompletedEvent(g, userID))
	return nil
}

// Cancel cancels a receipt that has not been completed
func (g *GoodsReceipt) Cancel(userID, reason string) error {
	switch g.Status {
	case GoodsReceiptStatusCompleted:
		return shared.NewGuardError("INVALID_STATE", "Cannot cancel a completed goods receipt")
	case GoodsReceiptStatusCancelled:
		return shared.NewGuardError("INVALID_STATE", "Goods receipt is already cancelled")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("REASON_REQUIRED", "Cancellation reason is required")
	}
	ts := shared.Now()
	g.Status = GoodsReceiptStatusCancelled
	g.CancelledAt = &ts
	g.Notes = appendNote(g.Notes, fmt.Sprintf("[Cancelled: %s]", reason))
	g.Touch(userID)
	return nil
}

// SoftDelete removes a receipt that has not been completed
func (g *GoodsReceipt) SoftDelete(userID string) error {
	if g.Status == GoodsReceiptStatusCompleted {
		return shared.NewGuardError("INVALID_STATE", "Cannot delete a completed goods receipt")
	}
	return g.MarkRemoved(userID)
}

// RecalculateTotals derives the document totals from the items
func (g *GoodsReceipt) RecalculateTotals() {
	g.TotalReceived = g.sum(func(i GoodsReceiptItem) decimal.Decimal { return i.ReceivedQuantity })
	g.TotalAccepted = g.sum(func(i GoodsReceiptItem) decimal.Decimal { return i.AcceptedQuantity })
	g.TotalRejected = g.sum(func(i GoodsReceiptItem) decimal.Decimal { return i.RejectedQuantity })
}

// AcceptanceRate is the accepted share of everything received, in percent
func (g *GoodsReceipt) AcceptanceRate() decimal.Decimal {
	if !g.TotalReceived.IsPositive() {
		return decimal.Zero
	}
	return g.TotalAccepted.Div(g.TotalReceived).Mul(hundred).Round(2)
}

func (g *GoodsReceipt) sum(field func(GoodsReceiptItem) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range g.Items {
		total = total.Add(field(item))
	}
	return total
}

func (g *GoodsReceipt) item(id uuid.UUID) *GoodsReceiptItem {
	for i := range g.Items {
		if g.Items[i].ID == id {
			return &g.Items[i]
		}
	}
	return nil
}
