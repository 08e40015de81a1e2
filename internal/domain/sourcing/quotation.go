package sourcing

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

// QuotationStatus represents the status of a material quotation
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusSent      QuotationStatus = "sent"
	QuotationStatusInReview  QuotationStatus = "in_review"
	QuotationStatusCompleted QuotationStatus = "completed"
	QuotationStatusCancelled QuotationStatus = "cancelled"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusInReview,
		QuotationStatusCompleted, QuotationStatusCancelled:
		return true
	}
	return false
}

// acceptsQuotes is true while suppliers may still respond
func (s QuotationStatus) acceptsQuotes() bool {
	return s == QuotationStatusSent || s == QuotationStatusInReview
}

// Quote is one supplier's response for one requested item
type Quote struct {
	ID           uuid.UUID            `json:"id"`
	SupplierID   uuid.UUID            `json:"supplier_id"`
	UnitPrice    decimal.Decimal      `json:"unit_price"`
	TotalPrice   decimal.Decimal      `json:"total_price"`
	Currency     valueobject.Currency `json:"currency"`
	LeadTimeDays int                  `json:"lead_time_days"`
	ValidUntil   *time.Time           `json:"valid_until,omitempty"`
	Notes        string               `json:"notes,omitempty"`
	Rank         int                  `json:"rank"`
	IsSelected   bool                 `json:"is_selected"`
	QuotedBy     string               `json:"quoted_by"`
	QuotedAt     time.Time            `json:"quoted_at"`
}

// QuotationItem is a requested material and the quotes received for it
type QuotationItem struct {
	ID           uuid.UUID       `json:"id"`
	MaterialID   uuid.UUID       `json:"material_id"`
	Description  string          `json:"description,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UOM          string          `json:"uom"`
	TargetPrice  decimal.Decimal `json:"target_price"`
	RequiredDate *time.Time      `json:"required_date,omitempty"`
	Quotes       []Quote         `json:"quotes"`
}

// SelectedQuote returns the item's selected quote, if any
func (i *QuotationItem) SelectedQuote() (Quote, bool) {
	for _, q := range i.Quotes {
		if q.IsSelected {
			return q, true
		}
	}
	return Quote{}, false
}

// PurchaseOrderLink records a purchase order created from the quotation
type PurchaseOrderLink struct {
	SupplierID      uuid.UUID `json:"supplier_id"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	PONumber        string    `json:"po_number"`
	CreatedAt       time.Time `json:"created_at"`
}

// MaterialQuotation is a request for quotation sent to several suppliers
type MaterialQuotation struct {
	shared.DocumentRoot
	QuotationNumber string
	Title           string
	Currency        valueobject.Currency
	Items           []QuotationItem
	TargetSuppliers []uuid.UUID
	ValidUntil      *time.Time
	Notes           string
	Status          QuotationStatus
	SentBy          string
	SentAt          *time.Time
	CompletedBy     string
	CompletedAt     *time.Time
	Route           workflow.Route
	Selected        SelectedQuotesSummary
	PurchaseOrders  []PurchaseOrderLink
}

// NewMaterialQuotation creates a draft quotation
func NewMaterialQuotation(number, title string, currency valueobject.Currency, createdBy string) (*MaterialQuotation, error) {
	if err := sequence.Validate(sequence.DocumentTypeMaterialQuotation, number); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", currency))
	}
	q := &MaterialQuotation{
		DocumentRoot:    shared.NewDocumentRoot(createdBy),
		QuotationNumber: number,
		Title:           strings.TrimSpace(title),
		Currency:        currency,
		Items:           make([]QuotationItem, 0),
		TargetSuppliers: make([]uuid.UUID, 0),
		Status:          QuotationStatusDraft,
		Selected:        SelectedQuotesSummary{TotalValue: decimal.Zero, AverageSavings: decimal.Zero},
		PurchaseOrders:  make([]PurchaseOrderLink, 0),
	}
	q.AddDomainEvent(NewQuotationEvent(EventTypeQuotationCreated, q, "", createdBy, ""))
	return q, nil
}

// ItemInput describes a requested item
type ItemInput struct {
	MaterialID   uuid.UUID
	Description  string
	Quantity     decimal.Decimal
	UOM          string
	TargetPrice  decimal.Decimal
	RequiredDate *time.Time
}

// AddItem appends a requested item. Only draft quotations accept items.
func (q *MaterialQuotation) AddItem(in ItemInput, userID string) (uuid.UUID, error) {
	if q.Status != QuotationStatusDraft {
		return uuid.Nil, shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot add items to quotation with status: %s", q.Status))
	}
	if in.MaterialID == uuid.Nil {
		return uuid.Nil, shared.NewValidationError("INVALID_MATERIAL", "Material is required")
	}
	if !in.Quantity.IsPositive() {
		return uuid.Nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.TargetPrice.IsNegative() {
		return uuid.Nil, shared.NewValidationError("INVALID_PRICE", "Target price cannot be negative")
	}
	uom := strings.ToUpper(strings.TrimSpace(in.UOM))
	if uom == "" {
		return uuid.Nil, shared.NewValidationError("INVALID_UOM", "Unit of measure is required")
	}
	item := QuotationItem{
		ID:           uuid.New(),
		MaterialID:   in.MaterialID,
		Description:  strings.TrimSpace(in.Description),
		Quantity:     in.Quantity,
		UOM:          uom,
		TargetPrice:  in.TargetPrice,
		RequiredDate: in.RequiredDate,
		Quotes:       make([]Quote, 0),
	}
	q.Items = append(q.Items, item)
	q.Touch(userID)
	return item.ID, nil
}

// RemoveItem removes a requested item from a draft quotation
func (q *MaterialQuotation) RemoveItem(itemID uuid.UUID, userID string) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot remove items from quotation with status: %s", q.Status))
	}
	for i := range q.Items {
		if q.Items[i].ID == itemID {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			q.Touch(userID)
			return nil
		}
	}
	return shared.NewNotFoundError("Quotation item")
}

// AddTargetSupplier invites a supplier. Adding an invited supplier again is a no-op.
func (q *MaterialQuotation) AddTargetSupplier(supplierID uuid.UUID, userID string) error {
	if q.Status != QuotationStatusDraft && q.Status != QuotationStatusSent {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot add suppliers to quotation with status: %s", q.Status))
	}
	if supplierID == uuid.Nil {
		return shared.NewValidationError("INVALID_SUPPLIER", "Supplier is required")
	}
	if q.isTarget(supplierID) {
		return nil
	}
	q.TargetSuppliers = append(q.TargetSuppliers, supplierID)
	q.Touch(userID)
	return nil
}

func (q *MaterialQuotation) isTarget(supplierID uuid.UUID) bool {
	for _, id := range q.TargetSuppliers {
		if id == supplierID {
			return true
		}
	}
	return false
}

// SetValidity sets the response deadline and free-text notes of a draft quotation
func (q *MaterialQuotation) SetValidity(validUntil *time.Time, notes, userID string) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot edit quotation with status: %s", q.Status))
	}
	q.ValidUntil = validUntil
	q.Notes = strings.TrimSpace(notes)
	q.Touch(userID)
	return nil
}

// Send issues the request to the target suppliers
func (q *MaterialQuotation) Send(userID string) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only draft quotations can be sent, current status: %s", q.Status))
	}
	if len(q.TargetSuppliers) == 0 {
		return shared.NewValidationError("NO_SUPPLIERS", "At least one target supplier is required")
	}
	if len(q.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "At least one item is required")
	}
	ts := shared.Now()
	q.Status = QuotationStatusSent
	q.SentBy = userID
	q.SentAt = &ts
	q.Touch(userID)
	q.AddDomainEvent(NewQuotationEvent(EventTypeQuotationSent, q, QuotationStatusDraft, userID, ""))
	return nil
}

// QuoteInput is a supplier response for one item
type QuoteInput struct {
	SupplierID   uuid.UUID
	UnitPrice    decimal.Decimal
	Currency     valueobject.Currency
	LeadTimeDays int
	ValidUntil   *time.Time
	Notes        string
}

// AddQuote records a supplier's quote for an item. Quotes are priced in the
// quotation currency. The first quote moves a sent quotation into review.
func (q *MaterialQuotation) AddQuote(itemID uuid.UUID, in QuoteInput, userID string) (uuid.UUID, error) {
	if !q.Status.acceptsQuotes() {
		return uuid.Nil, shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot add quotes to quotation with status: %s", q.Status))
	}
	item := q.item(itemID)
	if item == nil {
		return uuid.Nil, shared.NewNotFoundError("Quotation item")
	}
	if !q.isTarget(in.SupplierID) {
		return uuid.Nil, shared.NewConsistencyError("SUPPLIER_NOT_INVITED", "Supplier was not invited to this quotation")
	}
	if !in.UnitPrice.IsPositive() {
		return uuid.Nil, shared.NewValidationError("INVALID_PRICE", "Unit price must be positive")
	}
	if in.LeadTimeDays < 0 {
		return uuid.Nil, shared.NewValidationError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}
	if in.Currency == "" {
		in.Currency = q.Currency
	}
	if !in.Currency.IsValid() {
		return uuid.Nil, shared.NewValidationError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", in.Currency))
	}
	if in.Currency != q.Currency {
		return uuid.Nil, shared.NewConsistencyError("CURRENCY_MISMATCH",
			fmt.Sprintf("Quote currency %s does not match quotation currency %s", in.Currency, q.Currency))
	}
	for _, existing := range item.Quotes {
		if existing.SupplierID == in.SupplierID {
			return uuid.Nil, shared.NewConsistencyError("DUPLICATE_QUOTE", "Supplier has already provided a quote for this item")
		}
	}

	quote := Quote{
		ID:           uuid.New(),
		SupplierID:   in.SupplierID,
		UnitPrice:    in.UnitPrice,
		Currency:     in.Currency,
		LeadTimeDays: in.LeadTimeDays,
		ValidUntil:   in.ValidUntil,
		Notes:        strings.TrimSpace(in.Notes),
		QuotedBy:     userID,
		QuotedAt:     shared.Now(),
	}
	item.Quotes = append(item.Quotes, quote)
	if q.Status == QuotationStatusSent {
		q.Status = QuotationStatusInReview
	}
	q.Rank()
	q.Touch(userID)
	return quote.ID, nil
}

// SelectQuote makes quoteID the only selected quote of the item
func (q *MaterialQuotation) SelectQuote(itemID, quoteID uuid.UUID, userID string) error {
	if !q.Status.acceptsQuotes() {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot select quotes on quotation with status: %s", q.Status))
	}
	item := q.item(itemID)
	if item == nil {
		return shared.NewNotFoundError("Quotation item")
	}
	found := false
	for i := range item.Quotes {
		if item.Quotes[i].ID == quoteID {
			found = true
		}
	}
	if !found {
		return shared.NewNotFoundError("Quote")
	}
	for i := range item.Quotes {
		item.Quotes[i].IsSelected = item.Quotes[i].ID == quoteID
	}
	q.Rank()
	q.Touch(userID)
	return nil
}

// Rank re-ranks every item's quotes and refreshes the selection summary.
// Repositories call it before every save.
func (q *MaterialQuotation) Rank() {
	for i := range q.Items {
		RankQuotes(&q.Items[i])
	}
	q.Selected = SummarizeSelection(q.Items)
}

// Complete closes the quotation once every item has a selected quote and records
// the approval route for the selected total. wf may be nil when no workflow applies.
func (q *MaterialQuotation) Complete(wf *workflow.Workflow, userID string) error {
	if !q.Status.acceptsQuotes() {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot complete quotation with status: %s", q.Status))
	}
	for i := range q.Items {
		if _, ok := q.Items[i].SelectedQuote(); !ok {
			return shared.NewConsistencyError("INCOMPLETE_SELECTION", "All items must have a selected quote")
		}
	}
	q.Rank()
	if wf != nil {
		q.Route = wf.Route(workflow.Facts{Amount: q.Selected.TotalValue})
	}
	from := q.Status
	ts := shared.Now()
	q.Status = QuotationStatusCompleted
	q.CompletedBy = userID
	q.CompletedAt = &ts
	q.Touch(userID)
	q.AddDomainEvent(NewQuotationEvent(EventTypeQuotationCompleted, q, from, userID, ""))
	return nil
}

// Cancel cancels a quotation that has not been completed
func (q *MaterialQuotation) Cancel(reason, userID string) error {
	if q.Status == QuotationStatusCompleted || q.Status == QuotationStatusCancelled {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot cancel quotation with status: %s", q.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("REASON_REQUIRED", "Cancellation reason is required")
	}
	from := q.Status
	q.Status = QuotationStatusCancelled
	q.Notes = appendNote(q.Notes, fmt.Sprintf("[Cancelled: %s]", reason))
	q.Touch(userID)
	q.AddDomainEvent(NewQuotationEvent(EventTypeQuotationCancelled, q, from, userID, reason))
	return nil
}

// SoftDelete removes the quotation. Completed quotations are kept.
func (q *MaterialQuotation) SoftDelete(userID string) error {
	if q.Status == QuotationStatusCompleted {
		return shared.NewGuardError("INVALID_STATE", "Cannot delete a completed quotation")
	}
	if err := q.MarkRemoved(userID); err != nil {
		return err
	}
	q.AddDomainEvent(NewQuotationEvent(EventTypeQuotationRemoved, q, q.Status, userID, ""))
	return nil
}

// IsConverted reports whether purchase orders were already created from the quotation
func (q *MaterialQuotation) IsConverted() bool {
	return len(q.PurchaseOrders) > 0
}

// RecordConversion stores the purchase orders created from the quotation
func (q *MaterialQuotation) RecordConversion(links []PurchaseOrderLink, userID string) error {
	if q.Status != QuotationStatusCompleted {
		return shared.NewGuardError("INVALID_STATE", "Only completed quotations can be converted to purchase orders")
	}
	if q.IsConverted() {
		return shared.NewGuardError("ALREADY_CONVERTED", "Quotation has already been converted to purchase orders")
	}
	if len(links) == 0 {
		return shared.NewValidationError("NO_PURCHASE_ORDERS", "No purchase orders to record")
	}
	q.PurchaseOrders = append(q.PurchaseOrders, links...)
	q.Touch(userID)
	q.AddDomainEvent(NewQuotationConvertedEvent(q, userID))
	return nil
}

// ResponseCount is the number of distinct suppliers that quoted on any item
func (q *MaterialQuotation) ResponseCount() int {
	responders := make(map[uuid.UUID]bool)
	for i := range q.Items {
		for _, quote := range q.Items[i].Quotes {
			responders[quote.SupplierID] = true
		}
	}
	return len(responders)
}

// CompletionPercentage is responses over target suppliers, in percent
func (q *MaterialQuotation) CompletionPercentage() decimal.Decimal {
	if len(q.TargetSuppliers) == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(q.ResponseCount())).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(len(q.TargetSuppliers)))).
		Round(2)
}

func (q *MaterialQuotation) item(id uuid.UUID) *QuotationItem {
	for i := range q.Items {
		if q.Items[i].ID == id {
			return &q.Items[i]
		}
	}
	return nil
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}
