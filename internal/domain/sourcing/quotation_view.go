package sourcing

import (
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationView is the client-facing projection of a MaterialQuotation
type QuotationView struct {
	ID                   uuid.UUID             `json:"id"`
	QuotationNumber      string                `json:"quotation_number"`
	Title                string                `json:"title,omitempty"`
	Currency             valueobject.Currency  `json:"currency"`
	Status               QuotationStatus       `json:"status"`
	Items                []QuotationItem       `json:"items"`
	TargetSuppliers      []uuid.UUID           `json:"target_suppliers"`
	ValidUntil           *time.Time            `json:"valid_until,omitempty"`
	Notes                string                `json:"notes,omitempty"`
	ResponseCount        int                   `json:"response_count"`
	CompletionPercentage decimal.Decimal       `json:"completion_percentage"`
	SelectedQuotes       SelectedQuotesSummary `json:"selected_quotes"`
	RequiredLevels       []int                 `json:"required_levels,omitempty"`
	SentAt               *time.Time            `json:"sent_at,omitempty"`
	CompletedAt          *time.Time            `json:"completed_at,omitempty"`
	PurchaseOrders       []PurchaseOrderLink   `json:"purchase_orders"`
	shared.AuditStamps
}

// Format projects the quotation into its client-facing view
func (q *MaterialQuotation) Format() QuotationView {
	items := make([]QuotationItem, len(q.Items))
	for i, it := range q.Items {
		it.Quotes = append([]Quote(nil), it.Quotes...)
		items[i] = it
	}
	return QuotationView{
		ID:                   q.ID,
		QuotationNumber:      q.QuotationNumber,
		Title:                q.Title,
		Currency:             q.Currency,
		Status:               q.Status,
		Items:                items,
		TargetSuppliers:      append([]uuid.UUID(nil), q.TargetSuppliers...),
		ValidUntil:           q.ValidUntil,
		Notes:                q.Notes,
		ResponseCount:        q.ResponseCount(),
		CompletionPercentage: q.CompletionPercentage(),
		SelectedQuotes:       q.Selected,
		RequiredLevels:       q.Route.RequiredLevels,
		SentAt:               q.SentAt,
		CompletedAt:          q.CompletedAt,
		PurchaseOrders:       append([]PurchaseOrderLink(nil), q.PurchaseOrders...),
		AuditStamps:          q.AuditStamps(),
	}
}
