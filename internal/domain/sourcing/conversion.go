package sourcing

import (
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConversionLine is one purchase order line derived from a selected quote
type ConversionLine struct {
	ItemID       uuid.UUID
	QuoteID      uuid.UUID
	MaterialID   uuid.UUID
	Description  string
	Quantity     decimal.Decimal
	UOM          string
	UnitPrice    decimal.Decimal
	LeadTimeDays int
	RequiredDate *time.Time
}

// ConversionGroup is everything one supplier was selected for. It becomes one purchase order.
type ConversionGroup struct {
	SupplierID uuid.UUID
	Currency   valueobject.Currency
	Lines      []ConversionLine
	Subtotal   decimal.Decimal
}

// ConversionPlan groups the selected quotes of a completed quotation by supplier
type ConversionPlan struct {
	QuotationID     uuid.UUID
	QuotationNumber string
	Groups          []ConversionGroup
	// SkippedItems lists items without a selected quote
	SkippedItems []uuid.UUID
}

// PlanConversion builds one group per distinct supplier among the selected quotes.
// Groups keep the order in which their supplier first appears.
func (q *MaterialQuotation) PlanConversion() (ConversionPlan, error) {
	if q.Status != QuotationStatusCompleted {
		return ConversionPlan{}, shared.NewGuardError("INVALID_STATE", "Only completed quotations can be converted to purchase orders")
	}
	if q.IsConverted() {
		return ConversionPlan{}, shared.NewGuardError("ALREADY_CONVERTED", "Quotation has already been converted to purchase orders")
	}

	plan := ConversionPlan{QuotationID: q.ID, QuotationNumber: q.QuotationNumber}
	bySupplier := make(map[uuid.UUID]int)
	for i := range q.Items {
		item := &q.Items[i]
		quote, ok := item.SelectedQuote()
		if !ok {
			plan.SkippedItems = append(plan.SkippedItems, item.ID)
			continue
		}
		g, ok := bySupplier[quote.SupplierID]
		if !ok {
			g = len(plan.Groups)
			bySupplier[quote.SupplierID] = g
			plan.Groups = append(plan.Groups, ConversionGroup{
				SupplierID: quote.SupplierID,
				Currency:   q.Currency,
				Subtotal:   decimal.Zero,
			})
		}
		group := &plan.Groups[g]
		group.Lines = append(group.Lines, ConversionLine{
			ItemID:       item.ID,
			QuoteID:      quote.ID,
			MaterialID:   item.MaterialID,
			Description:  item.Description,
			Quantity:     item.Quantity,
			UOM:          item.UOM,
			UnitPrice:    quote.UnitPrice,
			LeadTimeDays: quote.LeadTimeDays,
			RequiredDate: item.RequiredDate,
		})
		group.Subtotal = group.Subtotal.Add(item.Quantity.Mul(quote.UnitPrice))
	}
	return plan, nil
}

// SupplierIDs returns the supplier of every group
func (p ConversionPlan) SupplierIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Groups))
	for _, g := range p.Groups {
		ids = append(ids, g.SupplierID)
	}
	return ids
}

// MaxLeadTimeDays is the longest quoted lead time of the group
func (g ConversionGroup) MaxLeadTimeDays() int {
	longest := 0
	for _, l := range g.Lines {
		if l.LeadTimeDays > longest {
			longest = l.LeadTimeDays
		}
	}
	return longest
}
