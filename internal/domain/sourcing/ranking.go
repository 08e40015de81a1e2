package sourcing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RankQuotes recomputes every quote's total price and assigns rank by ascending
// unit price. Rank 1 is the cheapest; ties keep their original order.
// The stored order of quotes is not changed.
func RankQuotes(item *QuotationItem) {
	order := make([]int, len(item.Quotes))
	for i := range item.Quotes {
		item.Quotes[i].TotalPrice = item.Quotes[i].UnitPrice.Mul(item.Quantity)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return item.Quotes[order[a]].UnitPrice.LessThan(item.Quotes[order[b]].UnitPrice)
	})
	for rank, i := range order {
		item.Quotes[i].Rank = rank + 1
	}
}

// SelectedQuotesSummary aggregates the currently selected quotes of a quotation
type SelectedQuotesSummary struct {
	TotalValue     decimal.Decimal `json:"total_value"`
	AverageSavings decimal.Decimal `json:"average_savings"`
	SupplierCount  int             `json:"supplier_count"`
}

// SummarizeSelection computes the selected-quote summary.
// AverageSavings is the mean savings percentage versus target over items that
// have both a selected quote and a positive target price.
func SummarizeSelection(items []QuotationItem) SelectedQuotesSummary {
	total := decimal.Zero
	savingsSum := decimal.Zero
	savingsItems := 0
	suppliers := make(map[uuid.UUID]bool)

	for i := range items {
		q, ok := items[i].SelectedQuote()
		if !ok {
			continue
		}
		total = total.Add(q.TotalPrice)
		suppliers[q.SupplierID] = true

		if items[i].TargetPrice.IsPositive() {
			target := items[i].TargetPrice.Mul(items[i].Quantity)
			savingsSum = savingsSum.Add(target.Sub(q.TotalPrice).Div(target).Mul(hundred))
			savingsItems++
		}
	}

	avg := decimal.Zero
	if savingsItems > 0 {
		avg = savingsSum.Div(decimal.NewFromInt(int64(savingsItems))).Round(2)
	}
	return SelectedQuotesSummary{
		TotalValue:     total,
		AverageSavings: avg,
		SupplierCount:  len(suppliers),
	}
}
