package sourcing

import (
	"strings"
	"testing"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	q       *MaterialQuotation
	item    uuid.UUID
	a, b, c uuid.UUID
}

// newSentQuotation builds a sent quotation with one item of quantity 100 and three invited suppliers
func newSentQuotation(t *testing.T) fixture {
	t.Helper()
	q, err := NewMaterialQuotation("MQ-20260106-0001", "Steel plates", "", "buyer")
	require.NoError(t, err)

	f := fixture{q: q, a: uuid.New(), b: uuid.New(), c: uuid.New()}
	f.item, err = q.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec("100"), UOM: "pcs", TargetPrice: dec("12")}, "buyer")
	require.NoError(t, err)
	for _, s := range []uuid.UUID{f.a, f.b, f.c} {
		require.NoError(t, q.AddTargetSupplier(s, "buyer"))
	}
	require.NoError(t, q.Send("buyer"))
	return f
}

func quoteOf(q *MaterialQuotation, itemID, supplierID uuid.UUID) Quote {
	for _, it := range q.Items {
		if it.ID != itemID {
			continue
		}
		for _, quote := range it.Quotes {
			if quote.SupplierID == supplierID {
				return quote
			}
		}
	}
	return Quote{}
}

func TestNewMaterialQuotation(t *testing.T) {
	q, err := NewMaterialQuotation("MQ-20260106-0001", "t", "", "buyer")
	require.NoError(t, err)
	assert.Equal(t, QuotationStatusDraft, q.Status)
	assert.Equal(t, "CNY", q.Currency.String())

	_, err = NewMaterialQuotation("MQ-20260106-001", "t", "", "buyer")
	assert.Error(t, err, "quotation numbers are four digits wide")
	_, err = NewMaterialQuotation("MQ-20260106-0001", "t", "GBP", "buyer")
	assert.Error(t, err)
}

func TestMaterialQuotation_Send(t *testing.T) {
	q, err := NewMaterialQuotation("MQ-20260106-0001", "t", "", "buyer")
	require.NoError(t, err)

	assert.Error(t, q.Send("buyer"), "needs suppliers")
	require.NoError(t, q.AddTargetSupplier(uuid.New(), "buyer"))
	assert.Error(t, q.Send("buyer"), "needs items")
	_, err = q.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec("1"), UOM: "pcs"}, "buyer")
	require.NoError(t, err)

	require.NoError(t, q.Send("buyer"))
	assert.Equal(t, QuotationStatusSent, q.Status)
	assert.NotNil(t, q.SentAt)
	assert.True(t, shared.IsKind(q.Send("buyer"), shared.KindGuard))

	_, err = q.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec("1"), UOM: "pcs"}, "buyer")
	assert.Error(t, err, "items are frozen once sent")
}

func TestMaterialQuotation_QuoteRankingScenario(t *testing.T) {
	f := newSentQuotation(t)
	q := f.q

	_, err := q.AddQuote(f.item, QuoteInput{SupplierID: f.a, UnitPrice: dec("12.00")}, "buyer")
	require.NoError(t, err)
	assert.Equal(t, QuotationStatusInReview, q.Status, "first quote moves sent to in_review")
	_, err = q.AddQuote(f.item, QuoteInput{SupplierID: f.b, UnitPrice: dec("10.00")}, "buyer")
	require.NoError(t, err)
	_, err = q.AddQuote(f.item, QuoteInput{SupplierID: f.c, UnitPrice: dec("11.00")}, "buyer")
	require.NoError(t, err)

	a, b, c := quoteOf(q, f.item, f.a), quoteOf(q, f.item, f.b), quoteOf(q, f.item, f.c)
	assert.Equal(t, 3, a.Rank)
	assert.Equal(t, 1, b.Rank)
	assert.Equal(t, 2, c.Rank)
	assert.True(t, a.TotalPrice.Equal(dec("1200")))
	assert.True(t, b.TotalPrice.Equal(dec("1000")))
	assert.True(t, c.TotalPrice.Equal(dec("1100")))

	assert.Equal(t, 3, q.ResponseCount())
	assert.True(t, q.CompletionPercentage().Equal(dec("100")))
}

func TestRankQuotes_TiesKeepOriginalOrder(t *testing.T) {
	item := QuotationItem{Quantity: dec("2"), Quotes: []Quote{
		{UnitPrice: dec("5")}, {UnitPrice: dec("3")}, {UnitPrice: dec("5")},
	}}
	RankQuotes(&item)
	assert.Equal(t, []int{2, 1, 3}, []int{item.Quotes[0].Rank, item.Quotes[1].Rank, item.Quotes[2].Rank})
	assert.True(t, item.Quotes[0].TotalPrice.Equal(dec("10")))
}

func TestMaterialQuotation_AddQuoteRules(t *testing.T) {
	f := newSentQuotation(t)
	q := f.q

	_, err := q.AddQuote(f.item, QuoteInput{SupplierID: f.a, UnitPrice: dec("12")}, "buyer")
	require.NoError(t, err)

	_, err = q.AddQuote(f.item, QuoteInput{SupplierID: f.a, UnitPrice: dec("11")}, "buyer")
	require.Error(t, err)
	assert.Equal(t, "Supplier has already provided a quote for this item", err.Error())

	_, err = q.AddQuote(f.item, QuoteInput{SupplierID: uuid.New(), UnitPrice: dec("11")}, "buyer")
	assert.Error(t, err, "uninvited supplier")

	_, err = q.AddQuote(uuid.New(), QuoteInput{SupplierID: f.b, UnitPrice: dec("11")}, "buyer")
	assert.True(t, shared.IsKind(err, shared.KindReferential))

	_, err = q.AddQuote(f.item, QuoteInput{SupplierID: f.b, UnitPrice: dec("0")}, "buyer")
	assert.Error(t, err)

	assert.True(t, q.CompletionPercentage().Equal(dec("33.33")))
}

func TestMaterialQuotation_AddQuoteRejectsForeignCurrency(t *testing.T) {
	f := newSentQuotation(t)
	q := f.q

	_, err := q.AddQuote(f.item, QuoteInput{SupplierID: f.a, UnitPrice: dec("10"), Currency: valueobject.USD}, "buyer")
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindConsistency))
	assert.Equal(t, "Quote currency USD does not match quotation currency CNY", err.Error())
	assert.Empty(t, q.Items[0].Quotes)
	assert.Equal(t, QuotationStatusSent, q.Status)

	id, err := q.AddQuote(f.item, QuoteInput{SupplierID: f.a, UnitPrice: dec("70"), Currency: valueobject.CNY}, "buyer")
	require.NoError(t, err)
	require.NoError(t, q.SelectQuote(f.item, id, "buyer"))

	assert.True(t, dec("7000").Equal(q.Selected.TotalValue))

	require.NoError(t, q.Complete(nil, "buyer"))
	plan, err := q.PlanConversion()
	require.NoError(t, err)
	require.Len(t, plan.Groups, 1)
	assert.Equal(t, valueobject.CNY, plan.Groups[0].Currency)
	assert.True(t, dec("7000").Equal(plan.Groups[0].Subtotal))
}

func TestMaterialQuotation_SelectQuoteSingleSelection(t *testing.T) {
	f := newSentQuotation(t)
	q := f.q
	qa, _ := q.AddQuote(f.item, QuoteInput{SupplierID: f.a, UnitPrice: dec("12")}, "buyer")
	qb, _ := q.AddQuote(f.item, QuoteInput{SupplierID: f.b, UnitPrice: dec("10")}, "buyer")

	require.NoError(t, q.SelectQuote(f.item, qa, "buyer"))
	require.NoError(t, q.SelectQuote(f.item, qb, "buyer"))

	selected := 0
	for _, quote := range q.Items[0].Quotes {
		if quote.IsSelected {
			selected++
			assert.Equal(t, qb, quote.ID)
		}
	}
	assert.Equal(t, 1, selected)

	assert.True(t, q.Selected.TotalValue.Equal(dec("1000")))
	// target 1200, selected 1000
	assert.True(t, q.Selected.AverageSavings.Equal(dec("16.67")))
	assert.Equal(t, 1, q.Selected.SupplierCount)

	assert.Error(t, q.SelectQuote(f.item, uuid.New(), "buyer"))
}

func TestSummarizeSelection_IgnoresItemsWithoutTarget(t *testing.T) {
	s1, s2 := uuid.New(), uuid.New()
	items := []QuotationItem{
		{Quantity: dec("10"), TargetPrice: dec("10"), Quotes: []Quote{{SupplierID: s1, TotalPrice: dec("90"), IsSelected: true}}},
		{Quantity: dec("10"), TargetPrice: dec("0"), Quotes: []Quote{{SupplierID: s2, TotalPrice: dec("500"), IsSelected: true}}},
		{Quantity: dec("10"), TargetPrice: dec("10"), Quotes: []Quote{{SupplierID: s2, TotalPrice: dec("70")}}},
	}
	s := SummarizeSelection(items)
	assert.True(t, s.TotalValue.Equal(dec("590")))
	assert.True(t, s.AverageSavings.Equal(dec("10")))
	assert.Equal(t, 2, s.SupplierCount)
}

func TestMaterialQuotation_Complete(t *testing.T) {
	f := newSentQuotation(t)
	q := f.q
	_, err := q.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec("1"), UOM: "pcs"}, "buyer")
	require.Error(t, err)

	quoteID, err := q.AddQuote(f.item, QuoteInput{SupplierID: f.a, UnitPrice: dec("600")}, "buyer")
	require.NoError(t, err)

	w, err := workflow.NewWorkflow("MQ approval", workflow.DocumentTypeMaterialQuotation,
		[]workflow.Level{
			{LevelNumber: 1, ApproverRoles: []string{"buyer_lead"}, ApprovalMode: workflow.ApprovalModeAny, IsMandatory: true},
			{LevelNumber: 2, ApproverRoles: []string{"cfo"}, ApprovalMode: workflow.ApprovalModeAny, IsMandatory: true},
		},
		[]workflow.RoutingRule{
			{ConditionType: workflow.ConditionAmount, Operator: workflow.OpGTE, Value: "0", TargetLevels: []int{1}},
			{ConditionType: workflow.ConditionAmount, Operator: workflow.OpGTE, Value: "50000", TargetLevels: []int{2}},
		})
	require.NoError(t, err)

	err = q.Complete(w, "buyer")
	require.Error(t, err)
	assert.Equal(t, "All items must have a selected quote", err.Error())
	assert.Equal(t, QuotationStatusInReview, q.Status)

	require.NoError(t, q.SelectQuote(f.item, quoteID, "buyer"))
	require.NoError(t, q.Complete(w, "lead"))
	assert.Equal(t, QuotationStatusCompleted, q.Status)
	assert.Equal(t, []int{1, 2}, q.Route.RequiredLevels, "60000 routes to both levels")
	assert.Equal(t, "lead", q.CompletedBy)

	for _, it := range q.Items {
		n := 0
		for _, quote := range it.Quotes {
			if quote.IsSelected {
				n++
			}
		}
		assert.Equal(t, 1, n)
	}

	assert.Error(t, q.Cancel("late", "buyer"))
	err = q.SoftDelete("buyer")
	require.Error(t, err)
	assert.False(t, q.IsRemoved())
}

func TestMaterialQuotation_Cancel(t *testing.T) {
	f := newSentQuotation(t)
	q := f.q
	q.Notes = "urgent"

	assert.Error(t, q.Cancel(" ", "buyer"))
	require.NoError(t, q.Cancel("budget frozen", "buyer"))
	assert.Equal(t, QuotationStatusCancelled, q.Status)
	assert.True(t, strings.HasSuffix(q.Notes, "[Cancelled: budget frozen]"))
	assert.True(t, strings.HasPrefix(q.Notes, "urgent"))

	require.NoError(t, q.SoftDelete("buyer"))
	assert.True(t, q.IsRemoved())
}

func TestMaterialQuotation_PlanConversion(t *testing.T) {
	q, err := NewMaterialQuotation("MQ-20260106-0002", "mixed", "", "buyer")
	require.NoError(t, err)
	a, b := uuid.New(), uuid.New()
	require.NoError(t, q.AddTargetSupplier(a, "buyer"))
	require.NoError(t, q.AddTargetSupplier(b, "buyer"))

	var items []uuid.UUID
	for _, qty := range []string{"10", "20", "30"} {
		id, err := q.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec(qty), UOM: "kg"}, "buyer")
		require.NoError(t, err)
		items = append(items, id)
	}

	_, err = q.PlanConversion()
	require.Error(t, err)
	assert.Equal(t, "Only completed quotations can be converted to purchase orders", err.Error())

	require.NoError(t, q.Send("buyer"))
	pick := map[uuid.UUID]uuid.UUID{items[0]: a, items[1]: b, items[2]: a}
	for _, item := range items {
		for _, s := range []uuid.UUID{a, b} {
			price := "5"
			if s == pick[item] {
				price = "4"
			}
			id, err := q.AddQuote(item, QuoteInput{SupplierID: s, UnitPrice: dec(price), LeadTimeDays: 7}, "buyer")
			require.NoError(t, err)
			if s == pick[item] {
				require.NoError(t, q.SelectQuote(item, id, "buyer"))
			}
		}
	}
	require.NoError(t, q.Complete(nil, "buyer"))
	assert.True(t, q.Route.IsEmpty())

	plan, err := q.PlanConversion()
	require.NoError(t, err)
	require.Len(t, plan.Groups, 2, "one purchase order per supplier")
	assert.Empty(t, plan.SkippedItems)

	assert.Equal(t, a, plan.Groups[0].SupplierID)
	assert.Len(t, plan.Groups[0].Lines, 2)
	assert.True(t, plan.Groups[0].Subtotal.Equal(dec("160")))
	assert.Equal(t, b, plan.Groups[1].SupplierID)
	assert.True(t, plan.Groups[1].Subtotal.Equal(dec("80")))
	assert.Equal(t, 7, plan.Groups[0].MaxLeadTimeDays())

	require.NoError(t, q.RecordConversion([]PurchaseOrderLink{
		{SupplierID: a, PurchaseOrderID: uuid.New(), PONumber: "PO-20260106-001"},
		{SupplierID: b, PurchaseOrderID: uuid.New(), PONumber: "PO-20260106-002"},
	}, "buyer"))
	assert.True(t, q.IsConverted())
	_, err = q.PlanConversion()
	assert.Error(t, err, "converting twice is rejected")
}

func TestMaterialQuotation_Format(t *testing.T) {
	f := newSentQuotation(t)
	_, err := f.q.AddQuote(f.item, QuoteInput{SupplierID: f.b, UnitPrice: dec("10")}, "buyer")
	require.NoError(t, err)

	v := f.q.Format()
	assert.Equal(t, "MQ-20260106-0001", v.QuotationNumber)
	assert.Equal(t, 1, v.ResponseCount)
	assert.True(t, v.CompletionPercentage.Equal(dec("33.33")))
	assert.Equal(t, "buyer", v.CreatedBy)

	v.Items[0].Quotes[0].Rank = 99
	assert.Equal(t, 1, f.q.Items[0].Quotes[0].Rank, "view does not alias the aggregate")
}
