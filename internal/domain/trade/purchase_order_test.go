package trade

import (
	"strings"
	"testing"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newDraftPO(t *testing.T) *PurchaseOrder {
	t.Helper()
	po, err := NewPurchaseOrder("PO-20260106-001", uuid.New(), "", "buyer")
	require.NoError(t, err)
	return po
}

func addLine(t *testing.T, po *PurchaseOrder, qty, price string) uuid.UUID {
	t.Helper()
	id, err := po.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec(qty), UOM: "pcs", UnitPrice: dec(price)}, "buyer")
	require.NoError(t, err)
	return id
}

// sentPO walks a one-line order through approval and dispatch
func sentPO(t *testing.T, qty string) *PurchaseOrder {
	t.Helper()
	po := newDraftPO(t)
	addLine(t, po, qty, "10")
	require.NoError(t, po.SubmitForApproval(nil, "buyer"))
	approved, err := po.Approve(nil, "manager", []string{"purchasing_manager"}, "ok")
	require.NoError(t, err)
	require.True(t, approved)
	require.NoError(t, po.SendToSupplier("sales@supplier.example", "buyer"))
	return po
}

func approvalWorkflow(t *testing.T) *workflow.Workflow {
	t.Helper()
	w, err := workflow.NewWorkflow("PO approval", workflow.DocumentTypePurchaseOrder,
		[]workflow.Level{
			{LevelNumber: 1, ApproverRoles: []string{"purchasing_manager"}, ApprovalMode: workflow.ApprovalModeAny, IsMandatory: true},
			{LevelNumber: 2, ApproverRoles: []string{"finance_manager", "general_manager"}, ApprovalMode: workflow.ApprovalModeAll, IsMandatory: true},
			{LevelNumber: 3, ApproverRoles: []string{"auditor"}, ApprovalMode: workflow.ApprovalModeAny, IsMandatory: false},
		},
		[]workflow.RoutingRule{
			{ConditionType: workflow.ConditionAmount, Operator: workflow.OpLT, Value: "50000", TargetLevels: []int{1}},
			{ConditionType: workflow.ConditionAmount, Operator: workflow.OpGTE, Value: "50000", TargetLevels: []int{1, 2, 3}},
		})
	require.NoError(t, err)
	return w
}

func TestNewPurchaseOrder(t *testing.T) {
	po := newDraftPO(t)
	assert.Equal(t, PurchaseOrderStatusDraft, po.Status)
	assert.Equal(t, ReceivingStatusNotReceived, po.Receiving.Status)
	assert.True(t, po.TotalAmount.IsZero())

	_, err := NewPurchaseOrder("PO-20260106-0001", uuid.New(), "", "buyer")
	assert.Error(t, err)
	_, err = NewPurchaseOrder("PO-20260106-001", uuid.Nil, "", "buyer")
	assert.Error(t, err)
	_, err = NewPurchaseOrder("PO-20260106-001", uuid.New(), "XYZ", "buyer")
	assert.Error(t, err)
}

func TestPurchaseOrder_Totals(t *testing.T) {
	po := newDraftPO(t)
	_, err := po.AddItem(ItemInput{
		MaterialID: uuid.New(), Quantity: dec("10"), UOM: "pcs",
		UnitPrice: dec("100"), TaxRate: dec("13"), Discount: dec("50"),
	}, "buyer")
	require.NoError(t, err)
	_, err = po.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec("2"), UOM: "kg", UnitPrice: dec("25")}, "buyer")
	require.NoError(t, err)
	require.NoError(t, po.SetCharges(dec("20"), dec("15"), "buyer"))

	line := po.Items[0]
	assert.True(t, line.TotalPrice.Equal(dec("1000")))
	assert.True(t, line.TaxAmount.Equal(dec("123.5")))
	assert.True(t, line.LineTotal.Equal(dec("1073.5")))

	assert.True(t, po.Subtotal.Equal(dec("1050")))
	assert.True(t, po.ItemDiscountTotal.Equal(dec("50")))
	assert.True(t, po.TaxAmount.Equal(dec("123.5")))
	// 1050 - 50 - 20 + 123.5 + 15
	assert.True(t, po.TotalAmount.Equal(dec("1118.5")))

	expected := po.Subtotal.Sub(po.ItemDiscountTotal).Sub(po.Discount).Add(po.TaxAmount).Add(po.ShippingCost)
	assert.True(t, po.TotalAmount.Equal(expected))

	_, err = po.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec("1"), UOM: "pcs", UnitPrice: dec("10"), TaxRate: dec("120")}, "buyer")
	assert.Error(t, err)
	_, err = po.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec("1"), UOM: "pcs", UnitPrice: dec("10"), Discount: dec("11")}, "buyer")
	assert.Error(t, err)
}

func TestPurchaseOrder_SubmitRequiresItems(t *testing.T) {
	po := newDraftPO(t)
	assert.True(t, shared.IsKind(po.SubmitForApproval(nil, "buyer"), shared.KindValidation))

	addLine(t, po, "1", "1")
	require.NoError(t, po.SubmitForApproval(nil, "buyer"))
	assert.Equal(t, PurchaseOrderStatusPendingApproval, po.Status)
	assert.Equal(t, ApprovalStatusPending, po.Workflow.ApprovalStatus)
	assert.Error(t, po.SubmitForApproval(nil, "buyer"))

	_, err := po.AddItem(ItemInput{MaterialID: uuid.New(), Quantity: dec("1"), UOM: "pcs"}, "buyer")
	assert.Error(t, err, "lines are frozen after submission")
}

func TestPurchaseOrder_SingleLevelApproval(t *testing.T) {
	po := newDraftPO(t)
	addLine(t, po, "10", "10")
	w := approvalWorkflow(t)
	require.NoError(t, po.SubmitForApproval(w, "buyer"))
	assert.Equal(t, []int{1}, po.Workflow.Route.RequiredLevels)

	approved, err := po.Approve(w, "clerk", []string{"clerk"}, "")
	assert.False(t, approved)
	assert.True(t, shared.IsKind(err, shared.KindGuard), "role not on any pending level")

	approved, err = po.Approve(w, "pm", []string{"purchasing_manager"}, "fine")
	require.NoError(t, err)
	assert.True(t, approved)
	assert.Equal(t, PurchaseOrderStatusApproved, po.Status)
	require.Len(t, po.Workflow.Actions, 1)
	assert.Equal(t, 1, po.Workflow.Actions[0].Level)
	assert.Equal(t, "fine", po.Workflow.Actions[0].Comments)
}

func TestPurchaseOrder_MultiLevelApproval(t *testing.T) {
	po := newDraftPO(t)
	addLine(t, po, "1000", "60")
	w := approvalWorkflow(t)
	require.NoError(t, po.SubmitForApproval(w, "buyer"))
	assert.Equal(t, []int{1, 2, 3}, po.Workflow.Route.RequiredLevels)

	approved, err := po.Approve(w, "pm", []string{"purchasing_manager"}, "")
	require.NoError(t, err)
	assert.False(t, approved)
	assert.Equal(t, PurchaseOrderStatusPendingApproval, po.Status)

	approved, err = po.Approve(w, "fm", []string{"finance_manager"}, "")
	require.NoError(t, err)
	assert.False(t, approved, "level 2 needs every role")

	_, err = po.Approve(w, "fm", []string{"finance_manager"}, "")
	assert.Error(t, err)

	approved, err = po.Approve(w, "gm", []string{"general_manager"}, "")
	require.NoError(t, err)
	assert.True(t, approved, "optional level 3 does not block")
	assert.Equal(t, PurchaseOrderStatusApproved, po.Status)
	assert.Equal(t, ApprovalStatusApproved, po.Workflow.ApprovalStatus)
	assert.Len(t, po.Workflow.Actions, 3)
}

func TestPurchaseOrder_ApproverHoldingEveryRoleOfLevel(t *testing.T) {
	po := newDraftPO(t)
	addLine(t, po, "1000", "60")
	w := approvalWorkflow(t)
	require.NoError(t, po.SubmitForApproval(w, "buyer"))

	_, err := po.Approve(w, "pm", []string{"purchasing_manager"}, "")
	require.NoError(t, err)

	approved, err := po.Approve(w, "cfo", []string{"finance_manager", "general_manager"}, "")
	require.NoError(t, err)
	assert.True(t, approved)
	require.Len(t, po.Workflow.Actions, 2)
	assert.ElementsMatch(t, []string{"finance_manager", "general_manager"}, po.Workflow.Actions[1].Roles)
}

func TestPurchaseOrder_RejectRequiresReason(t *testing.T) {
	po := newDraftPO(t)
	addLine(t, po, "1", "1")
	require.NoError(t, po.SubmitForApproval(nil, "buyer"))

	err := po.Reject("manager", nil, "")
	require.Error(t, err)
	assert.Equal(t, PurchaseOrderStatusPendingApproval, po.Status)

	require.NoError(t, po.Reject("manager", nil, "too expensive"))
	assert.Equal(t, PurchaseOrderStatusRejected, po.Status)
	assert.Equal(t, "too expensive", po.Workflow.RejectionReason)

	require.NoError(t, po.Revise("buyer"))
	assert.Equal(t, PurchaseOrderStatusDraft, po.Status)
	assert.NoError(t, po.SubmitForApproval(nil, "buyer"))
}

func TestPurchaseOrder_DispatchFlow(t *testing.T) {
	po := sentPO(t, "5")
	assert.Equal(t, PurchaseOrderStatusSentToSupplier, po.Status)
	require.NotNil(t, po.SentToSupplier)

	var sent *PurchaseOrderSentEvent
	for _, e := range po.GetDomainEvents() {
		if s, ok := e.(*PurchaseOrderSentEvent); ok {
			sent = s
		}
	}
	require.NotNil(t, sent)
	require.Len(t, sent.Lines, 1)
	assert.True(t, sent.Lines[0].Quantity.Equal(dec("5")))

	assert.Error(t, po.ConfirmFromSupplier("", "buyer"))
	require.NoError(t, po.ConfirmFromSupplier("SO-778", "buyer"))
	require.NoError(t, po.StartProduction("buyer"))
	require.NoError(t, po.MarkShipped(true, "buyer"))
	assert.Equal(t, PurchaseOrderStatusPartiallyShipped, po.Status)
	require.NoError(t, po.MarkShipped(false, "buyer"))
	assert.Equal(t, PurchaseOrderStatusShipped, po.Status)
	assert.Error(t, po.MarkShipped(false, "buyer"))
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	po := newDraftPO(t)
	assert.Error(t, po.Cancel("", "buyer"))
	require.NoError(t, po.Cancel("supplier closed", "buyer"))
	assert.Equal(t, PurchaseOrderStatusCancelled, po.Status)
	assert.True(t, strings.Contains(po.Notes, "[Cancelled: supplier closed]"))

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		po := sentPO(t, "10")
		require.NoError(t, po.ReceiveGoods([]ReceiveLine{{ItemID: po.Items[0].ID, Quantity: dec("10")}}, time.Now(), "wh"))
		require.NoError(t, po.Complete("buyer"))

		err := po.Cancel("too late", "buyer")
		require.Error(t, err)
		assert.Equal(t, "Cannot cancel PO with status: completed", err.Error())
	})
}

func TestPurchaseOrder_ReceiveGoods(t *testing.T) {
	po := sentPO(t, "100")
	item := po.Items[0].ID
	day := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)

	require.NoError(t, po.ReceiveGoods([]ReceiveLine{{ItemID: item, Quantity: dec("60")}}, day, "wh"))
	assert.Equal(t, PurchaseOrderStatusPartiallyReceived, po.Status)
	assert.True(t, po.Items[0].RemainingQuantity.Equal(dec("40")))
	assert.Equal(t, ItemReceiptPartial, po.Items[0].ReceiptStatus)
	assert.Nil(t, po.ActualDeliveryDate)
	assert.True(t, po.ReceiveProgress().Equal(dec("60")))

	require.NoError(t, po.ReceiveGoods([]ReceiveLine{{ItemID: item, Quantity: dec("40")}}, day, "wh"))
	assert.Equal(t, PurchaseOrderStatusReceived, po.Status)
	assert.Equal(t, ReceivingStatusFullyReceived, po.Receiving.Status)
	require.NotNil(t, po.ActualDeliveryDate)
	assert.True(t, day.Equal(*po.ActualDeliveryDate))

	assert.Error(t, po.ReceiveGoods([]ReceiveLine{{ItemID: item, Quantity: dec("1")}}, day, "wh"))
}

func TestPurchaseOrder_SoftDelete(t *testing.T) {
	po := sentPO(t, "1")
	assert.Error(t, po.SoftDelete("buyer"))

	draft := newDraftPO(t)
	require.NoError(t, draft.SoftDelete("buyer"))
	assert.True(t, draft.IsRemoved())
}

func TestPurchaseOrder_Format(t *testing.T) {
	po := sentPO(t, "4")
	v := po.Format()
	assert.Equal(t, "PO-20260106-001", v.PONumber)
	assert.Equal(t, PurchaseOrderStatusSentToSupplier, v.Status)
	assert.Equal(t, 1, v.ApprovalCount)
	assert.False(t, v.IsFullyReceived)
	assert.True(t, v.TotalAmount.Equal(dec("40")))
	assert.Equal(t, "buyer", v.CreatedBy)
}
