package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, number string, supplierID uuid.UUID, lines int) *trade.PurchaseOrder {
	t.Helper()
	po, err := trade.NewPurchaseOrder(number, supplierID, "", "buyer")
	require.NoError(t, err)
	for i := 0; i < lines; i++ {
		_, err := po.AddItem(trade.ItemInput{
			MaterialID:  uuid.New(),
			Description: "line",
			Quantity:    decimal.NewFromInt(10),
			UOM:         "pcs",
			UnitPrice:   decimal.NewFromInt(int64(5 * (i + 1))),
			TaxRate:     decimal.NewFromInt(13),
		}, "buyer")
		require.NoError(t, err)
	}
	return po
}

func TestGormPurchaseOrderRepository_ItemsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseOrderRepository(newTestDB(t))
	outbox := &recordingOutbox{}
	repo.SetOutboxEventSaver(outbox)

	po := newOrder(t, "PO-20260106-001", uuid.New(), 3)
	require.NoError(t, repo.Save(ctx, po))
	assert.Equal(t, []string{trade.EventTypePurchaseOrderCreated}, outbox.types())

	found, err := repo.FindByNumber(ctx, "PO-20260106-001")
	require.NoError(t, err)
	require.Len(t, found.Items, 3)
	for i := range po.Items {
		assert.Equal(t, po.Items[i].ID, found.Items[i].ID, "line %d keeps its position", i)
		assert.True(t, po.Items[i].LineTotal.Equal(found.Items[i].LineTotal))
		assert.Equal(t, trade.ItemReceiptPending, found.Items[i].ReceiptStatus)
	}
	// 10*5 + 10*10 + 10*15 = 300, plus 13% tax
	assert.True(t, decimal.NewFromInt(300).Equal(found.Subtotal))
	assert.True(t, decimal.NewFromInt(39).Equal(found.TaxAmount))
	assert.True(t, decimal.NewFromInt(339).Equal(found.TotalAmount))
	assert.Equal(t, trade.ReceivingStatusNotReceived, found.Receiving.Status)
}

func TestGormPurchaseOrderRepository_RemovedLinesAreDeleted(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)

	po := newOrder(t, "PO-20260106-001", uuid.New(), 3)
	require.NoError(t, repo.Save(ctx, po))

	removed := po.Items[1].ID
	require.NoError(t, po.RemoveItem(removed, "buyer"))
	require.NoError(t, repo.Save(ctx, po))

	found, err := repo.FindByID(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 2)
	assert.NotEqual(t, removed, found.Items[0].ID)
	assert.NotEqual(t, removed, found.Items[1].ID)
	assert.True(t, decimal.NewFromInt(200).Equal(found.Subtotal))

	var stored int64
	require.NoError(t, db.Model(&models.PurchaseOrderItemModel{}).Where("order_id = ?", po.ID).Count(&stored).Error)
	assert.Equal(t, int64(2), stored)
}

func TestGormPurchaseOrderRepository_StaleSaveKeepsLines(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseOrderRepository(newTestDB(t))

	po := newOrder(t, "PO-20260106-001", uuid.New(), 2)
	require.NoError(t, repo.Save(ctx, po))

	stale, err := repo.FindByID(ctx, po.ID)
	require.NoError(t, err)
	require.NoError(t, po.RemoveItem(po.Items[0].ID, "buyer"))
	require.NoError(t, repo.Save(ctx, po))

	require.NoError(t, stale.RemoveItem(stale.Items[1].ID, "other"))
	err = repo.Save(ctx, stale)
	assert.Error(t, err)

	found, err := repo.FindByID(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, po.Items[0].ID, found.Items[0].ID)
}

func TestGormPurchaseOrderRepository_FindBySupplier(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseOrderRepository(newTestDB(t))

	supplierID := uuid.New()
	mine := newOrder(t, "PO-20260106-001", supplierID, 1)
	other := newOrder(t, "PO-20260106-002", uuid.New(), 2)
	require.NoError(t, repo.Save(ctx, mine))
	require.NoError(t, repo.Save(ctx, other))

	rows, err := repo.FindBySupplier(ctx, supplierID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)
	assert.Len(t, rows[0].Items, 1)

	rows, total, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]any{"supplier_id": other.SupplierID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows[0].Items, 2)

	rows, err = repo.FindByStatus(ctx, trade.PurchaseOrderStatusDraft, shared.Filter{OrderBy: "total_amount", OrderDir: "desc"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, other.ID, rows[0].ID)
}

func TestGormGoodsReceiptRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	orders := NewGormPurchaseOrderRepository(db)
	receipts := NewGormGoodsReceiptRepository(db)
	outbox := &recordingOutbox{}
	receipts.SetOutboxEventSaver(outbox)

	po := newOrder(t, "PO-20260106-001", uuid.New(), 2)
	po.Status = trade.PurchaseOrderStatusSentToSupplier
	require.NoError(t, orders.Save(ctx, po))

	day := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
	receive := func(number string, at time.Time, complete bool) *trade.GoodsReceipt {
		gr, err := trade.NewGoodsReceipt(number, po, at, false, "clerk")
		require.NoError(t, err)
		_, err = gr.AddItem(po.Items[0], decimal.NewFromInt(4), "A-01", "clerk")
		require.NoError(t, err)
		_, err = gr.AddItem(po.Items[1], decimal.NewFromInt(2), "A-02", "clerk")
		require.NoError(t, err)
		if complete {
			require.NoError(t, gr.Complete("clerk"))
		}
		require.NoError(t, receipts.Save(ctx, gr))
		return gr
	}
	late := receive("GR-20260106-0001", day.Add(2*time.Hour), true)
	early := receive("GR-20260106-0002", day, true)
	receive("GR-20260106-0003", day, false)

	t.Run("items round trip", func(t *testing.T) {
		found, err := receipts.FindByID(ctx, late.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		assert.Equal(t, po.Items[0].ID, found.Items[0].POItemID)
		assert.Equal(t, "A-01", found.Items[0].StorageLocation)
		assert.True(t, decimal.NewFromInt(4).Equal(found.Items[0].AcceptedQuantity))
		assert.Equal(t, "PO-20260106-001", found.PONumber)
		assert.Equal(t, trade.GoodsReceiptStatusCompleted, found.Status)
	})

	t.Run("completed receipts in receipt order", func(t *testing.T) {
		rows, err := receipts.FindCompletedByPurchaseOrder(ctx, po.ID)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, early.ID, rows[0].ID)
		assert.Equal(t, late.ID, rows[1].ID)
	})

	t.Run("filter by purchase order", func(t *testing.T) {
		_, total, err := receipts.FindAll(ctx, shared.Filter{Filters: map[string]any{"purchase_order_id": po.ID.String()}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		_, total, err = receipts.FindAll(ctx, shared.Filter{Filters: map[string]any{"status": "draft"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	assert.Contains(t, outbox.types(), trade.EventTypeGoodsReceiptCompleted)
}
