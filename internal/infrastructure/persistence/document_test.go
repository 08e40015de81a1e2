package persistence

import (
	"context"
	"testing"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories_FindByIDMissNamesEntity(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	missing := uuid.New()

	tests := []struct {
		name string
		find func() error
		want string
	}{
		{"supplier", func() error { _, err := NewGormSupplierRepository(db).FindByID(ctx, missing); return err }, "Supplier not found"},
		{"material", func() error { _, err := NewGormMaterialRepository(db).FindByID(ctx, missing); return err }, "Material not found"},
		{"category", func() error { _, err := NewGormCategoryRepository(db).FindByID(ctx, missing); return err }, "Category not found"},
		{"purchase order", func() error { _, err := NewGormPurchaseOrderRepository(db).FindByID(ctx, missing); return err }, "Purchase order not found"},
		{"goods receipt", func() error { _, err := NewGormGoodsReceiptRepository(db).FindByID(ctx, missing); return err }, "Goods receipt not found"},
		{"quotation", func() error { _, err := NewGormQuotationRepository(db).FindByID(ctx, missing); return err }, "Quotation not found"},
		{"workflow", func() error { _, err := NewGormWorkflowRepository(db).FindByID(ctx, missing); return err }, "Approval workflow not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.find()
			require.Error(t, err)
			assert.EqualError(t, err, tt.want)
			assert.ErrorIs(t, err, shared.ErrNotFound)
			assert.True(t, shared.IsKind(err, shared.KindReferential))
		})
	}
}

func TestRepositories_FindByNumberMissNamesEntity(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := NewGormSupplierRepository(db).FindByNumber(ctx, "SUP-20260106-999")
	assert.EqualError(t, err, "Supplier not found")

	_, err = NewGormPurchaseOrderRepository(db).FindByNumber(ctx, "PO-20260106-999")
	assert.EqualError(t, err, "Purchase order not found")

	_, err = NewGormCategoryRepository(db).FindByCode(ctx, "missing")
	assert.EqualError(t, err, "Category not found")
}
