package catalog

import (
	"context"
	"testing"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type materialFixture struct {
	svc        *MaterialService
	materials  *MockMaterialRepository
	categories *MockCategoryRepository
	suppliers  *MockSupplierRepository
}

func newMaterialFixture() materialFixture {
	f := materialFixture{
		materials:  new(MockMaterialRepository),
		categories: new(MockCategoryRepository),
		suppliers:  new(MockSupplierRepository),
	}
	numbers := sequence.NewGenerator(sequence.NewMemoryCounter(), fixedClock)
	f.svc = NewMaterialService(f.materials, f.categories, f.suppliers, numbers, zap.NewNop())
	return f
}

func newMaterial(t *testing.T) *catalog.Material {
	t.Helper()
	m, err := catalog.NewMaterial("MAT-20260106-001", valueobject.NewBilingualText("钢板", "Steel plate"), catalog.MaterialTypeRawMaterial, "kg", "buyer")
	require.NoError(t, err)
	m.ClearDomainEvents()
	return m
}

func TestMaterialService_Create(t *testing.T) {
	f := newMaterialFixture()
	category, err := catalog.NewCategory("RAW", valueobject.NewBilingualText("", "Raw"), nil, "admin")
	require.NoError(t, err)
	f.categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	f.materials.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Material")).Return(nil)

	view, err := f.svc.Create(context.Background(), CreateMaterialRequest{
		NameEN:       "Steel plate",
		Type:         "raw_material",
		CategoryID:   &category.ID,
		BaseUOM:      "kg",
		StandardCost: decimal.NewFromFloat(12.5),
	}, "buyer")
	require.NoError(t, err)
	assert.Equal(t, catalog.MaterialStatusDraft, view.Status)
	assert.Equal(t, "KG", view.BaseUOM)
	assert.Equal(t, valueobject.DefaultCurrency, view.Currency)
	assert.True(t, decimal.NewFromFloat(12.5).Equal(view.StandardCost))
	require.NoError(t, sequence.Validate(sequence.DocumentTypeMaterial, view.MaterialNumber))
	f.materials.AssertExpectations(t)
}

func TestMaterialService_Create_UnknownCategory(t *testing.T) {
	f := newMaterialFixture()
	categoryID := uuid.New()
	f.categories.On("FindByID", mock.Anything, categoryID).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Create(context.Background(), CreateMaterialRequest{
		NameEN:     "Steel plate",
		Type:       "raw_material",
		CategoryID: &categoryID,
		BaseUOM:    "kg",
	}, "buyer")
	require.Error(t, err)
	assert.Equal(t, "Category not found", err.Error())
	f.materials.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMaterialService_Create_Validation(t *testing.T) {
	f := newMaterialFixture()
	_, err := f.svc.Create(context.Background(), CreateMaterialRequest{
		NameEN:       "Steel plate",
		Type:         "scrap",
		StandardCost: decimal.NewFromInt(-1),
	}, "buyer")
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindValidation))
	assert.Contains(t, err.Error(), "base_uom")
	assert.Contains(t, err.Error(), "type")
}

func TestMaterialService_AlternativeUOM(t *testing.T) {
	f := newMaterialFixture()
	m := newMaterial(t)
	f.materials.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	f.materials.On("Save", mock.Anything, m).Return(nil)

	view, err := f.svc.AddAlternativeUOM(context.Background(), m.ID, AlternativeUOMRequest{UOM: "ton", ConversionFactor: decimal.NewFromInt(1000)}, "buyer")
	require.NoError(t, err)
	require.Len(t, view.AlternativeUOMs, 1)
	assert.Equal(t, "TON", view.AlternativeUOMs[0].Code)

	base, err := f.svc.ConvertToBase(context.Background(), m.ID, decimal.NewFromFloat(2.5), "TON")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2500).Equal(base))

	_, err = f.svc.AddAlternativeUOM(context.Background(), m.ID, AlternativeUOMRequest{UOM: "ton", ConversionFactor: decimal.NewFromInt(1000)}, "buyer")
	assert.True(t, shared.IsKind(err, shared.KindConsistency))

	view, err = f.svc.RemoveAlternativeUOM(context.Background(), m.ID, "ton", "buyer")
	require.NoError(t, err)
	assert.Empty(t, view.AlternativeUOMs)
}

func TestMaterialService_AddPreferredSupplier(t *testing.T) {
	supplier, err := partner.NewSupplier("SUP-20260106-001", valueobject.NewBilingualText("", "Acme"), partner.SupplierTypeManufacturer, "buyer")
	require.NoError(t, err)

	t.Run("primary supplier", func(t *testing.T) {
		f := newMaterialFixture()
		m := newMaterial(t)
		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.materials.On("FindByID", mock.Anything, m.ID).Return(m, nil)
		f.materials.On("Save", mock.Anything, m).Return(nil)

		view, err := f.svc.AddPreferredSupplier(context.Background(), m.ID, PreferredSupplierRequest{
			SupplierID:   supplier.ID,
			IsPrimary:    true,
			LeadTimeDays: 10,
			LastPrice:    decimal.NewFromInt(8),
		}, "buyer")
		require.NoError(t, err)
		require.Len(t, view.PreferredSuppliers, 1)
		require.NotNil(t, view.PrimarySupplierID)
		assert.Equal(t, supplier.ID, *view.PrimarySupplierID)
	})

	t.Run("blacklisted supplier is refused", func(t *testing.T) {
		f := newMaterialFixture()
		blacklisted := *supplier
		blacklisted.Status = partner.SupplierStatusBlacklisted
		f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(&blacklisted, nil)

		_, err := f.svc.AddPreferredSupplier(context.Background(), uuid.New(), PreferredSupplierRequest{SupplierID: supplier.ID}, "buyer")
		require.Error(t, err)
		assert.Equal(t, "Cannot add a blacklisted supplier as preferred supplier", err.Error())
		f.materials.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown supplier", func(t *testing.T) {
		f := newMaterialFixture()
		id := uuid.New()
		f.suppliers.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("Supplier"))

		_, err := f.svc.AddPreferredSupplier(context.Background(), uuid.New(), PreferredSupplierRequest{SupplierID: id}, "buyer")
		assert.True(t, shared.IsKind(err, shared.KindReferential))
	})
}

func TestMaterialService_Lifecycle(t *testing.T) {
	f := newMaterialFixture()
	m := newMaterial(t)
	f.materials.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	f.materials.On("Save", mock.Anything, m).Return(nil)
	ctx := context.Background()

	view, err := f.svc.Activate(ctx, m.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, catalog.MaterialStatusActive, view.Status)
	assert.True(t, view.IsActive)

	view, err = f.svc.Deactivate(ctx, m.ID, "buyer")
	require.NoError(t, err)
	assert.False(t, view.IsActive)
	assert.Equal(t, catalog.MaterialStatusActive, view.Status)

	view, err = f.svc.MarkObsolete(ctx, m.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, catalog.MaterialStatusObsolete, view.Status)

	_, err = f.svc.Activate(ctx, m.ID, "buyer")
	assert.True(t, shared.IsKind(err, shared.KindGuard))

	view, err = f.svc.Discontinue(ctx, m.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, catalog.MaterialStatusDiscontinued, view.Status)
}

func TestMaterialService_ReserveRelease(t *testing.T) {
	f := newMaterialFixture()
	m := newMaterial(t)
	require.NoError(t, m.ReceiveInventory(decimal.NewFromInt(100), fixedClock(), "wh"))
	f.materials.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	f.materials.On("Save", mock.Anything, m).Return(nil)
	ctx := context.Background()

	view, err := f.svc.Reserve(ctx, m.ID, StockRequest{Quantity: decimal.NewFromInt(30)}, "planner")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(70).Equal(view.Inventory.Available))

	_, err = f.svc.Reserve(ctx, m.ID, StockRequest{Quantity: decimal.NewFromInt(71)}, "planner")
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindConsistency))

	view, err = f.svc.Release(ctx, m.ID, StockRequest{Quantity: decimal.NewFromInt(30)}, "planner")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(view.Inventory.Available))

	_, err = f.svc.Reserve(ctx, m.ID, StockRequest{Quantity: decimal.Zero}, "planner")
	assert.True(t, shared.IsKind(err, shared.KindValidation))
	f.materials.AssertNumberOfCalls(t, "Save", 2)
}

func TestMaterialService_List(t *testing.T) {
	f := newMaterialFixture()
	m := newMaterial(t)
	f.materials.On("FindAll", mock.Anything, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["status"] == "draft" && filter.PageSize == 10
	})).Return([]catalog.Material{*m}, int64(11), nil)

	page, err := f.svc.List(context.Background(), MaterialListFilter{Status: "draft", PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestMaterialService_Delete(t *testing.T) {
	f := newMaterialFixture()
	m := newMaterial(t)
	f.materials.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	f.materials.On("Save", mock.Anything, m).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), m.ID, "buyer"))
	assert.True(t, m.IsRemoved())
	assert.False(t, m.IsActive)
}
