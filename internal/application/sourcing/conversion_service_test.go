package sourcing

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type conversionFixture struct {
	svc        *ConversionService
	quotations *MockQuotationRepository
	orders     *MockPurchaseOrderRepository
	suppliers  *MockSupplierRepository
	materials  *MockMaterialRepository
}

func newConversionFixture() conversionFixture {
	f := conversionFixture{
		quotations: new(MockQuotationRepository),
		orders:     new(MockPurchaseOrderRepository),
		suppliers:  new(MockSupplierRepository),
		materials:  new(MockMaterialRepository),
	}
	numbers := sequence.NewGenerator(sequence.NewMemoryCounter(), fixedClock)
	scope := NewNoOpTransactionScope(f.quotations, f.orders)
	f.svc = NewConversionService(f.quotations, f.suppliers, f.materials, scope, numbers, fixedClock, zap.NewNop())
	return f
}

type quotedLine struct {
	material  uuid.UUID
	quantity  int64
	supplier  uuid.UUID
	unitPrice int64
	leadTime  int
}

// completedQuotation builds a completed quotation with one selected quote per line
func completedQuotation(t *testing.T, lines ...quotedLine) *sourcing.MaterialQuotation {
	t.Helper()
	q, err := sourcing.NewMaterialQuotation("MQ-20260106-0001", "Conversion", "", "buyer")
	require.NoError(t, err)
	itemIDs := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		itemIDs[i], err = q.AddItem(sourcing.ItemInput{MaterialID: l.material, Quantity: decimal.NewFromInt(l.quantity), UOM: "PC"}, "buyer")
		require.NoError(t, err)
		require.NoError(t, q.AddTargetSupplier(l.supplier, "buyer"))
	}
	require.NoError(t, q.Send("buyer"))
	for i, l := range lines {
		quoteID, err := q.AddQuote(itemIDs[i], sourcing.QuoteInput{
			SupplierID:   l.supplier,
			UnitPrice:    decimal.NewFromInt(l.unitPrice),
			LeadTimeDays: l.leadTime,
		}, "buyer")
		require.NoError(t, err)
		require.NoError(t, q.SelectQuote(itemIDs[i], quoteID, "buyer"))
	}
	require.NoError(t, q.Complete(nil, "buyer"))
	q.ClearDomainEvents()
	return q
}

func TestConversionService_Convert_OneOrderPerSupplier(t *testing.T) {
	f := newConversionFixture()
	acme := activeSupplier(t, "SUP-20260106-001", "Acme")
	globex := activeSupplier(t, "SUP-20260106-002", "Globex")
	bolt := activeMaterial(t, "MAT-20260106-001")
	nut := activeMaterial(t, "MAT-20260106-002")
	washer := activeMaterial(t, "MAT-20260106-003")

	q := completedQuotation(t,
		quotedLine{material: bolt.ID, quantity: 100, supplier: acme.ID, unitPrice: 2, leadTime: 7},
		quotedLine{material: nut.ID, quantity: 50, supplier: globex.ID, unitPrice: 3, leadTime: 5},
		quotedLine{material: washer.ID, quantity: 10, supplier: acme.ID, unitPrice: 1, leadTime: 14},
	)
	f.quotations.On("FindByID", mock.Anything, q.ID).Return(q, nil)
	f.suppliers.On("FindByIDs", mock.Anything, []uuid.UUID{acme.ID, globex.ID}).Return([]partner.Supplier{acme, globex}, nil)
	f.materials.On("FindByIDs", mock.Anything, []uuid.UUID{bolt.ID, washer.ID, nut.ID}).Return([]catalog.Material{bolt, nut, washer}, nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*trade.PurchaseOrder")).Return(nil).Twice()
	f.quotations.On("Save", mock.Anything, q).Return(nil).Once()

	result, err := f.svc.Convert(context.Background(), q.ID, "buyer")
	require.NoError(t, err)
	require.Len(t, result.PurchaseOrders, 2)

	acmePO := result.PurchaseOrders[0]
	assert.Equal(t, "PO-20260106-001", acmePO.PONumber)
	assert.Equal(t, acme.ID, acmePO.SupplierID)
	assert.Equal(t, trade.PurchaseOrderStatusDraft, acmePO.Status)
	assert.Len(t, acmePO.Items, 2)
	assert.True(t, decimal.NewFromInt(210).Equal(acmePO.Subtotal))
	assert.Contains(t, acmePO.Notes, "MQ-20260106-0001")
	require.NotNil(t, acmePO.ExpectedDeliveryDate)
	assert.Equal(t, fixedClock().AddDate(0, 0, 14), *acmePO.ExpectedDeliveryDate)

	globexPO := result.PurchaseOrders[1]
	assert.Equal(t, "PO-20260106-002", globexPO.PONumber)
	assert.True(t, decimal.NewFromInt(150).Equal(globexPO.Subtotal))

	require.Len(t, q.PurchaseOrders, 2)
	assert.Equal(t, acme.ID, q.PurchaseOrders[0].SupplierID)
	assert.True(t, q.IsConverted())
	f.orders.AssertExpectations(t)
	f.quotations.AssertExpectations(t)

	_, err = f.svc.Convert(context.Background(), q.ID, "buyer")
	require.Error(t, err)
	assert.Equal(t, "Quotation has already been converted to purchase orders", err.Error())
}

func TestConversionService_Convert_NotCompleted(t *testing.T) {
	f := newConversionFixture()
	q, err := sourcing.NewMaterialQuotation("MQ-20260106-0001", "Draft", "", "buyer")
	require.NoError(t, err)
	f.quotations.On("FindByID", mock.Anything, q.ID).Return(q, nil)

	_, err = f.svc.Convert(context.Background(), q.ID, "buyer")
	require.Error(t, err)
	assert.Equal(t, "Only completed quotations can be converted to purchase orders", err.Error())
	assert.True(t, shared.IsKind(err, shared.KindGuard))
}

func TestConversionService_Convert_BlacklistedSupplier(t *testing.T) {
	f := newConversionFixture()
	acme := activeSupplier(t, "SUP-20260106-001", "Acme")
	require.NoError(t, acme.AddToBlacklist("compliance", "fraud"))
	bolt := activeMaterial(t, "MAT-20260106-001")
	q := completedQuotation(t, quotedLine{material: bolt.ID, quantity: 1, supplier: acme.ID, unitPrice: 1})
	f.quotations.On("FindByID", mock.Anything, q.ID).Return(q, nil)
	f.suppliers.On("FindByIDs", mock.Anything, mock.Anything).Return([]partner.Supplier{acme}, nil)
	f.materials.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Material{bolt}, nil)

	_, err := f.svc.Convert(context.Background(), q.ID, "buyer")
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindConsistency))
	assert.False(t, q.IsConverted())
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestConversionService_Convert_SaveFailure(t *testing.T) {
	f := newConversionFixture()
	acme := activeSupplier(t, "SUP-20260106-001", "Acme")
	bolt := activeMaterial(t, "MAT-20260106-001")
	q := completedQuotation(t, quotedLine{material: bolt.ID, quantity: 1, supplier: acme.ID, unitPrice: 1})
	f.quotations.On("FindByID", mock.Anything, q.ID).Return(q, nil)
	f.suppliers.On("FindByIDs", mock.Anything, mock.Anything).Return([]partner.Supplier{acme}, nil)
	f.materials.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Material{bolt}, nil)
	f.orders.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := f.svc.Convert(context.Background(), q.ID, "buyer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	f.quotations.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
