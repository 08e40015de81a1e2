package sourcing

import (
	"context"
	"testing"
	"time"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*sourcing.MaterialQuotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sourcing.MaterialQuotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByNumber(ctx context.Context, number string) (*sourcing.MaterialQuotation, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sourcing.MaterialQuotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sourcing.MaterialQuotation, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sourcing.MaterialQuotation), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuotationRepository) FindByStatus(ctx context.Context, status sourcing.QuotationStatus, filter shared.Filter) ([]sourcing.MaterialQuotation, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]sourcing.MaterialQuotation), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *sourcing.MaterialQuotation) error {
	return m.Called(ctx, q).Error(0)
}

type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindByNumber(ctx context.Context, number string) (*catalog.Material, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Material, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Material, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Material), args.Get(1).(int64), args.Error(2)
}

func (m *MockMaterialRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	return m.Called(ctx, material).Error(0)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByNumber(ctx context.Context, number string) (*partner.Supplier, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Supplier, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) FindByStatus(ctx context.Context, status partner.SupplierStatus, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) FindActiveByDocumentType(ctx context.Context, docType workflow.DocumentType) (*workflow.Workflow, error) {
	args := m.Called(ctx, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) Save(ctx context.Context, w *workflow.Workflow) error {
	return m.Called(ctx, w).Error(0)
}

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByStatus(ctx context.Context, status trade.PurchaseOrderStatus, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return m.Called(ctx, order).Error(0)
}

func fixedClock() time.Time {
	return time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
}

func activeSupplier(t *testing.T, number, name string) partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(number, valueobject.NewBilingualText("", name), partner.SupplierTypeManufacturer, "buyer")
	require.NoError(t, err)
	require.NoError(t, s.SubmitForApproval("buyer"))
	require.NoError(t, s.Approve("manager"))
	s.ClearDomainEvents()
	return *s
}

func activeMaterial(t *testing.T, number string) catalog.Material {
	t.Helper()
	m, err := catalog.NewMaterial(number, valueobject.NewBilingualText("", "Material "+number), catalog.MaterialTypeComponent, "PC", "buyer")
	require.NoError(t, err)
	require.NoError(t, m.Activate("buyer"))
	m.ClearDomainEvents()
	return *m
}
