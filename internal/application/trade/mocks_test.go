package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type MockGoodsReceiptRepository struct {
	mock.Mock
}

func (m *MockGoodsReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.GoodsReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindByNumber(ctx context.Context, number string) (*trade.GoodsReceipt, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.GoodsReceipt, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.GoodsReceipt), args.Get(1).(int64), args.Error(2)
}

func (m *MockGoodsReceiptRepository) FindCompletedByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]trade.GoodsReceipt, error) {
	args := m.Called(ctx, purchaseOrderID)
	return args.Get(0).([]trade.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) Save(ctx context.Context, receipt *trade.GoodsReceipt) error {
	return m.Called(ctx, receipt).Error(0)
}

type MockRoleResolver struct {
	mock.Mock
}

func (m *MockRoleResolver) RolesOf(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// sentOrder builds a purchase order already sent to the supplier
func sentOrder(t *testing.T, supplierID uuid.UUID, lines ...trade.ItemInput) *trade.PurchaseOrder {
	t.Helper()
	po, err := trade.NewPurchaseOrder("PO-20260106-001", supplierID, "", "buyer")
	require.NoError(t, err)
	for _, l := range lines {
		_, err := po.AddItem(l, "buyer")
		require.NoError(t, err)
	}
	require.NoError(t, po.SubmitForApproval(nil, "buyer"))
	_, err = po.Approve(nil, "manager", []string{"purchasing_manager"}, "")
	require.NoError(t, err)
	require.NoError(t, po.SendToSupplier("sales@supplier.example", "buyer"))
	po.ClearDomainEvents()
	return po
}

func line(materialID uuid.UUID, qty, price int64) trade.ItemInput {
	return trade.ItemInput{
		MaterialID: materialID,
		Quantity:   decimal.NewFromInt(qty),
		UOM:        "PC",
		UnitPrice:  decimal.NewFromInt(price),
	}
}

// memoryInventoryScope keeps committed materials in memory. Each Execute works on
// copies and only commits them when fn succeeds, like a database transaction.
type memoryInventoryScope struct {
	committed map[uuid.UUID]catalog.Material
	failSaves map[uuid.UUID]int
	attempts  int
}

func newMemoryInventoryScope(materials ...catalog.Material) *memoryInventoryScope {
	s := &memoryInventoryScope{
		committed: make(map[uuid.UUID]catalog.Material),
		failSaves: make(map[uuid.UUID]int),
	}
	for _, m := range materials {
		s.committed[m.ID] = m
	}
	return s
}

// failNextSaves makes the next n saves of a material fail
func (s *memoryInventoryScope) failNextSaves(id uuid.UUID, n int) {
	s.failSaves[id] = n
}

func (s *memoryInventoryScope) onHand(id uuid.UUID) decimal.Decimal {
	return s.committed[id].Inventory.OnHand
}

func (s *memoryInventoryScope) Execute(_ context.Context, fn func(repos InventoryRepositories) error) error {
	s.attempts++
	staged := make(map[uuid.UUID]catalog.Material, len(s.committed))
	for id, m := range s.committed {
		staged[id] = m
	}
	if err := fn(&stagedMaterials{MockMaterialRepository: new(MockMaterialRepository), scope: s, staged: staged}); err != nil {
		return err
	}
	s.committed = staged
	return nil
}

type stagedMaterials struct {
	*MockMaterialRepository
	scope  *memoryInventoryScope
	staged map[uuid.UUID]catalog.Material
}

func (r *stagedMaterials) MaterialRepo() catalog.MaterialRepository {
	return r
}

func (r *stagedMaterials) FindByID(_ context.Context, id uuid.UUID) (*catalog.Material, error) {
	m, ok := r.staged[id]
	if !ok {
		return nil, shared.NewNotFoundError("Material")
	}
	return &m, nil
}

func (r *stagedMaterials) Save(_ context.Context, m *catalog.Material) error {
	if r.scope.failSaves[m.ID] > 0 {
		r.scope.failSaves[m.ID]--
		return errors.New("connection reset")
	}
	r.staged[m.ID] = *m
	return nil
}

var _ InventoryScope = (*memoryInventoryScope)(nil)
