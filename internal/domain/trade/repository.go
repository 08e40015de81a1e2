package trade

import (
	"context"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository defines the interface for purchase order persistence.
// Save recalculates totals and persists pending events in the same transaction.
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByNumber finds a purchase order by its PO number
	FindByNumber(ctx context.Context, number string) (*PurchaseOrder, error)

	// FindAll finds purchase orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, int64, error)

	// FindBySupplier finds purchase orders placed with a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order with a version check
	Save(ctx context.Context, order *PurchaseOrder) error
}

// GoodsReceiptRepository defines the interface for goods receipt persistence
type GoodsReceiptRepository interface {
	// FindByID finds a goods receipt by ID
	FindByID(ctx context.Context, id uuid.UUID) (*GoodsReceipt, error)

	// FindByNumber finds a goods receipt by its receipt number
	FindByNumber(ctx context.Context, number string) (*GoodsReceipt, error)

	// FindAll finds goods receipts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]GoodsReceipt, int64, error)

	// FindCompletedByPurchaseOrder finds every completed receipt of a purchase order
	FindCompletedByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]GoodsReceipt, error)

	// Save creates or updates a goods receipt with a version check
	Save(ctx context.Context, receipt *GoodsReceipt) error
}
