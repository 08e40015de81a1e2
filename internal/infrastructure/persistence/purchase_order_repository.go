package persistence

import (
	"context"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	store
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{store: store{db: db}}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormPurchaseOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outbox = saver
}

// WithTx returns a repository bound to the given transaction
func (r *GormPurchaseOrderRepository) WithTx(tx *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{store: r.withTx(tx)}
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := first(ctx, r.db, &model, "Purchase order", "Items", "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a purchase order by its PO number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := first(ctx, r.db, &model, "Purchase order", "Items", "po_number = ?", number); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds purchase orders matching the filter.
// Supported filters: status, supplier_id.
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	rows, total, err := findPage[models.PurchaseOrderModel](ctx, r.db, filter, PurchaseOrderSortFields, "Items", func(db *gorm.DB) *gorm.DB {
		return r.applyFilter(db, filter)
	})
	if err != nil {
		return nil, 0, err
	}
	return toPurchaseOrders(rows), total, nil
}

// FindBySupplier finds purchase orders placed with a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	rows, _, err := findPage[models.PurchaseOrderModel](ctx, r.db, filter, PurchaseOrderSortFields, "Items", func(db *gorm.DB) *gorm.DB {
		return r.applyFilter(db.Where("supplier_id = ?", supplierID), filter)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrders(rows), nil
}

// FindByStatus finds purchase orders by status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status trade.PurchaseOrderStatus, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	rows, _, err := findPage[models.PurchaseOrderModel](ctx, r.db, filter, PurchaseOrderSortFields, "Items", func(db *gorm.DB) *gorm.DB {
		return r.applyFilter(db.Where("status = ?", status), filter)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrders(rows), nil
}

// Save recalculates totals, then writes the order, its lines and its pending
// events in one transaction. Lines no longer on the order are deleted.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	order.RecalculateTotals()
	return r.save(ctx, aggregateWrite{
		entity: "purchase order",
		root:   &order.BaseAggregateRoot,
		table:  &models.PurchaseOrderModel{},
		build:  func() any { return models.PurchaseOrderModelFromDomain(order) },
		children: func(tx *gorm.DB) error {
			ids := make([]uuid.UUID, len(order.Items))
			for i := range order.Items {
				ids[i] = order.Items[i].ID
			}
			stale := tx.Where("order_id = ?", order.ID)
			if len(ids) > 0 {
				stale = stale.Where("id NOT IN ?", ids)
			}
			if err := stale.Delete(&models.PurchaseOrderItemModel{}).Error; err != nil {
				return err
			}
			for i := range order.Items {
				if err := tx.Save(models.PurchaseOrderItemModelFromDomain(order.ID, i+1, &order.Items[i])).Error; err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func (r *GormPurchaseOrderRepository) applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	db = search(db, filter.Search, "po_number", "notes")
	if status, ok := filterString(filter, "status"); ok {
		db = db.Where("status = ?", status)
	}
	if supplierID, ok := filterUUID(filter, "supplier_id"); ok {
		db = db.Where("supplier_id = ?", supplierID)
	}
	return db
}

func toPurchaseOrders(rows []models.PurchaseOrderModel) []trade.PurchaseOrder {
	orders := make([]trade.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
