package persistence

import (
	"context"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGoodsReceiptRepository implements GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	store
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{store: store{db: db}}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormGoodsReceiptRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outbox = saver
}

// WithTx returns a repository bound to the given transaction
func (r *GormGoodsReceiptRepository) WithTx(tx *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{store: r.withTx(tx)}
}

// FindByID finds a goods receipt by its ID
func (r *GormGoodsReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.GoodsReceipt, error) {
	var model models.GoodsReceiptModel
	if err := first(ctx, r.db, &model, "Goods receipt", "Items", "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a goods receipt by its receipt number
func (r *GormGoodsReceiptRepository) FindByNumber(ctx context.Context, number string) (*trade.GoodsReceipt, error) {
	var model models.GoodsReceiptModel
	if err := first(ctx, r.db, &model, "Goods receipt", "Items", "receipt_number = ?", number); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds goods receipts matching the filter.
// Supported filters: status, purchase_order_id.
func (r *GormGoodsReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.GoodsReceipt, int64, error) {
	rows, total, err := findPage[models.GoodsReceiptModel](ctx, r.db, filter, GoodsReceiptSortFields, "Items", func(db *gorm.DB) *gorm.DB {
		db = search(db, filter.Search, "receipt_number", "po_number", "delivery_note")
		if status, ok := filterString(filter, "status"); ok {
			db = db.Where("status = ?", status)
		}
		if orderID, ok := filterUUID(filter, "purchase_order_id"); ok {
			db = db.Where("purchase_order_id = ?", orderID)
		}
		return db
	})
	if err != nil {
		return nil, 0, err
	}
	return toGoodsReceipts(rows), total, nil
}

// FindCompletedByPurchaseOrder finds every completed receipt of a purchase order
// in receipt order
func (r *GormGoodsReceiptRepository) FindCompletedByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]trade.GoodsReceipt, error) {
	var rows []models.GoodsReceiptModel
	if err := r.db.WithContext(ctx).
		Scopes(notRemoved).
		Preload("Items", orderedLines).
		Where("purchase_order_id = ? AND status = ?", purchaseOrderID, trade.GoodsReceiptStatusCompleted).
		Order("receipt_date ASC").
		Order("receipt_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toGoodsReceipts(rows), nil
}

// Save recalculates totals, then writes the receipt, its lines and its pending
// events in one transaction
func (r *GormGoodsReceiptRepository) Save(ctx context.Context, receipt *trade.GoodsReceipt) error {
	receipt.RecalculateTotals()
	return r.save(ctx, aggregateWrite{
		entity: "goods receipt",
		root:   &receipt.BaseAggregateRoot,
		table:  &models.GoodsReceiptModel{},
		build:  func() any { return models.GoodsReceiptModelFromDomain(receipt) },
		children: func(tx *gorm.DB) error {
			ids := make([]uuid.UUID, len(receipt.Items))
			for i := range receipt.Items {
				ids[i] = receipt.Items[i].ID
			}
			stale := tx.Where("receipt_id = ?", receipt.ID)
			if len(ids) > 0 {
				stale = stale.Where("id NOT IN ?", ids)
			}
			if err := stale.Delete(&models.GoodsReceiptItemModel{}).Error; err != nil {
				return err
			}
			for i := range receipt.Items {
				if err := tx.Save(models.GoodsReceiptItemModelFromDomain(receipt.ID, i+1, &receipt.Items[i])).Error; err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func toGoodsReceipts(rows []models.GoodsReceiptModel) []trade.GoodsReceipt {
	receipts := make([]trade.GoodsReceipt, len(rows))
	for i := range rows {
		receipts[i] = *rows[i].ToDomain()
	}
	return receipts
}

var _ trade.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)
