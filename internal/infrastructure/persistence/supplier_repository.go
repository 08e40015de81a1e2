package persistence

import (
	"context"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	store
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{store: store{db: db}}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormSupplierRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outbox = saver
}

// WithTx returns a repository bound to the given transaction
func (r *GormSupplierRepository) WithTx(tx *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{store: r.withTx(tx)}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := first(ctx, r.db, &model, "Supplier", "", "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a supplier by its supplier number
func (r *GormSupplierRepository) FindByNumber(ctx context.Context, number string) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := first(ctx, r.db, &model, "Supplier", "", "supplier_number = ?", number); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple suppliers by their IDs
func (r *GormSupplierRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Supplier, error) {
	if len(ids) == 0 {
		return []partner.Supplier{}, nil
	}
	var rows []models.SupplierModel
	if err := r.db.WithContext(ctx).Scopes(notRemoved).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toSuppliers(rows), nil
}

// FindAll finds suppliers matching the filter.
// Supported filters: status, type, category.
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, int64, error) {
	rows, total, err := findPage[models.SupplierModel](ctx, r.db, filter, SupplierSortFields, "", func(db *gorm.DB) *gorm.DB {
		return r.applyFilter(db, filter)
	})
	if err != nil {
		return nil, 0, err
	}
	return toSuppliers(rows), total, nil
}

// FindByStatus finds suppliers by status
func (r *GormSupplierRepository) FindByStatus(ctx context.Context, status partner.SupplierStatus, filter shared.Filter) ([]partner.Supplier, error) {
	rows, _, err := findPage[models.SupplierModel](ctx, r.db, filter, SupplierSortFields, "", func(db *gorm.DB) *gorm.DB {
		return search(db.Where("status = ?", status), filter.Search, "supplier_number", "company_name")
	})
	if err != nil {
		return nil, err
	}
	return toSuppliers(rows), nil
}

// Save creates or updates a supplier together with its pending events
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.save(ctx, aggregateWrite{
		entity: "supplier",
		root:   &supplier.BaseAggregateRoot,
		table:  &models.SupplierModel{},
		build:  func() any { return models.SupplierModelFromDomain(supplier) },
	})
}

func (r *GormSupplierRepository) applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	db = search(db, filter.Search, "supplier_number", "company_name")
	if status, ok := filterString(filter, "status"); ok {
		db = db.Where("status = ?", status)
	}
	if supplierType, ok := filterString(filter, "type"); ok {
		db = db.Where("type = ?", supplierType)
	}
	if category, ok := filterString(filter, "category"); ok {
		// categories is a JSON array of strings
		db = db.Where("CAST(categories AS TEXT) LIKE ?", `%"`+category+`"%`)
	}
	return db
}

func toSuppliers(rows []models.SupplierModel) []partner.Supplier {
	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
