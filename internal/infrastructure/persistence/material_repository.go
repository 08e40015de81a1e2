package persistence

import (
	"context"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMaterialRepository implements MaterialRepository using GORM
type GormMaterialRepository struct {
	store
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{store: store{db: db}}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormMaterialRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outbox = saver
}

// WithTx returns a repository bound to the given transaction
func (r *GormMaterialRepository) WithTx(tx *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{store: r.withTx(tx)}
}

// FindByID finds a material by its ID
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	var model models.MaterialModel
	if err := first(ctx, r.db, &model, "Material", "", "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a material by its material number
func (r *GormMaterialRepository) FindByNumber(ctx context.Context, number string) (*catalog.Material, error) {
	var model models.MaterialModel
	if err := first(ctx, r.db, &model, "Material", "", "material_number = ?", number); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple materials by their IDs
func (r *GormMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Material, error) {
	if len(ids) == 0 {
		return []catalog.Material{}, nil
	}
	var rows []models.MaterialModel
	if err := r.db.WithContext(ctx).Scopes(notRemoved).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMaterials(rows), nil
}

// FindAll finds materials matching the filter.
// Supported filters: status, type, category_id.
func (r *GormMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Material, int64, error) {
	rows, total, err := findPage[models.MaterialModel](ctx, r.db, filter, MaterialSortFields, "", func(db *gorm.DB) *gorm.DB {
		db = search(db, filter.Search, "material_number", "name", "description")
		if status, ok := filterString(filter, "status"); ok {
			db = db.Where("status = ?", status)
		}
		if materialType, ok := filterString(filter, "type"); ok {
			db = db.Where("type = ?", materialType)
		}
		if categoryID, ok := filterUUID(filter, "category_id"); ok {
			db = db.Where("category_id = ?", categoryID)
		}
		return db
	})
	if err != nil {
		return nil, 0, err
	}
	return toMaterials(rows), total, nil
}

// CountByCategory counts the live materials assigned to a category
func (r *GormMaterialRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MaterialModel{}).
		Scopes(notRemoved).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a material together with its pending events
func (r *GormMaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	return r.save(ctx, aggregateWrite{
		entity: "material",
		root:   &material.BaseAggregateRoot,
		table:  &models.MaterialModel{},
		build:  func() any { return models.MaterialModelFromDomain(material) },
	})
}

func toMaterials(rows []models.MaterialModel) []catalog.Material {
	materials := make([]catalog.Material, len(rows))
	for i := range rows {
		materials[i] = *rows[i].ToDomain()
	}
	return materials
}

var _ catalog.MaterialRepository = (*GormMaterialRepository)(nil)
