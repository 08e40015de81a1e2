package persistence

import (
	"context"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	store
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{store: store{db: db}}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormCategoryRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outbox = saver
}

// WithTx returns a repository bound to the given transaction
func (r *GormCategoryRepository) WithTx(tx *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{store: r.withTx(tx)}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := first(ctx, r.db, &model, "Category", "", "id = ?", id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a category by its code
func (r *GormCategoryRepository) FindByCode(ctx context.Context, code string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := first(ctx, r.db, &model, "Category", "", "code = ?", catalog.NormalizeCode(code)); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll loads every category ordered by depth, then sort order
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]*catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(notRemoved).
		Order("level ASC").
		Order("sort_order ASC").
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]*catalog.Category, len(rows))
	for i := range rows {
		categories[i] = rows[i].ToDomain()
	}
	return categories, nil
}

// CountChildren counts the direct subcategories of a category
func (r *GormCategoryRepository) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Scopes(notRemoved).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}

// ExistsByCode checks whether a live category already uses the code
func (r *GormCategoryRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Scopes(notRemoved).
		Where("code = ?", catalog.NormalizeCode(code)).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a category together with its pending events
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.save(ctx, aggregateWrite{
		entity: "category",
		root:   &category.BaseAggregateRoot,
		table:  &models.CategoryModel{},
		build:  func() any { return models.CategoryModelFromDomain(category) },
	})
}

// SaveAll saves several categories in one transaction, as produced by a reparent
func (r *GormCategoryRepository) SaveAll(ctx context.Context, categories []*catalog.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := r.WithTx(tx)
		for _, c := range categories {
			if err := repo.Save(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
