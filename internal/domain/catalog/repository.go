package catalog

import (
	"context"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence.
// Removed categories are invisible to every finder and counter.
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByCode finds a category by its code
	FindByCode(ctx context.Context, code string) (*Category, error)

	// FindAll loads every category, used to build a CategoryTree
	FindAll(ctx context.Context) ([]*Category, error)

	// CountChildren counts the direct subcategories of a category
	CountChildren(ctx context.Context, id uuid.UUID) (int64, error)

	// ExistsByCode checks whether a category code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates a category together with its pending events
	Save(ctx context.Context, category *Category) error

	// SaveAll saves several categories in one transaction
	SaveAll(ctx context.Context, categories []*Category) error
}

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	// FindByID finds a material by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)

	// FindByNumber finds a material by its material number
	FindByNumber(ctx context.Context, number string) (*Material, error)

	// FindByIDs finds multiple materials by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Material, error)

	// FindAll finds materials matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Material, int64, error)

	// CountByCategory counts the materials assigned to a category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// Save creates or updates a material together with its pending events
	Save(ctx context.Context, material *Material) error
}
