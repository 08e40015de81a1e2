package partner

import (
	"context"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository defines the interface for supplier persistence.
// Removed suppliers are invisible to every finder.
type SupplierRepository interface {
	// FindByID finds a supplier by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindByNumber finds a supplier by its supplier number
	FindByNumber(ctx context.Context, number string) (*Supplier, error)

	// FindByIDs finds multiple suppliers by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Supplier, error)

	// FindAll finds suppliers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, int64, error)

	// FindByStatus finds suppliers by status
	FindByStatus(ctx context.Context, status SupplierStatus, filter shared.Filter) ([]Supplier, error)

	// Save creates or updates a supplier together with its pending events
	Save(ctx context.Context, supplier *Supplier) error
}
