package trade

import (
	"context"

	"github.com/erp/procurement/internal/domain/catalog"
)

// InventoryScope posts the accepted quantities of one goods receipt atomically:
// either every material of the receipt is updated or none is.
type InventoryScope interface {
	Execute(ctx context.Context, fn func(repos InventoryRepositories) error) error
}

// InventoryRepositories are the repositories bound to one inventory transaction
type InventoryRepositories interface {
	MaterialRepo() catalog.MaterialRepository
}
