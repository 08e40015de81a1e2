package sourcing

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// checkSuppliers verifies that every id names an existing supplier that accepts orders
func checkSuppliers(ctx context.Context, repo partner.SupplierRepository, ids []uuid.UUID) error {
	ids = distinct(ids)
	if len(ids) == 0 {
		return nil
	}
	suppliers, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load suppliers: %w", err)
	}
	found := make(map[uuid.UUID]*partner.Supplier, len(suppliers))
	for i := range suppliers {
		found[suppliers[i].ID] = &suppliers[i]
	}
	for _, id := range ids {
		s, ok := found[id]
		if !ok {
			return shared.NewNotFoundError("Supplier")
		}
		if !s.CanReceiveOrders() {
			return shared.NewConsistencyError("SUPPLIER_NOT_ACTIVE",
				fmt.Sprintf("Supplier %s cannot receive orders with status: %s", s.SupplierNumber, s.Status))
		}
	}
	return nil
}

// checkMaterials verifies that every id names an existing, purchasable material
func checkMaterials(ctx context.Context, repo catalog.MaterialRepository, ids []uuid.UUID) error {
	ids = distinct(ids)
	if len(ids) == 0 {
		return nil
	}
	materials, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load materials: %w", err)
	}
	found := make(map[uuid.UUID]*catalog.Material, len(materials))
	for i := range materials {
		found[materials[i].ID] = &materials[i]
	}
	for _, id := range ids {
		m, ok := found[id]
		if !ok {
			return shared.NewNotFoundError("Material")
		}
		if !m.CanBePurchased() {
			return shared.NewConsistencyError("MATERIAL_NOT_PURCHASABLE",
				fmt.Sprintf("Material %s cannot be purchased with status: %s", m.MaterialNumber, m.Status))
		}
	}
	return nil
}

func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
