package catalog

import (
	"context"

	"github.com/erp/procurement/internal/application/validation"
	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaterialService handles material master data, units and stock reservations
type MaterialService struct {
	materialRepo catalog.MaterialRepository
	categoryRepo catalog.CategoryRepository
	supplierRepo partner.SupplierRepository
	numbers      *sequence.Generator
	logger       *zap.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(
	materialRepo catalog.MaterialRepository,
	categoryRepo catalog.CategoryRepository,
	supplierRepo partner.SupplierRepository,
	numbers *sequence.Generator,
	logger *zap.Logger,
) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		numbers:      numbers,
		logger:       logger,
	}
}

// Create creates a draft material with a freshly allocated material number
func (s *MaterialService) Create(ctx context.Context, req CreateMaterialRequest, userID string) (*catalog.MaterialView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	number, err := s.numbers.Next(ctx, sequence.DocumentTypeMaterial)
	if err != nil {
		return nil, err
	}

	name := valueobject.NewBilingualText(req.NameZH, req.NameEN)
	material, err := catalog.NewMaterial(number, name, catalog.MaterialType(req.Type), req.BaseUOM, userID)
	if err != nil {
		return nil, err
	}
	err = material.UpdateDetails(catalog.MaterialDetails{
		Name:           name,
		Description:    req.Description,
		Type:           catalog.MaterialType(req.Type),
		CategoryID:     req.CategoryID,
		Specifications: req.Specifications,
		StandardCost:   req.StandardCost,
		Currency:       valueobject.Currency(req.Currency),
	}, userID)
	if err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}

	s.logger.Info("material created",
		zap.String("material_id", material.ID.String()),
		zap.String("material_number", material.MaterialNumber),
	)
	view := material.Format()
	return &view, nil
}

// Update replaces the master data of a material
func (s *MaterialService) Update(ctx context.Context, materialID uuid.UUID, req UpdateMaterialRequest, userID string) (*catalog.MaterialView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.UpdateDetails(catalog.MaterialDetails{
			Name:           valueobject.NewBilingualText(req.NameZH, req.NameEN),
			Description:    req.Description,
			Type:           catalog.MaterialType(req.Type),
			CategoryID:     req.CategoryID,
			Specifications: req.Specifications,
			StandardCost:   req.StandardCost,
			Currency:       valueobject.Currency(req.Currency),
		}, userID)
	})
}

// GetByID retrieves a material by ID
func (s *MaterialService) GetByID(ctx context.Context, materialID uuid.UUID) (*catalog.MaterialView, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	view := material.Format()
	return &view, nil
}

// GetByNumber retrieves a material by its material number
func (s *MaterialService) GetByNumber(ctx context.Context, number string) (*catalog.MaterialView, error) {
	if err := sequence.Validate(sequence.DocumentTypeMaterial, number); err != nil {
		return nil, err
	}
	material, err := s.materialRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	view := material.Format()
	return &view, nil
}

// List retrieves a page of materials
func (s *MaterialService) List(ctx context.Context, filter MaterialListFilter) (*shared.Paginated[catalog.MaterialView], error) {
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}

	materials, total, err := s.materialRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	views := make([]catalog.MaterialView, 0, len(materials))
	for i := range materials {
		views = append(views, materials[i].Format())
	}
	page := shared.NewPaginated(views, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// AddAlternativeUOM registers an alternative unit of measure
func (s *MaterialService) AddAlternativeUOM(ctx context.Context, materialID uuid.UUID, req AlternativeUOMRequest, userID string) (*catalog.MaterialView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.AddAlternativeUOM(req.UOM, req.ConversionFactor, userID)
	})
}

// RemoveAlternativeUOM unregisters an alternative unit of measure
func (s *MaterialService) RemoveAlternativeUOM(ctx context.Context, materialID uuid.UUID, uom, userID string) (*catalog.MaterialView, error) {
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.RemoveAlternativeUOM(uom, userID)
	})
}

// ConvertToBase converts a quantity in uom into the material's base unit
func (s *MaterialService) ConvertToBase(ctx context.Context, materialID uuid.UUID, quantity decimal.Decimal, uom string) (decimal.Decimal, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return decimal.Zero, err
	}
	return material.ConvertToBaseUOM(quantity, uom)
}

// AddPreferredSupplier links an existing, non-blacklisted supplier to the material
func (s *MaterialService) AddPreferredSupplier(ctx context.Context, materialID uuid.UUID, req PreferredSupplierRequest, userID string) (*catalog.MaterialView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier.Status == partner.SupplierStatusBlacklisted {
		return nil, shared.NewConsistencyError("SUPPLIER_BLACKLISTED", "Cannot add a blacklisted supplier as preferred supplier")
	}
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.AddPreferredSupplier(catalog.PreferredSupplier{
			SupplierID:       req.SupplierID,
			IsPrimary:        req.IsPrimary,
			LeadTimeDays:     req.LeadTimeDays,
			MinOrderQuantity: req.MinOrderQuantity,
			LastPrice:        req.LastPrice,
			Currency:         valueobject.Currency(req.Currency),
		}, userID)
	})
}

// SetPrimarySupplier makes one preferred supplier the primary one
func (s *MaterialService) SetPrimarySupplier(ctx context.Context, materialID, supplierID uuid.UUID, userID string) (*catalog.MaterialView, error) {
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.SetPrimarySupplier(supplierID, userID)
	})
}

// RemovePreferredSupplier unlinks a supplier from the material
func (s *MaterialService) RemovePreferredSupplier(ctx context.Context, materialID, supplierID uuid.UUID, userID string) (*catalog.MaterialView, error) {
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.RemovePreferredSupplier(supplierID, userID)
	})
}

// Activate activates a material
func (s *MaterialService) Activate(ctx context.Context, materialID uuid.UUID, userID string) (*catalog.MaterialView, error) {
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.Activate(userID)
	})
}

// Deactivate deactivates a material
func (s *MaterialService) Deactivate(ctx context.Context, materialID uuid.UUID, userID string) (*catalog.MaterialView, error) {
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		m.Deactivate(userID)
		return nil
	})
}

// MarkObsolete retires a material that may still be consumed from stock
func (s *MaterialService) MarkObsolete(ctx context.Context, materialID uuid.UUID, userID string) (*catalog.MaterialView, error) {
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.MarkObsolete(userID)
	})
}

// Discontinue retires a material for good
func (s *MaterialService) Discontinue(ctx context.Context, materialID uuid.UUID, userID string) (*catalog.MaterialView, error) {
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.Discontinue(userID)
	})
}

// Reserve reserves available stock
func (s *MaterialService) Reserve(ctx context.Context, materialID uuid.UUID, req StockRequest, userID string) (*catalog.MaterialView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.Reserve(req.Quantity, userID)
	})
}

// Release releases reserved stock
func (s *MaterialService) Release(ctx context.Context, materialID uuid.UUID, req StockRequest, userID string) (*catalog.MaterialView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.Release(req.Quantity, userID)
	})
}

// Delete soft deletes a material
func (s *MaterialService) Delete(ctx context.Context, materialID uuid.UUID, userID string) error {
	_, err := s.mutate(ctx, materialID, func(m *catalog.Material) error {
		return m.SoftDelete(userID)
	})
	return err
}

func (s *MaterialService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
		if shared.IsKind(err, shared.KindReferential) {
			return shared.NewNotFoundError("Category")
		}
		return err
	}
	return nil
}

func (s *MaterialService) mutate(ctx context.Context, materialID uuid.UUID, fn func(*catalog.Material) error) (*catalog.MaterialView, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if err := fn(material); err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	view := material.Format()
	return &view, nil
}
