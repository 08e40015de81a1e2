package partner

import (
	"context"

	"github.com/erp/procurement/internal/application/validation"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	numbers      *sequence.Generator
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, numbers *sequence.Generator, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		numbers:      numbers,
		logger:       logger,
	}
}

// Create creates a new draft supplier with a freshly allocated supplier number
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest, userID string) (*partner.SupplierView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	number, err := s.numbers.Next(ctx, sequence.DocumentTypeSupplier)
	if err != nil {
		return nil, err
	}

	d := req.details()
	supplier, err := partner.NewSupplier(number, d.CompanyName, d.Type, userID)
	if err != nil {
		return nil, err
	}
	if err := supplier.UpdateDetails(d, userID); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("supplier_number", supplier.SupplierNumber),
	)
	view := supplier.Format()
	return &view, nil
}

// Update replaces the master data of a draft or inactive supplier
func (s *SupplierService) Update(ctx context.Context, supplierID uuid.UUID, req UpdateSupplierRequest, userID string) (*partner.SupplierView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.UpdateDetails(req.details(), userID)
	})
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, supplierID uuid.UUID) (*partner.SupplierView, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	view := supplier.Format()
	return &view, nil
}

// GetByNumber retrieves a supplier by its supplier number
func (s *SupplierService) GetByNumber(ctx context.Context, number string) (*partner.SupplierView, error) {
	if err := sequence.Validate(sequence.DocumentTypeSupplier, number); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	view := supplier.Format()
	return &view, nil
}

// List retrieves a page of suppliers
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) (*shared.Paginated[partner.SupplierView], error) {
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
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	suppliers, total, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	views := make([]partner.SupplierView, 0, len(suppliers))
	for i := range suppliers {
		views = append(views, suppliers[i].Format())
	}
	page := shared.NewPaginated(views, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// SubmitForApproval submits a draft supplier for approval
func (s *SupplierService) SubmitForApproval(ctx context.Context, supplierID uuid.UUID, userID string) (*partner.SupplierView, error) {
	return s.mutate(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.SubmitForApproval(userID)
	})
}

// Approve approves a supplier pending approval
func (s *SupplierService) Approve(ctx context.Context, supplierID uuid.UUID, userID string) (*partner.SupplierView, error) {
	return s.mutate(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.Approve(userID)
	})
}

// Reject sends a supplier pending approval back to draft
func (s *SupplierService) Reject(ctx context.Context, supplierID uuid.UUID, req ReasonRequest, userID string) (*partner.SupplierView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.Reject(userID, req.Reason)
	})
}

// Activate activates an inactive supplier
func (s *SupplierService) Activate(ctx context.Context, supplierID uuid.UUID, userID string) (*partner.SupplierView, error) {
	return s.mutate(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.Activate(userID)
	})
}

// Deactivate suspends an active supplier
func (s *SupplierService) Deactivate(ctx context.Context, supplierID uuid.UUID, userID string) (*partner.SupplierView, error) {
	return s.mutate(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.Deactivate(userID)
	})
}

// Blacklist blacklists a supplier
func (s *SupplierService) Blacklist(ctx context.Context, supplierID uuid.UUID, req ReasonRequest, userID string) (*partner.SupplierView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.AddToBlacklist(userID, req.Reason)
	})
}

// Delete soft deletes a supplier
func (s *SupplierService) Delete(ctx context.Context, supplierID uuid.UUID, userID string) error {
	_, err := s.mutate(ctx, supplierID, func(supplier *partner.Supplier) error {
		return supplier.SoftDelete(userID)
	})
	return err
}

// mutate loads a supplier, applies fn and saves it. Nothing is saved when fn fails.
func (s *SupplierService) mutate(ctx context.Context, supplierID uuid.UUID, fn func(*partner.Supplier) error) (*partner.SupplierView, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if err := fn(supplier); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	view := supplier.Format()
	return &view, nil
}
