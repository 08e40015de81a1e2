package sourcing

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/application/validation"
	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuotationService handles material quotation operations
type QuotationService struct {
	quotationRepo sourcing.QuotationRepository
	materialRepo  catalog.MaterialRepository
	supplierRepo  partner.SupplierRepository
	workflowRepo  workflow.WorkflowRepository
	numbers       *sequence.Generator
	logger        *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo sourcing.QuotationRepository,
	materialRepo catalog.MaterialRepository,
	supplierRepo partner.SupplierRepository,
	workflowRepo workflow.WorkflowRepository,
	numbers *sequence.Generator,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		materialRepo:  materialRepo,
		supplierRepo:  supplierRepo,
		workflowRepo:  workflowRepo,
		numbers:       numbers,
		logger:        logger,
	}
}

// Create creates a draft quotation with its items and invited suppliers
func (s *QuotationService) Create(ctx context.Context, req CreateQuotationRequest, userID string) (*sourcing.QuotationView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	materialIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		materialIDs = append(materialIDs, it.MaterialID)
	}
	if err := checkMaterials(ctx, s.materialRepo, materialIDs); err != nil {
		return nil, err
	}
	if err := checkSuppliers(ctx, s.supplierRepo, req.TargetSuppliers); err != nil {
		return nil, err
	}

	number, err := s.numbers.Next(ctx, sequence.DocumentTypeMaterialQuotation)
	if err != nil {
		return nil, err
	}
	q, err := sourcing.NewMaterialQuotation(number, req.Title, valueobject.Currency(req.Currency), userID)
	if err != nil {
		return nil, err
	}
	if err := q.SetValidity(req.ValidUntil, req.Notes, userID); err != nil {
		return nil, err
	}
	for _, it := range req.Items {
		if _, err := q.AddItem(it.input(), userID); err != nil {
			return nil, err
		}
	}
	for _, id := range req.TargetSuppliers {
		if err := q.AddTargetSupplier(id, userID); err != nil {
			return nil, err
		}
	}
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info("quotation created",
		zap.String("quotation_id", q.ID.String()),
		zap.String("quotation_number", q.QuotationNumber),
		zap.Int("items", len(q.Items)),
	)
	view := q.Format()
	return &view, nil
}

// AddItem appends a requested material to a draft quotation
func (s *QuotationService) AddItem(ctx context.Context, quotationID uuid.UUID, req QuotationItemRequest, userID string) (*sourcing.QuotationView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := checkMaterials(ctx, s.materialRepo, []uuid.UUID{req.MaterialID}); err != nil {
		return nil, err
	}
	return s.mutate(ctx, quotationID, func(q *sourcing.MaterialQuotation) error {
		_, err := q.AddItem(req.input(), userID)
		return err
	})
}

// RemoveItem removes a requested material from a draft quotation
func (s *QuotationService) RemoveItem(ctx context.Context, quotationID, itemID uuid.UUID, userID string) (*sourcing.QuotationView, error) {
	return s.mutate(ctx, quotationID, func(q *sourcing.MaterialQuotation) error {
		return q.RemoveItem(itemID, userID)
	})
}

// AddTargetSupplier invites an active supplier to quote
func (s *QuotationService) AddTargetSupplier(ctx context.Context, quotationID uuid.UUID, req TargetSupplierRequest, userID string) (*sourcing.QuotationView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := checkSuppliers(ctx, s.supplierRepo, []uuid.UUID{req.SupplierID}); err != nil {
		return nil, err
	}
	return s.mutate(ctx, quotationID, func(q *sourcing.MaterialQuotation) error {
		return q.AddTargetSupplier(req.SupplierID, userID)
	})
}

// Send issues the quotation to its target suppliers
func (s *QuotationService) Send(ctx context.Context, quotationID uuid.UUID, userID string) (*sourcing.QuotationView, error) {
	return s.mutate(ctx, quotationID, func(q *sourcing.MaterialQuotation) error {
		return q.Send(userID)
	})
}

// AddQuote records a supplier's quote for one item
func (s *QuotationService) AddQuote(ctx context.Context, quotationID, itemID uuid.UUID, req QuoteRequest, userID string) (*sourcing.QuotationView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, quotationID, func(q *sourcing.MaterialQuotation) error {
		_, err := q.AddQuote(itemID, sourcing.QuoteInput{
			SupplierID:   req.SupplierID,
			UnitPrice:    req.UnitPrice,
			Currency:     valueobject.Currency(req.Currency),
			LeadTimeDays: req.LeadTimeDays,
			ValidUntil:   req.ValidUntil,
			Notes:        req.Notes,
		}, userID)
		return err
	})
}

// SelectQuote selects the winning quote of an item
func (s *QuotationService) SelectQuote(ctx context.Context, quotationID, itemID uuid.UUID, req SelectQuoteRequest, userID string) (*sourcing.QuotationView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, quotationID, func(q *sourcing.MaterialQuotation) error {
		return q.SelectQuote(itemID, req.QuoteID, userID)
	})
}

// Complete closes the quotation and records the approval route of its selected total
func (s *QuotationService) Complete(ctx context.Context, quotationID uuid.UUID, userID string) (*sourcing.QuotationView, error) {
	wf, err := workflow.FindActive(ctx, s.workflowRepo, workflow.DocumentTypeMaterialQuotation)
	if err != nil {
		return nil, fmt.Errorf("failed to load quotation workflow: %w", err)
	}
	view, err := s.mutate(ctx, quotationID, func(q *sourcing.MaterialQuotation) error {
		return q.Complete(wf, userID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("quotation completed",
		zap.String("quotation_number", view.QuotationNumber),
		zap.String("selected_total", view.SelectedQuotes.TotalValue.String()),
		zap.Ints("required_levels", view.RequiredLevels),
	)
	return view, nil
}

// Cancel cancels a quotation that has not been completed
func (s *QuotationService) Cancel(ctx context.Context, quotationID uuid.UUID, req ReasonRequest, userID string) (*sourcing.QuotationView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, quotationID, func(q *sourcing.MaterialQuotation) error {
		return q.Cancel(req.Reason, userID)
	})
}

// Delete soft deletes a quotation
func (s *QuotationService) Delete(ctx context.Context, quotationID uuid.UUID, userID string) error {
	_, err := s.mutate(ctx, quotationID, func(q *sourcing.MaterialQuotation) error {
		return q.SoftDelete(userID)
	})
	return err
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, quotationID uuid.UUID) (*sourcing.QuotationView, error) {
	q, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	view := q.Format()
	return &view, nil
}

// GetByNumber retrieves a quotation by its quotation number
func (s *QuotationService) GetByNumber(ctx context.Context, number string) (*sourcing.QuotationView, error) {
	if err := sequence.Validate(sequence.DocumentTypeMaterialQuotation, number); err != nil {
		return nil, err
	}
	q, err := s.quotationRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	view := q.Format()
	return &view, nil
}

// List retrieves a page of quotations
func (s *QuotationService) List(ctx context.Context, filter QuotationListFilter) (*shared.Paginated[sourcing.QuotationView], error) {
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

	quotations, total, err := s.quotationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	views := make([]sourcing.QuotationView, 0, len(quotations))
	for i := range quotations {
		views = append(views, quotations[i].Format())
	}
	page := shared.NewPaginated(views, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

func (s *QuotationService) mutate(ctx context.Context, quotationID uuid.UUID, fn func(*sourcing.MaterialQuotation) error) (*sourcing.QuotationView, error) {
	q, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	view := q.Format()
	return &view, nil
}
