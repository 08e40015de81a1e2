package sourcing

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ConversionService turns a completed quotation into one draft purchase order per
// selected supplier
type ConversionService struct {
	quotationRepo sourcing.QuotationRepository
	supplierRepo  partner.SupplierRepository
	materialRepo  catalog.MaterialRepository
	txScope       TransactionScope
	numbers       *sequence.Generator
	clock         sequence.Clock
	logger        *zap.Logger
}

// NewConversionService creates a new ConversionService
func NewConversionService(
	quotationRepo sourcing.QuotationRepository,
	supplierRepo partner.SupplierRepository,
	materialRepo catalog.MaterialRepository,
	txScope TransactionScope,
	numbers *sequence.Generator,
	clock sequence.Clock,
	logger *zap.Logger,
) *ConversionService {
	if clock == nil {
		clock = shared.Now
	}
	return &ConversionService{
		quotationRepo: quotationRepo,
		supplierRepo:  supplierRepo,
		materialRepo:  materialRepo,
		txScope:       txScope,
		numbers:       numbers,
		clock:         clock,
		logger:        logger,
	}
}

// Convert creates the purchase orders of a completed quotation and links them back.
// The orders and the quotation are saved in one transaction.
func (s *ConversionService) Convert(ctx context.Context, quotationID uuid.UUID, userID string) (*ConversionResult, error) {
	q, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	plan, err := q.PlanConversion()
	if err != nil {
		return nil, err
	}
	if len(plan.SkippedItems) > 0 {
		s.logger.Warn("quotation items without a selected quote are not converted",
			zap.String("quotation_number", plan.QuotationNumber),
			zap.Int("skipped", len(plan.SkippedItems)),
		)
	}
	if len(plan.Groups) == 0 {
		return nil, shared.NewConsistencyError("NO_SELECTED_QUOTES", "Quotation has no selected quotes to convert")
	}

	if err := s.checkReferences(ctx, plan); err != nil {
		return nil, err
	}

	orders := make([]*trade.PurchaseOrder, 0, len(plan.Groups))
	links := make([]sourcing.PurchaseOrderLink, 0, len(plan.Groups))
	for _, group := range plan.Groups {
		po, err := s.buildOrder(ctx, plan, group, userID)
		if err != nil {
			return nil, err
		}
		orders = append(orders, po)
		links = append(links, sourcing.PurchaseOrderLink{
			SupplierID:      group.SupplierID,
			PurchaseOrderID: po.ID,
			PONumber:        po.PONumber,
			CreatedAt:       po.CreatedAt,
		})
	}
	if err := q.RecordConversion(links, userID); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, po := range orders {
			if err := repos.PurchaseOrderRepo().Save(ctx, po); err != nil {
				return fmt.Errorf("failed to save purchase order %s: %w", po.PONumber, err)
			}
		}
		return repos.QuotationRepo().Save(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	result := &ConversionResult{
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		PurchaseOrders:  make([]trade.PurchaseOrderView, 0, len(orders)),
		SkippedItems:    plan.SkippedItems,
	}
	for _, po := range orders {
		result.PurchaseOrders = append(result.PurchaseOrders, po.Format())
	}
	s.logger.Info("quotation converted to purchase orders",
		zap.String("quotation_number", q.QuotationNumber),
		zap.Int("purchase_orders", len(orders)),
	)
	return result, nil
}

// checkReferences verifies suppliers and materials of the plan concurrently
func (s *ConversionService) checkReferences(ctx context.Context, plan sourcing.ConversionPlan) error {
	var materialIDs []uuid.UUID
	for _, g := range plan.Groups {
		for _, l := range g.Lines {
			materialIDs = append(materialIDs, l.MaterialID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return checkSuppliers(gctx, s.supplierRepo, plan.SupplierIDs())
	})
	g.Go(func() error {
		return checkMaterials(gctx, s.materialRepo, materialIDs)
	})
	return g.Wait()
}

func (s *ConversionService) buildOrder(ctx context.Context, plan sourcing.ConversionPlan, group sourcing.ConversionGroup, userID string) (*trade.PurchaseOrder, error) {
	number, err := s.numbers.Next(ctx, sequence.DocumentTypePurchaseOrder)
	if err != nil {
		return nil, err
	}
	po, err := trade.NewPurchaseOrder(number, group.SupplierID, group.Currency, userID)
	if err != nil {
		return nil, err
	}
	for _, line := range group.Lines {
		_, err := po.AddItem(trade.ItemInput{
			MaterialID:   line.MaterialID,
			Description:  line.Description,
			Quantity:     line.Quantity,
			UOM:          line.UOM,
			UnitPrice:    line.UnitPrice,
			TaxRate:      decimal.Zero,
			Discount:     decimal.Zero,
			RequiredDate: line.RequiredDate,
		}, userID)
		if err != nil {
			return nil, err
		}
	}
	expected := s.clock().UTC().AddDate(0, 0, group.MaxLeadTimeDays())
	if err := po.SetDelivery(&expected, "", userID); err != nil {
		return nil, err
	}
	po.LinkSourceQuotation(plan.QuotationID, plan.QuotationNumber)
	return po, nil
}
