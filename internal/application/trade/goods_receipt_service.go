package trade

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/application/validation"
	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GoodsReceiptService handles goods receipt operations
type GoodsReceiptService struct {
	receiptRepo trade.GoodsReceiptRepository
	orderRepo   trade.PurchaseOrderRepository
	numbers     *sequence.Generator
	logger      *zap.Logger
}

// NewGoodsReceiptService creates a new GoodsReceiptService
func NewGoodsReceiptService(
	receiptRepo trade.GoodsReceiptRepository,
	orderRepo trade.PurchaseOrderRepository,
	numbers *sequence.Generator,
	logger *zap.Logger,
) *GoodsReceiptService {
	return &GoodsReceiptService{
		receiptRepo: receiptRepo,
		orderRepo:   orderRepo,
		numbers:     numbers,
		logger:      logger,
	}
}

// Create creates a draft receipt against the lines of a purchase order
func (s *GoodsReceiptService) Create(ctx context.Context, req CreateGoodsReceiptRequest, userID string) (*trade.GoodsReceiptView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	po, err := s.orderRepo.FindByID(ctx, req.PurchaseOrderID)
	if err != nil {
		return nil, err
	}

	number, err := s.numbers.Next(ctx, sequence.DocumentTypeGoodsReceipt)
	if err != nil {
		return nil, err
	}
	gr, err := trade.NewGoodsReceipt(number, po, req.ReceiptDate, req.InspectionRequired, userID)
	if err != nil {
		return nil, err
	}
	if err := gr.SetDelivery(req.WarehouseLocation, req.DeliveryNote, req.Notes, userID); err != nil {
		return nil, err
	}
	for _, line := range req.Items {
		poItem := po.GetItem(line.POItemID)
		if poItem == nil {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Purchase order item %s", line.POItemID))
		}
		if _, err := gr.AddItem(*poItem, line.ReceivedQuantity, line.StorageLocation, userID); err != nil {
			return nil, err
		}
	}
	if err := s.receiptRepo.Save(ctx, gr); err != nil {
		return nil, err
	}

	s.logger.Info("goods receipt created",
		zap.String("receipt_number", gr.ReceiptNumber),
		zap.String("po_number", po.PONumber),
		zap.Int("lines", len(gr.Items)),
	)
	view := gr.Format()
	return &view, nil
}

// RecordInspection records the quality inspection of a receipt
func (s *GoodsReceiptService) RecordInspection(ctx context.Context, receiptID uuid.UUID, req InspectionRequest, userID string) (*trade.GoodsReceiptView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	in := trade.InspectionInput{
		Inspector: userID,
		Date:      req.Date,
		Result:    trade.QualityStatus(req.Result),
		Notes:     req.Notes,
		Items:     make([]trade.ItemInspection, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, trade.ItemInspection{
			ItemID:           it.ItemID,
			AcceptedQuantity: it.AcceptedQuantity,
			RejectedQuantity: it.RejectedQuantity,
			QualityStatus:    trade.QualityStatus(it.QualityStatus),
			Notes:            it.Notes,
		})
	}
	return s.mutate(ctx, receiptID, func(gr *trade.GoodsReceipt) error {
		return gr.RecordInspection(in, userID)
	})
}

// Complete finalises a receipt. Reconciliation and the inventory posting
// follow asynchronously from the GoodsReceiptCompleted event.
func (s *GoodsReceiptService) Complete(ctx context.Context, receiptID uuid.UUID, userID string) (*trade.GoodsReceiptView, error) {
	view, err := s.mutate(ctx, receiptID, func(gr *trade.GoodsReceipt) error {
		return gr.Complete(userID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("goods receipt completed",
		zap.String("receipt_number", view.ReceiptNumber),
		zap.String("total_accepted", view.TotalAccepted.String()),
	)
	return view, nil
}

// Cancel cancels a receipt that has not been completed
func (s *GoodsReceiptService) Cancel(ctx context.Context, receiptID uuid.UUID, req ReasonRequest, userID string) (*trade.GoodsReceiptView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, receiptID, func(gr *trade.GoodsReceipt) error {
		return gr.Cancel(userID, req.Reason)
	})
}

// Delete soft deletes a receipt that has not been completed
func (s *GoodsReceiptService) Delete(ctx context.Context, receiptID uuid.UUID, userID string) error {
	_, err := s.mutate(ctx, receiptID, func(gr *trade.GoodsReceipt) error {
		return gr.SoftDelete(userID)
	})
	return err
}

// GetByID retrieves a goods receipt by ID
func (s *GoodsReceiptService) GetByID(ctx context.Context, receiptID uuid.UUID) (*trade.GoodsReceiptView, error) {
	gr, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	view := gr.Format()
	return &view, nil
}

// GetByNumber retrieves a goods receipt by its receipt number
func (s *GoodsReceiptService) GetByNumber(ctx context.Context, number string) (*trade.GoodsReceiptView, error) {
	if err := sequence.Validate(sequence.DocumentTypeGoodsReceipt, number); err != nil {
		return nil, err
	}
	gr, err := s.receiptRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	view := gr.Format()
	return &view, nil
}

// List retrieves a page of goods receipts
func (s *GoodsReceiptService) List(ctx context.Context, filter GoodsReceiptListFilter) (*shared.Paginated[trade.GoodsReceiptView], error) {
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
	if filter.PurchaseOrderID != nil {
		domainFilter.Filters["purchase_order_id"] = *filter.PurchaseOrderID
	}

	receipts, total, err := s.receiptRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	views := make([]trade.GoodsReceiptView, 0, len(receipts))
	for i := range receipts {
		views = append(views, receipts[i].Format())
	}
	page := shared.NewPaginated(views, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

func (s *GoodsReceiptService) mutate(ctx context.Context, receiptID uuid.UUID, fn func(*trade.GoodsReceipt) error) (*trade.GoodsReceiptView, error) {
	gr, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := fn(gr); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, gr); err != nil {
		return nil, err
	}
	view := gr.Format()
	return &view, nil
}
