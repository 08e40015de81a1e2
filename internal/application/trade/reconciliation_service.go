package trade

import (
	"context"
	"fmt"
	"sort"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconciliationService writes completed goods receipts back onto their
// purchase order and posts accepted quantities to material inventory
type ReconciliationService struct {
	receiptRepo  trade.GoodsReceiptRepository
	orderRepo    trade.PurchaseOrderRepository
	inventory    InventoryScope
	logger       *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	receiptRepo trade.GoodsReceiptRepository,
	orderRepo trade.PurchaseOrderRepository,
	inventory InventoryScope,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		receiptRepo:  receiptRepo,
		orderRepo:    orderRepo,
		inventory:    inventory,
		logger:       logger,
	}
}

// Reconcile recomputes the received quantities of a purchase order from all of
// its completed receipts. Running it twice yields the same order.
func (s *ReconciliationService) Reconcile(ctx context.Context, purchaseOrderID uuid.UUID, userID string) (*trade.PurchaseOrderView, error) {
	po, err := s.orderRepo.FindByID(ctx, purchaseOrderID)
	if err != nil {
		return nil, err
	}
	receipts, err := s.receiptRepo.FindCompletedByPurchaseOrder(ctx, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipts of %s: %w", po.PONumber, err)
	}
	rec := trade.Reconcile(receipts)
	if err := po.ApplyReconciliation(rec, userID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order reconciled",
		zap.String("po_number", po.PONumber),
		zap.Int("receipts", rec.ReceiptCount),
		zap.String("status", po.Status.String()),
		zap.String("receiving_status", string(po.Receiving.Status)),
	)
	view := po.Format()
	return &view, nil
}

// ApplyInventory adds the accepted quantities of a completed receipt to each
// material's stock in one transaction. A failed posting leaves every material
// unchanged.
func (s *ReconciliationService) ApplyInventory(ctx context.Context, event *trade.GoodsReceiptCompletedEvent) error {
	accepted := event.AcceptedByMaterial()
	ids := make([]uuid.UUID, 0, len(accepted))
	for id := range accepted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	return s.inventory.Execute(ctx, func(repos InventoryRepositories) error {
		materials := repos.MaterialRepo()
		for _, id := range ids {
			if err := receiveMaterial(ctx, materials, id, accepted[id], event); err != nil {
				return err
			}
		}
		s.logger.Debug("inventory received",
			zap.String("receipt_number", event.ReceiptNumber),
			zap.Int("materials", len(ids)),
		)
		return nil
	})
}

func receiveMaterial(ctx context.Context, materials catalog.MaterialRepository, materialID uuid.UUID, qty decimal.Decimal, event *trade.GoodsReceiptCompletedEvent) error {
	material, err := materials.FindByID(ctx, materialID)
	if err != nil {
		return fmt.Errorf("failed to load material %s: %w", materialID, err)
	}
	if err := material.ReceiveInventory(qty, event.ReceiptDate, event.ActorID()); err != nil {
		return err
	}
	if err := materials.Save(ctx, material); err != nil {
		return fmt.Errorf("failed to save material %s: %w", material.MaterialNumber, err)
	}
	return nil
}
