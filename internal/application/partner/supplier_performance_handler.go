package partner

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/trade"
	"go.uber.org/zap"
)

// SupplierPerformanceHandler handles PurchaseOrderCompleted and folds the
// fulfilled order into the supplier's delivery and quality metrics
type SupplierPerformanceHandler struct {
	supplierRepo partner.SupplierRepository
	orderRepo    trade.PurchaseOrderRepository
	receiptRepo  trade.GoodsReceiptRepository
	logger       *zap.Logger
}

// NewSupplierPerformanceHandler creates a new handler for purchase order completed events
func NewSupplierPerformanceHandler(
	supplierRepo partner.SupplierRepository,
	orderRepo trade.PurchaseOrderRepository,
	receiptRepo trade.GoodsReceiptRepository,
	logger *zap.Logger,
) *SupplierPerformanceHandler {
	return &SupplierPerformanceHandler{
		supplierRepo: supplierRepo,
		orderRepo:    orderRepo,
		receiptRepo:  receiptRepo,
		logger:       logger,
	}
}

// HandlerName identifies the handler in idempotency keys
func (h *SupplierPerformanceHandler) HandlerName() string {
	return "partner.supplier_performance"
}

// EventTypes returns the event types this handler is interested in
func (h *SupplierPerformanceHandler) EventTypes() []string {
	return []string{trade.EventTypePurchaseOrderCompleted}
}

// Handle records delivery punctuality and quality of the completed order
func (h *SupplierPerformanceHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*trade.PurchaseOrderEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypePurchaseOrderCompleted, event.EventType())
	}

	order, err := h.orderRepo.FindByID(ctx, completed.PurchaseOrderID)
	if err != nil {
		return fmt.Errorf("failed to load purchase order %s: %w", completed.PONumber, err)
	}
	receipts, err := h.receiptRepo.FindCompletedByPurchaseOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load goods receipts of %s: %w", order.PONumber, err)
	}
	supplier, err := h.supplierRepo.FindByID(ctx, order.SupplierID)
	if err != nil {
		if shared.IsKind(err, shared.KindReferential) {
			h.logger.Warn("supplier of completed purchase order no longer exists",
				zap.String("event_id", event.EventID().String()),
				zap.String("po_number", order.PONumber),
				zap.String("supplier_id", order.SupplierID.String()),
			)
			return nil
		}
		return fmt.Errorf("failed to load supplier: %w", err)
	}

	onTime := order.ExpectedDeliveryDate == nil || order.ActualDeliveryDate == nil ||
		!order.ActualDeliveryDate.After(*order.ExpectedDeliveryDate)
	qualityPassed := true
	for i := range receipts {
		if receipts[i].TotalRejected.IsPositive() {
			qualityPassed = false
			break
		}
	}

	supplier.RecordPerformance(order.TotalAmount, onTime, qualityPassed)
	if err := h.supplierRepo.Save(ctx, supplier); err != nil {
		return fmt.Errorf("failed to save supplier performance: %w", err)
	}

	h.logger.Info("supplier performance recorded",
		zap.String("supplier_number", supplier.SupplierNumber),
		zap.String("po_number", order.PONumber),
		zap.Bool("on_time", onTime),
		zap.Bool("quality_passed", qualityPassed),
		zap.String("rating", supplier.Performance.Rating.String()),
	)
	return nil
}

var _ shared.NamedEventHandler = (*SupplierPerformanceHandler)(nil)
