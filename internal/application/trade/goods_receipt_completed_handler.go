package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/trade"
	"go.uber.org/zap"
)

// GoodsReceiptCompletedHandler reconciles the purchase order of a completed
// receipt and posts the accepted quantities to inventory
type GoodsReceiptCompletedHandler struct {
	reconciler *ReconciliationService
	logger     *zap.Logger
}

// NewGoodsReceiptCompletedHandler creates a new handler for goods receipt completed events
func NewGoodsReceiptCompletedHandler(reconciler *ReconciliationService, logger *zap.Logger) *GoodsReceiptCompletedHandler {
	return &GoodsReceiptCompletedHandler{
		reconciler: reconciler,
		logger:     logger,
	}
}

// HandlerName identifies the handler in idempotency keys
func (h *GoodsReceiptCompletedHandler) HandlerName() string {
	return "trade.goods_receipt_completed"
}

// EventTypes returns the event types this handler is interested in
func (h *GoodsReceiptCompletedHandler) EventTypes() []string {
	return []string{trade.EventTypeGoodsReceiptCompleted}
}

// Handle reconciles first and posts inventory second. A cancelled purchase
// order keeps its quantities but the received stock is still posted.
func (h *GoodsReceiptCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*trade.GoodsReceiptCompletedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypeGoodsReceiptCompleted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeGoodsReceiptCompleted, event.EventType())
	}

	_, err := h.reconciler.Reconcile(ctx, completed.PurchaseOrderID, event.ActorID())
	var domainErr *shared.DomainError
	switch {
	case err == nil:
	case errors.As(err, &domainErr) && domainErr.Code == "PO_CANCELLED":
		h.logger.Warn("purchase order cancelled, skipping reconciliation",
			zap.String("event_id", event.EventID().String()),
			zap.String("receipt_number", completed.ReceiptNumber),
			zap.String("po_id", completed.PurchaseOrderID.String()),
		)
	default:
		return fmt.Errorf("failed to reconcile receipt %s: %w", completed.ReceiptNumber, err)
	}

	if err := h.reconciler.ApplyInventory(ctx, completed); err != nil {
		return fmt.Errorf("failed to post inventory of receipt %s: %w", completed.ReceiptNumber, err)
	}
	return nil
}

var _ shared.NamedEventHandler = (*GoodsReceiptCompletedHandler)(nil)
