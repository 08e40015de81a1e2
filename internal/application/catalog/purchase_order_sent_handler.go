package catalog

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/trade"
	"go.uber.org/zap"
)

// PurchaseOrderSentHandler handles PurchaseOrderSent and books the ordered
// quantities as on order, converted into each material's base unit
type PurchaseOrderSentHandler struct {
	materialRepo catalog.MaterialRepository
	logger       *zap.Logger
}

// NewPurchaseOrderSentHandler creates a new handler for purchase order sent events
func NewPurchaseOrderSentHandler(materialRepo catalog.MaterialRepository, logger *zap.Logger) *PurchaseOrderSentHandler {
	return &PurchaseOrderSentHandler{
		materialRepo: materialRepo,
		logger:       logger,
	}
}

// HandlerName identifies the handler in idempotency keys
func (h *PurchaseOrderSentHandler) HandlerName() string {
	return "catalog.purchase_order_sent"
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderSentHandler) EventTypes() []string {
	return []string{trade.EventTypePurchaseOrderSent}
}

// Handle adds every ordered line to the material's on-order quantity
func (h *PurchaseOrderSentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	sent, ok := event.(*trade.PurchaseOrderSentEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypePurchaseOrderSent),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypePurchaseOrderSent, event.EventType())
	}

	for _, line := range sent.Lines {
		material, err := h.materialRepo.FindByID(ctx, line.MaterialID)
		if err != nil {
			if shared.IsKind(err, shared.KindReferential) {
				h.logger.Warn("ordered material no longer exists, skipping on-order booking",
					zap.String("event_id", event.EventID().String()),
					zap.String("po_number", sent.PONumber),
					zap.String("material_id", line.MaterialID.String()),
				)
				continue
			}
			return fmt.Errorf("failed to load material %s: %w", line.MaterialID, err)
		}

		quantity, err := material.ConvertToBaseUOM(line.Quantity, line.UOM)
		if err != nil {
			h.logger.Warn("ordered unit is unknown to material, booking quantity as base units",
				zap.String("po_number", sent.PONumber),
				zap.String("material_number", material.MaterialNumber),
				zap.String("uom", line.UOM),
			)
			quantity = line.Quantity
		}
		if err := material.AddOnOrder(quantity, event.ActorID()); err != nil {
			return err
		}
		if err := h.materialRepo.Save(ctx, material); err != nil {
			return fmt.Errorf("failed to save material %s: %w", material.MaterialNumber, err)
		}
	}

	h.logger.Info("purchase order quantities booked on order",
		zap.String("po_number", sent.PONumber),
		zap.Int("lines", len(sent.Lines)),
	)
	return nil
}

var _ shared.NamedEventHandler = (*PurchaseOrderSentHandler)(nil)
