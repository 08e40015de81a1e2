package event

import (
	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/domain/trade"
)

type eventGroup struct {
	factory EventFactory
	types   []string
}

func procurementEvents() []eventGroup {
	return []eventGroup{
		{
			factory: func() shared.DomainEvent { return &partner.SupplierEvent{} },
			types:   partner.SupplierEventTypes,
		},
		{
			factory: func() shared.DomainEvent { return &catalog.CategoryEvent{} },
			types: []string{
				catalog.EventTypeCategoryCreated,
				catalog.EventTypeCategoryUpdated,
				catalog.EventTypeCategoryMoved,
				catalog.EventTypeCategoryActivated,
				catalog.EventTypeCategoryDeactivated,
				catalog.EventTypeCategoryRemoved,
			},
		},
		{
			factory: func() shared.DomainEvent { return &catalog.MaterialEvent{} },
			types: []string{
				catalog.EventTypeMaterialCreated,
				catalog.EventTypeMaterialUpdated,
				catalog.EventTypeMaterialStatusChanged,
				catalog.EventTypeMaterialRemoved,
			},
		},
		{
			factory: func() shared.DomainEvent { return &sourcing.QuotationEvent{} },
			types: []string{
				sourcing.EventTypeQuotationCreated,
				sourcing.EventTypeQuotationSent,
				sourcing.EventTypeQuotationCompleted,
				sourcing.EventTypeQuotationCancelled,
				sourcing.EventTypeQuotationRemoved,
			},
		},
		{
			factory: func() shared.DomainEvent { return &sourcing.QuotationConvertedEvent{} },
			types:   []string{sourcing.EventTypeQuotationConverted},
		},
		{
			factory: func() shared.DomainEvent { return &trade.PurchaseOrderEvent{} },
			types: []string{
				trade.EventTypePurchaseOrderCreated,
				trade.EventTypePurchaseOrderSubmitted,
				trade.EventTypePurchaseOrderApproved,
				trade.EventTypePurchaseOrderRejected,
				trade.EventTypePurchaseOrderConfirmed,
				trade.EventTypePurchaseOrderCancelled,
				trade.EventTypePurchaseOrderReceived,
				trade.EventTypePurchaseOrderCompleted,
				trade.EventTypePurchaseOrderRemoved,
			},
		},
		{
			factory: func() shared.DomainEvent { return &trade.PurchaseOrderSentEvent{} },
			types:   []string{trade.EventTypePurchaseOrderSent},
		},
		{
			factory: func() shared.DomainEvent { return &trade.GoodsReceiptCompletedEvent{} },
			types:   []string{trade.EventTypeGoodsReceiptCompleted},
		},
	}
}

// ProcurementEventTypes lists every event type the procurement aggregates raise
func ProcurementEventTypes() []string {
	var types []string
	for _, g := range procurementEvents() {
		types = append(types, g.types...)
	}
	return types
}

// RegisterAllEvents registers every procurement event with the serializer so
// the outbox processor can decode stored payloads
func RegisterAllEvents(serializer *EventSerializer) error {
	for _, g := range procurementEvents() {
		if err := serializer.Register(g.factory, g.types...); err != nil {
			return err
		}
	}
	return nil
}
