package event

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher records the events raised by an aggregate save in the
// outbox, inside the transaction that persists the aggregate
type OutboxPublisher struct {
	serializer  *EventSerializer
	maxAttempts int
}

// NewOutboxPublisher creates an outbox publisher.
// maxAttempts <= 0 uses the default retry policy.
func NewOutboxPublisher(serializer *EventSerializer, maxAttempts int) *OutboxPublisher {
	return &OutboxPublisher{
		serializer:  serializer,
		maxAttempts: maxAttempts,
	}
}

// SaveEvents writes the events to the outbox through txProvider, which must
// be the *gorm.DB of the open transaction
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider any, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("outbox needs a *gorm.DB transaction, got %T", txProvider)
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", event.EventType(), err)
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload, p.maxAttempts))
	}
	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
