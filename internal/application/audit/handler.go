// Package audit turns every domain event into an audit log entry.
package audit

import (
	"context"
	"encoding/json"

	"github.com/erp/procurement/internal/domain/shared"
	"go.uber.org/zap"
)

// Handler subscribes to all events and forwards them to the audit sink.
// It never fails: audit logging must not block event delivery.
type Handler struct {
	sink   shared.AuditSink
	logger *zap.Logger
}

// NewHandler creates a new audit handler
func NewHandler(sink shared.AuditSink, logger *zap.Logger) *Handler {
	return &Handler{sink: sink, logger: logger}
}

// HandlerName identifies the handler in idempotency keys
func (h *Handler) HandlerName() string {
	return "audit.recorder"
}

// EventTypes returns nil so the handler receives every event
func (h *Handler) EventTypes() []string {
	return nil
}

// Handle records the event as (actor, action, entity type, entity id, metadata)
func (h *Handler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.sink.Record(ctx, shared.AuditEntry{
		ActorID:    event.ActorID(),
		Action:     event.EventType(),
		EntityType: event.AggregateType(),
		EntityID:   event.AggregateID(),
		Metadata:   h.metadata(event),
		OccurredAt: event.OccurredAt(),
	})
	return nil
}

// metadata flattens the event payload, dropping the envelope fields already
// carried by the entry itself
func (h *Handler) metadata(event shared.DomainEvent) map[string]any {
	raw, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("audit metadata not serializable",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return map[string]any{"event_id": event.EventID().String()}
	}
	md := make(map[string]any)
	if err := json.Unmarshal(raw, &md); err != nil {
		md = make(map[string]any)
	}
	for _, k := range []string{"id", "type", "timestamp", "aggregate_id", "aggregate_type", "actor_id"} {
		delete(md, k)
	}
	md["event_id"] = event.EventID().String()
	return md
}

var _ shared.NamedEventHandler = (*Handler)(nil)
