package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one (user, action, entityType, entityId, metadata) tuple
type AuditEntry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Metadata   map[string]any
	OccurredAt time.Time
}

// AuditSink accepts audit entries fire-and-forget. Implementations must not
// block the caller on downstream failures.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}
