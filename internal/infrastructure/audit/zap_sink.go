// Package audit provides the audit log sink used by the audit event handler.
package audit

import (
	"context"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ZapSink writes audit entries as structured log lines on a dedicated logger.
// Record never returns an error; write failures are reported by zap's ErrorOutput.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink writing to a child "audit" logger
func NewZapSink(l *zap.Logger) *ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapSink{logger: l.Named("audit")}
}

// Record writes one (user, action, entity type, entity id, metadata) entry
func (s *ZapSink) Record(ctx context.Context, entry shared.AuditEntry) {
	fields := []zap.Field{
		zap.String("actor_id", entry.ActorID),
		zap.String("action", entry.Action),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID.String()),
		zap.Time("occurred_at", entry.OccurredAt),
	}
	if len(entry.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", entry.Metadata))
	}
	if id := logger.GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	s.logger.Info("audit", fields...)
}

var _ shared.AuditSink = (*ZapSink)(nil)
