package audit

import (
	"context"
	"testing"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) Record(ctx context.Context, entry shared.AuditEntry) {
	m.Called(ctx, entry)
}

func TestHandler_Handle(t *testing.T) {
	ctx := context.Background()
	sink := new(MockAuditSink)
	h := NewHandler(sink, zap.NewNop())

	receiptID := uuid.New()
	event := &trade.GoodsReceiptCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeGoodsReceiptCompleted, trade.AggregateTypeGoodsReceipt, receiptID, "clerk"),
		GoodsReceiptID:  receiptID,
		ReceiptNumber:   "GR-20260106-0001",
	}

	var recorded shared.AuditEntry
	sink.On("Record", ctx, mock.AnythingOfType("shared.AuditEntry")).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(shared.AuditEntry) }).
		Once()

	require.NoError(t, h.Handle(ctx, event))
	sink.AssertExpectations(t)

	assert.Equal(t, "clerk", recorded.ActorID)
	assert.Equal(t, trade.EventTypeGoodsReceiptCompleted, recorded.Action)
	assert.Equal(t, trade.AggregateTypeGoodsReceipt, recorded.EntityType)
	assert.Equal(t, receiptID, recorded.EntityID)
	assert.Equal(t, "GR-20260106-0001", recorded.Metadata["receipt_number"])
	assert.Equal(t, event.EventID().String(), recorded.Metadata["event_id"])
	assert.NotContains(t, recorded.Metadata, "actor_id")
}

func TestHandler_SubscribesToEverything(t *testing.T) {
	h := NewHandler(new(MockAuditSink), zap.NewNop())
	assert.Empty(t, h.EventTypes())
	assert.Equal(t, "audit.recorder", h.HandlerName())
}
