package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, cfg := range []*Config{
		nil,
		DefaultConfig(),
		{Level: "debug", Format: "json", Output: "stderr", TimeFormat: "epoch"},
		{Level: "warn", Format: "json", Output: "stdout", TimeFormat: "2006-01-02"},
	} {
		l, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procurement.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info("purchase order created", zap.String("po_number", "PO-20260106-001"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "PO-20260106-001")
}

func TestNew_UnwritableFile(t *testing.T) {
	_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestL(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	event := shared.NewBaseDomainEvent("GoodsReceiptCompleted", "GoodsReceipt", uuid.New(), "clerk")

	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-9")
	ctx = WithUserID(ctx, "clerk")
	ctx = WithEvent(ctx, &event)
	L(ctx).Info("handled")

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "clerk", fields["user_id"])
	assert.Equal(t, event.ID.String(), fields["event_id"])
	assert.Equal(t, "GoodsReceiptCompleted", fields["event_type"])
}

func TestFromContext_Missing(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, Fields(context.Background()))
}
