package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func sqlOf(q string, rows int64) func() (string, int64) {
	return func() (string, int64) { return q, rows }
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)
	changed, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Warn, changed.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("error", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn)
		gl.Trace(ctx, time.Now(), sqlOf("UPDATE purchase_orders", 0), errors.New("deadlock"))
		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "sql error", recorded.All()[0].Message)
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn)
		gl.Trace(ctx, time.Now(), sqlOf("SELECT", 0), gormlogger.ErrRecordNotFound)
		assert.Zero(t, recorded.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))
		gl.Trace(ctx, time.Now().Add(-50*time.Millisecond), sqlOf("SELECT", 3), nil)
		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, zapcore.WarnLevel, recorded.All()[0].Level)
		assert.Contains(t, recorded.All()[0].Message, "slow sql")
	})

	t.Run("fast query below info is silent", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn)
		gl.Trace(ctx, time.Now(), sqlOf("SELECT", 1), nil)
		assert.Zero(t, recorded.Len())
	})

	t.Run("carries correlation fields", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Info)
		ctx := WithUserID(WithRequestID(ctx, "req-1"), "buyer")
		gl.Trace(ctx, time.Now(), sqlOf("SELECT", 1), nil)
		require.Equal(t, 1, recorded.Len())
		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "buyer", fields["user_id"])
	})

	t.Run("silent", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Silent)
		gl.Trace(ctx, time.Now(), sqlOf("SELECT", 1), errors.New("boom"))
		assert.Zero(t, recorded.Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
}

var _ gormlogger.Interface = (*GormLogger)(nil)
