package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates logger with default config", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("creates json logger for production", func(t *testing.T) {
		logger, err := New(ProductionConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Level = "verbose"
		logger, err := New(cfg)
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zap.DebugLevel))
		assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	})
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "testing"} {
		logger, err := NewForEnvironment(env)
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}

func TestContextHelpers(t *testing.T) {
	base := zap.NewNop()

	t.Run("logger round trips through context", func(t *testing.T) {
		ctx := WithContext(context.Background(), base)
		assert.Equal(t, base, FromContext(ctx))
	})

	t.Run("missing logger yields no-op", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
	})

	t.Run("ids are stored and retrievable", func(t *testing.T) {
		ctx := context.Background()
		ctx, _ = WithRequestID(ctx, base, "req-1")
		ctx, _ = WithTenantID(ctx, base, "tenant-1")
		ctx, _ = WithUserID(ctx, base, "user-1")

		assert.Equal(t, "req-1", GetRequestID(ctx))
		assert.Equal(t, "tenant-1", GetTenantID(ctx))
		assert.Equal(t, "user-1", GetUserID(ctx))
	})

	t.Run("L returns usable logger without span", func(t *testing.T) {
		ctx := WithContext(context.Background(), base)
		require.NotNil(t, L(ctx))
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
