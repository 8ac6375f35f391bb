package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "orders.log")

	logger, err := New("orders", "test", path)
	require.NoError(t, err)
	logger.Info("order_created", zap.String("order_id", "CMD001"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"orders"`)
	assert.Contains(t, string(data), `"order_id":"CMD001"`)
}

func TestFromContextFallsBack(t *testing.T) {
	t.Parallel()

	assert.Same(t, zap.L(), FromContext(context.Background()))

	l := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
