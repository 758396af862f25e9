package tensor_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/vkten/tensor"
)

func TestDataTypeConstants(t *testing.T) {
	tests := []struct {
		dtype tensor.DataType
		size  int
		name  string
	}{
		{tensor.Bool, 1, "bool"},
		{tensor.Int32, 4, "int32"},
		{tensor.UInt32, 4, "uint32"},
		{tensor.Float32, 4, "float32"},
		{tensor.Float64, 8, "float64"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.dtype.Size())
		assert.Equal(t, tt.name, tt.dtype.String())
	}
}

func TestTensorTypeConstants(t *testing.T) {
	assert.Equal(t, "Device", tensor.Device.String())
	assert.Equal(t, "Host", tensor.Host.String())
	assert.Equal(t, "Storage", tensor.Storage.String())
}

func TestToBytes(t *testing.T) {
	b := tensor.ToBytes([]int32{1, -1})
	require.Len(t, b, 8)
	assert.Nil(t, tensor.ToBytes([]float32(nil)))
}

func TestLoggerDefaultsToSilent(t *testing.T) {
	l := tensor.Logger()
	require.NotNil(t, l)
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	tensor.SetLogger(custom)
	defer tensor.SetLogger(nil)

	tensor.Logger().Debug("probe", "key", "val")
	assert.Contains(t, buf.String(), "probe")

	// nil restores the silent default.
	tensor.SetLogger(nil)
	require.NotNil(t, tensor.Logger())
	assert.False(t, tensor.Logger().Enabled(context.Background(), slog.LevelError))
}
