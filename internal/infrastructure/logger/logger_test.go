package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lababil/pos/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{Name: "lababil-pos"},
		Log: config.LogConfig{Level: "warn", Format: "json", Output: "stderr"},
	}

	got := FromAppConfig(cfg)

	assert.Equal(t, "warn", got.Level)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, "stderr", got.Output)
	assert.Equal(t, "lababil-pos", got.Service)
	assert.Equal(t, defaultTimeFormat, got.TimeFormat)
}

func TestNew(t *testing.T) {
	t.Run("stdout console", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("file output with service field", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pos.log")
		logger, err := New(&Config{Level: "info", Format: "json", Output: path, Service: "lababil-pos"})
		require.NoError(t, err)

		logger.Info("Sale committed", zap.String("receipt_number", "0001/LS/22092025"))
		Sync(logger)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
		assert.Equal(t, "Sale committed", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "lababil-pos", entry["service"])
		assert.Equal(t, "0001/LS/22092025", entry["receipt_number"])
	})

	t.Run("unwritable output", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "pos.log")})
		assert.Error(t, err)
	})
}

func TestNewForEnvironment(t *testing.T) {
	prod, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))

	dev, err := NewForEnvironment("development")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestCreateWriter(t *testing.T) {
	for _, output := range []string{"", "stdout", "STDERR"} {
		w, err := createWriter(output)
		require.NoError(t, err)
		assert.NotNil(t, w)
	}
}
