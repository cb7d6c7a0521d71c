package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spreadcli/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestTraceID(t *testing.T) {
	t.Run("round trip through context", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "abc-123")
		assert.Equal(t, "abc-123", GetTraceID(ctx))
	})

	t.Run("absent trace ID is empty", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
	})

	t.Run("EnsureTraceID generates when missing", func(t *testing.T) {
		ctx := EnsureTraceID(context.Background())
		assert.NotEmpty(t, GetTraceID(ctx))
	})

	t.Run("EnsureTraceID keeps an existing ID", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "keep-me")
		ctx = EnsureTraceID(ctx)
		assert.Equal(t, "keep-me", GetTraceID(ctx))
	})
}

func TestInitializeLogger(t *testing.T) {
	t.Run("file output creates the log file", func(t *testing.T) {
		ResetLoggerForTesting()
		defer ResetLoggerForTesting()

		path := filepath.Join(t.TempDir(), "logs", "test.log")
		logger, err := InitializeLogger(config.LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: path,
		})
		require.NoError(t, err)
		require.NotNil(t, logger)

		logger.Info("hello")
		require.NoError(t, CloseLogFile())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello")
	})

	t.Run("console output needs no file", func(t *testing.T) {
		ResetLoggerForTesting()
		defer ResetLoggerForTesting()

		logger, err := InitializeLogger(config.LoggingConfig{
			Level:  "debug",
			Format: "text",
			Output: "console",
		})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})
}

func TestLoggerFromContext(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	ctx := WithTraceID(context.Background(), "trace-1")
	logger := LoggerFromContext(ctx)
	assert.NotNil(t, logger)
}
