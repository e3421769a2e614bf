package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"debug": slog.LevelInfo,
	}

	for raw, want := range tests {
		t.Setenv("LOG_LEVEL", raw)
		assert.Equal(t, want, LogLevel(), "LOG_LEVEL=%q", raw)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	var buf bytes.Buffer
	logger := WithCardID(WithExecutionID(WithPipelineID(NewLogger(&buf), "p1"), "e1"), "c1")
	logger.Debug("hidden")
	logger.Info("card executed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "card executed", entry["msg"])
	assert.Equal(t, "p1", entry["pipeline_id"])
	assert.Equal(t, "e1", entry["execution_id"])
	assert.Equal(t, "c1", entry["card_id"])
}

func TestNewLogger_Text(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")

	var buf bytes.Buffer
	NewLogger(&buf).Warn("slow card", "ms", 12)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "ms=12")
}

func TestFromContext(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))
	assert.Same(t, slog.Default(), FromContextOr(context.Background(), nil))

	own := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), own)
	assert.Same(t, own, FromContext(ctx))
	assert.Same(t, own, FromContextOr(ctx, fallback))
}
