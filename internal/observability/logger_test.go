package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTextLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, "warn")

	logger.Info("dropped")
	assert.Empty(t, buf.String())
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))

	logger.Warn("kept", "error", "boom")
	assert.Contains(t, buf.String(), "msg=kept")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestNewTextLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, "bogus")

	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewTextLogger_LeavesDefaultAlone(t *testing.T) {
	before := slog.Default()
	NewTextLogger(&bytes.Buffer{}, "debug")
	assert.Same(t, before, slog.Default())
}
