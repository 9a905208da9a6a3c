package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: LevelWarn, Format: "text", Output: &buf})
	ctx := context.Background()

	logger.Info(ctx, "should not appear")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, nil, "should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestLoggerWithFieldsPersist(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: LevelDebug, Format: "text", Output: &buf})
	child := logger.With("asset", "index.md")

	child.Info(context.Background(), "processed")
	require.Contains(t, buf.String(), "asset=index.md")
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: LevelDebug, Format: "text", Output: &buf})
	scoped := logger.WithComponent("orchestrator")

	scoped.Error(context.Background(), errors.New("boom"), "batch failed")
	out := buf.String()
	assert.True(t, strings.Contains(out, "component=orchestrator"))
	assert.True(t, strings.Contains(out, "error=boom"))
}

func TestPerfLoggerEnd(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: LevelDebug, Format: "text", Output: &buf})
	perf := logger.StartOperation("batch")
	d := perf.End(context.Background())

	assert.GreaterOrEqual(t, d.Nanoseconds(), int64(0))
	assert.Contains(t, buf.String(), "operation=batch")
}
