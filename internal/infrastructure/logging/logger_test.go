package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/lorrc/task-analytics/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_AddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
		ServiceName: "task-analytics",
		Environment: "test",
	})

	ctx := logging.WithRequestID(context.Background(), "req-1")
	ctx = logging.WithReport(ctx, "outstanding")
	ctx = logging.WithSection(ctx, "criticalTasks")
	logger.InfoContext(ctx, "section built")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "section built", entry["msg"])
	assert.Equal(t, "task-analytics", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "outstanding", entry["report"])
	assert.Equal(t, "criticalTasks", entry["section"])
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "warn", Output: &buf})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestGetRequestID(t *testing.T) {
	assert.Equal(t, "", logging.GetRequestID(context.Background()))
	assert.Equal(t, "abc", logging.GetRequestID(logging.WithRequestID(context.Background(), "abc")))
}
