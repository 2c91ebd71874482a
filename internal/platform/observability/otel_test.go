package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", slog.Int("id", 7))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, float64(7), entry["id"])
}

func TestInit_ProvidesWorkingInstruments(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "stdout")
	ctx := context.Background()

	instruments, shutdown, err := Init(ctx, "user-management-api-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	counter, err := instruments.Meter("test").Int64Counter("users.test.counter")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	var rm metricdata.ResourceMetrics
	require.NoError(t, instruments.MetricReader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	assert.Equal(t, "users.test.counter", rm.ScopeMetrics[0].Metrics[0].Name)

	_, span := instruments.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestInstruments_NilSafe(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
}
