package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "info")

	logger.Debug("hidden")
	logger.Info("brief evaluated", "flight", "CA123")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "brief evaluated", line["msg"])
	assert.Equal(t, "CA123", line["flight"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "text", "warn")

	logger.Info("hidden")
	logger.Warn("report lookup failed", "station", "ZBAA")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "station=ZBAA")
}

func TestNewUnregisteredMetrics_Independent(t *testing.T) {
	m1 := NewUnregisteredMetrics()
	m2 := NewUnregisteredMetrics()

	m1.BriefsEvaluated.WithLabelValues("medium").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m1.BriefsEvaluated.WithLabelValues("medium")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m2.BriefsEvaluated.WithLabelValues("medium")))
}

func TestMetrics_RegisterOnFreshRegistry(t *testing.T) {
	m := NewUnregisteredMetrics()
	reg := prometheus.NewRegistry()

	require.NoError(t, reg.Register(m.MessagesConsumed))
	require.NoError(t, reg.Register(m.TransformErrors))
	require.NoError(t, reg.Register(m.ReportCache))
}
