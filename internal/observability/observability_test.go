package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"", slog.LevelInfo},
		{"xyzzy", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "parseLevel(%q)", tt.input)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"})

	logger.Info("dropped")
	logger.Warn("kept", "business", "ACME")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "ACME", rec["business"])
}

func TestMetrics_HandlerExposesCounters(t *testing.T) {
	m := NewMetrics()
	m.SalesRecorded.WithLabelValues("product", "paid").Inc()
	m.CoinsAwarded.WithLabelValues("record_sale").Add(5)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `paddy_sales_recorded_total{kind="product",payment_type="paid"} 1`)
	assert.Contains(t, rec.Body.String(), `paddy_coins_awarded_total{action="record_sale"} 5`)

	// A second instance must not panic on duplicate registration.
	assert.NotNil(t, NewMetrics())
}
