package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/shophub-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNewLogger_InjectsRequestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &config.OTLPConfig{ServiceName: "shophub-api", Environment: "test"}, slog.LevelInfo)

	ctx := WithHTTPRoute(context.Background(), "/api/v1/cart")
	ctx = context.WithValue(ctx, chimiddleware.RequestIDKey, "req-42")
	logger.InfoContext(ctx, "Cart loaded")
	logger.DebugContext(ctx, "dropped")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "Cart loaded", record["msg"])
	assert.Equal(t, "/api/v1/cart", record["http.route"])
	assert.Equal(t, "req-42", record["request_id"])
	assert.Equal(t, "shophub-api", record["service.name"])
	assert.Equal(t, "test", record["environment"])
}

func TestLocalTelemetry_ServesMetrics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	telem, err := newLocalTelemetry(&config.OTLPConfig{ServiceName: "shophub-api", Environment: "test"}, logger)
	require.NoError(t, err)
	defer telem.Shutdown(context.Background())

	counter, err := telem.MeterProvider.Meter("test").Int64Counter("cart.operations")
	require.NoError(t, err)
	counter.Add(context.Background(), 3, metric.WithAttributes())

	rec := httptest.NewRecorder()
	telem.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart_operations_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
