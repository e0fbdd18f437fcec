package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/utafrali/catalog/pkg/httputil"
	"github.com/utafrali/catalog/pkg/logger"
)

func newTestLogger(w *bytes.Buffer) *slog.Logger {
	return logger.NewWithWriter("catalog-test", "debug", w)
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		lines = append(lines, m)
	}
	return lines
}

// --- Recovery ---

func TestRecovery_ReturnsInternalError(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRecovery_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	rec := httptest.NewRecorder()
	Recovery(newTestLogger(&buf))(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, buf.String())
}

// --- RequestLogging ---

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/genres", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "http request", lines[0]["msg"])
	assert.Equal(t, float64(http.StatusCreated), lines[0]["status"])
	assert.Equal(t, "INFO", lines[0]["level"])
}

func TestRequestLogging_KeepsIncomingCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/genres", nil)
	req.Header.Set(CorrelationIDHeader, "corr-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "corr-42", rec.Header().Get(CorrelationIDHeader))
	assert.Equal(t, "corr-42", logLines(t, &buf)[0]["correlation_id"])
}

func TestRequestLogging_LevelFollowsStatus(t *testing.T) {
	for status, level := range map[int]string{
		http.StatusUnprocessableEntity: "WARN",
		http.StatusInternalServerError: "ERROR",
	} {
		var buf bytes.Buffer
		h := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, level, logLines(t, &buf)[0]["level"])
	}
}

func TestRequestLogging_SkipsPaths(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogging(newTestLogger(&buf), "/health/live")(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(CorrelationIDHeader))
	assert.Empty(t, buf.String())
}

// --- RequestLogger ---

func TestRequestLogger_EnrichesWithActorAndCorrelation(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handler log")
	}))

	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	req := httptest.NewRequest(http.MethodPut, "/categories/1", nil).WithContext(ctx)
	req.Header.Set("X-User-ID", "user-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "corr-1", lines[0]["correlation_id"])
	assert.Equal(t, "user-7", lines[0]["actor"])
}

func TestRequestLogger_ActorHeaderPrecedence(t *testing.T) {
	var actor string
	h := RequestLogger(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = logger.ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Actor-ID", "svc-importer")
	req.Header.Set("X-User-ID", "user-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "svc-importer", actor)
}

// --- PrometheusMetrics ---

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("catalog-metrics-test"))
	r.Get("/categories/{id}", okHandler)

	labels := []string{"catalog-metrics-test", http.MethodGet, "/categories/{id}", "200"}
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(labels...))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/categories/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/categories/def", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(labels...)))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("catalog-metrics-test")))
}

func TestPrometheusMetrics_OutsideChi(t *testing.T) {
	h := PrometheusMetrics("catalog-plain-test")(http.HandlerFunc(okHandler))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(
		httpRequestsTotal.WithLabelValues("catalog-plain-test", http.MethodGet, "unknown", "200")))
}

// --- Tracing ---

func setupTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return exporter
}

func TestTracing_NamesSpanAfterRoute(t *testing.T) {
	exporter := setupTracer(t)

	r := chi.NewRouter()
	r.Use(Tracing())
	r.Get("/genres/{id}", okHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/genres/g-1", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /genres/{id}", spans[0].Name)
	assert.NotEmpty(t, rec.Header().Get("traceparent"))
}

func TestTracing_ContinuesInboundTrace(t *testing.T) {
	exporter := setupTracer(t)

	h := Tracing()(http.HandlerFunc(okHandler))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	h.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
}

func TestTracing_ServerErrorSetsStatus(t *testing.T) {
	exporter := setupTracer(t)

	h := Tracing()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

// --- CORS ---

func TestCORS_Wildcard(t *testing.T) {
	h := CORS(DefaultCORSConfig())(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}})(http.HandlerFunc(okHandler))

	allowed := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	h.ServeHTTP(allowed, req)
	assert.Equal(t, "https://admin.example.com", allowed.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", allowed.Header().Get("Vary"))

	denied := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	h.ServeHTTP(denied, req)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := CORS(DefaultCORSConfig())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/genres", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}
