package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestLivenessHandler(t *testing.T) {
	h := NewHandler("1.2.3")
	h.Register("postgres", func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Empty(t, resp.Checks)
}

func TestReadinessHandler_AllUp(t *testing.T) {
	h := NewHandler("dev")
	h.Register("postgres", func(context.Context) error { return nil })
	h.Register("redis", func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Len(t, resp.Checks, 2)
	assert.Equal(t, StatusUp, resp.Checks["redis"].Status)
}

func TestReadinessHandler_OneDown(t *testing.T) {
	h := NewHandler("dev")
	h.Register("postgres", func(context.Context) error { return nil })
	h.Register("kafka", func(context.Context) error { return errors.New("all brokers unreachable") })

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, "all brokers unreachable", resp.Checks["kafka"].Error)
	assert.Equal(t, StatusUp, resp.Checks["postgres"].Status)
}

func TestReadinessHandler_NoCheckers(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler("dev").ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheck_PassesDeadline(t *testing.T) {
	h := NewHandler("dev")
	var hasDeadline bool
	h.Register("slow", func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	h.Check(context.Background())
	assert.True(t, hasDeadline)
}

func TestNames_Sorted(t *testing.T) {
	h := NewHandler("dev")
	h.Register("redis", nil)
	h.Register("kafka", nil)
	h.Register("postgres", nil)
	assert.Equal(t, []string{"kafka", "postgres", "redis"}, h.Names())
}
