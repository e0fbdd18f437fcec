package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/logger"
	"github.com/utafrali/catalog/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type messagesErr struct {
	msgs []string
	kind error
}

func (e *messagesErr) Error() string      { return strings.Join(e.msgs, "; ") }
func (e *messagesErr) Messages() []string { return e.msgs }
func (e *messagesErr) Unwrap() error      { return e.kind }

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// --- WriteJSON ---

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}

func TestWriteNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

// --- WriteError ---

func TestWriteError_MessageCarrierKeepsOrder(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/genres", nil)

	err := &messagesErr{msgs: []string{"Some categories could not be found: 789", "'name' should not be null"}, kind: apperrors.ErrUnprocessable}
	WriteError(rec, req, err, testLogger())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", resp.Code)
	assert.Equal(t, []ErrorDetail{
		{Message: "Some categories could not be found: 789"},
		{Message: "'name' should not be null"},
	}, resp.Errors)
}

func TestWriteError_MessageCarrierNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/categories/1", nil)

	err := &messagesErr{msgs: []string{"Category with ID 1 not found"}, kind: apperrors.ErrNotFound}
	WriteError(rec, req, fmt.Errorf("get: %w", err), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.Equal(t, "Category with ID 1 not found", resp.Message)
}

func TestWriteError_MessageCarrierWithoutKindIs422(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", nil)

	WriteError(rec, req, &messagesErr{msgs: []string{"bad"}}, testLogger())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, apperrors.NotFound("category", "abc-123"), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.Len(t, resp.Errors, 1)
}

func TestWriteError_Sentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{apperrors.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{apperrors.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{apperrors.ErrTimeout, http.StatusGatewayTimeout, "TIMEOUT"},
		{fmt.Errorf("something unexpected"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			WriteError(rec, req, tt.err, testLogger())

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestWriteError_InternalErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, fmt.Errorf("connection refused"), testLogger())

	resp := decodeError(t, rec)
	assert.Equal(t, "an internal error occurred", resp.Message)
	assert.NotContains(t, resp.Message, "refused")
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(logger.WithCorrelationID(context.Background(), "corr-123"))

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	assert.Equal(t, "corr-123", decodeError(t, rec).RequestID)
}

// --- WriteValidationError ---

func TestWriteValidationError_ValidatorError(t *testing.T) {
	type body struct {
		Name string `json:"name" validate:"required"`
	}
	verr := validator.Validate(body{})
	require.Error(t, verr)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, httptest.NewRequest(http.MethodPost, "/", nil), verr)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, "is required", resp.Fields["name"])
	assert.Equal(t, []ErrorDetail{{Message: "field 'name' is required"}}, resp.Errors)
}

func TestWriteValidationError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, httptest.NewRequest(http.MethodPost, "/", nil), fmt.Errorf("decode request body: EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Code)
	assert.Equal(t, "decode request body: EOF", resp.Message)
}
