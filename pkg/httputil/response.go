package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/logger"
	"github.com/utafrali/catalog/pkg/validator"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Errors    []ErrorDetail     `json:"errors"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ErrorDetail is one entry of ErrorResponse.Errors.
type ErrorDetail struct {
	Message string `json:"message"`
}

// MessageCarrier is implemented by errors that hold an ordered list of
// user-facing messages, such as domain validation failures.
type MessageCarrier interface {
	error
	Messages() []string
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteNoContent writes an empty 204 response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes a standardized error response based on the error type.
// Message carriers keep their message order in Errors. It prefers the
// request-scoped logger from context over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	var carrier MessageCarrier
	if errors.As(err, &carrier) {
		status := apperrors.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			status = http.StatusUnprocessableEntity
		}
		WriteJSON(w, status, ErrorResponse{
			Code:      apperrors.Code(status),
			Message:   carrier.Error(),
			Errors:    details(carrier.Messages()),
			RequestID: requestID,
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteJSON(w, appErr.Status, ErrorResponse{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Errors:    details([]string{appErr.Message}),
			RequestID: requestID,
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	message := "an internal error occurred"
	switch status {
	case http.StatusNotFound:
		message = "resource not found"
	case http.StatusConflict:
		message = "resource already exists"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		message = err.Error()
	case http.StatusServiceUnavailable:
		message = "service unavailable"
	case http.StatusGatewayTimeout:
		message = "request timed out"
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, ErrorResponse{
		Code:      apperrors.Code(status),
		Message:   message,
		Errors:    details([]string{message}),
		RequestID: requestID,
	})
}

// WriteValidationError writes a 400 response for a malformed request.
// Validator failures are reported field by field.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:      "VALIDATION_ERROR",
			Message:   "request validation failed",
			Errors:    details(valErr.Messages()),
			Fields:    valErr.Fields(),
			RequestID: requestID,
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:      "INVALID_INPUT",
		Message:   err.Error(),
		Errors:    details([]string{err.Error()}),
		RequestID: requestID,
	})
}

func details(messages []string) []ErrorDetail {
	out := make([]ErrorDetail, 0, len(messages))
	for _, m := range messages {
		out = append(out, ErrorDetail{Message: m})
	}
	return out
}
