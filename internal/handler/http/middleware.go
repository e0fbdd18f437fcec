package http

import (
	"mime"
	"net/http"

	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/httputil"
)

// ContentTypeJSON rejects request bodies that declare a media type other
// than application/json. A missing Content-Type is accepted.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" && hasBody(r) {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || mediaType != "application/json" {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorResponse{
					Code:    apperrors.Code(http.StatusUnsupportedMediaType),
					Message: "Content-Type must be application/json",
					Errors:  []httputil.ErrorDetail{{Message: "Content-Type must be application/json"}},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return r.ContentLength > 0
	}
}
