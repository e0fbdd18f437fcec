package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/catalog/pkg/logger"
)

// ActorHeaders name the request headers that identify who performs a
// catalog change, in order of precedence. Authentication happens upstream.
var ActorHeaders = []string{"X-Actor-ID", "X-User-ID"}

// RequestLogger stores a request-scoped logger, enriched with correlation_id,
// actor, trace_id and span_id, in the request context. Mount it after
// RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			for _, h := range ActorHeaders {
				if actor := r.Header.Get(h); actor != "" {
					ctx = logger.WithActor(ctx, actor)
					break
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
