package idempotency

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/httputil"
)

// Header is the request header carrying the client-chosen key.
const Header = "Idempotency-Key"

// ReplayHeader is set on responses served from the store.
const ReplayHeader = "Idempotent-Replayed"

// MaxKeyLength bounds the accepted Idempotency-Key length.
const MaxKeyLength = 255

// ReservationTTL bounds how long a key stays reserved by a request that
// never completes, for example after a crash.
const ReservationTTL = 5 * time.Minute

// Middleware replays stored responses for POST requests that carry an
// Idempotency-Key header. The key is reserved before the handler runs, so
// concurrent requests with the same key get 409 instead of running twice.
// Only 2xx responses are stored; any other outcome releases the key so a
// request that failed validation can be corrected and retried with the same
// key. Requests without the header, and other methods, pass through
// untouched.
func Middleware(store Store, ttl time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	reserveFor := min(ttl, ReservationTTL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(Header)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > MaxKeyLength {
				httputil.WriteValidationError(w, r, errors.New("Idempotency-Key header is too long"))
				return
			}

			ctx := r.Context()
			storeKey := scopedKey(r, key)
			rec, err := store.Get(ctx, storeKey)
			switch {
			case err == nil:
				respond(w, r, rec, logger)
				return
			case !errors.Is(err, ErrNotFound):
				// The store is an optimization; serve the request without it.
				logger.WarnContext(ctx, "idempotency lookup failed",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			owned, err := store.Reserve(ctx, storeKey, reserveFor)
			if err != nil {
				logger.WarnContext(ctx, "idempotency reservation failed",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
			if !owned {
				rec, err := store.Get(ctx, storeKey)
				if err != nil {
					rec = &Record{Pending: true}
				}
				respond(w, r, rec, logger)
				return
			}

			bg := context.WithoutCancel(ctx)
			stored := false
			defer func() {
				if stored {
					return
				}
				if err := store.Release(bg, storeKey); err != nil {
					logger.WarnContext(ctx, "idempotency release failed",
						slog.String("error", err.Error()))
				}
			}()

			cw := &capturingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)

			if cw.status < 200 || cw.status >= 300 {
				return
			}
			saved := &Record{
				Status:      cw.status,
				ContentType: cw.Header().Get("Content-Type"),
				Body:        cw.body.Bytes(),
				StoredAt:    time.Now().UTC(),
			}
			if err := store.Complete(bg, storeKey, saved, ttl); err != nil {
				logger.WarnContext(ctx, "idempotency save failed",
					slog.String("error", err.Error()))
				return
			}
			stored = true
		})
	}
}

// respond replays a completed record, or answers 409 while the first request
// holding the key is still running.
func respond(w http.ResponseWriter, r *http.Request, rec *Record, logger *slog.Logger) {
	if rec.Pending {
		httputil.WriteError(w, r, apperrors.Conflict("a request with this Idempotency-Key is still being processed"), logger)
		return
	}
	replay(w, rec)
}

// scopedKey binds a client key to the route it was used on.
func scopedKey(r *http.Request, key string) string {
	sum := sha256.Sum256([]byte(r.Method + " " + r.URL.Path + " " + key))
	return hex.EncodeToString(sum[:])
}

func replay(w http.ResponseWriter, rec *Record) {
	if rec.ContentType != "" {
		w.Header().Set("Content-Type", rec.ContentType)
	}
	w.Header().Set(ReplayHeader, "true")
	w.WriteHeader(rec.Status)
	_, _ = w.Write(rec.Body)
}

type capturingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (w *capturingWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
