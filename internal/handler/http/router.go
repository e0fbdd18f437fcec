package http

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/catalog/internal/usecase"
	"github.com/utafrali/catalog/pkg/health"
	"github.com/utafrali/catalog/pkg/idempotency"
	"github.com/utafrali/catalog/pkg/middleware"
)

// ServiceName labels the catalog's HTTP metrics.
const ServiceName = "catalog"

// RouterOptions holds the optional parts of the router.
type RouterOptions struct {
	// RequestTimeout bounds handler execution. Zero means 30s.
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig

	// IdempotencyStore enables Idempotency-Key replay on POST when set.
	IdempotencyStore idempotency.Store
	IdempotencyTTL   time.Duration

	// PprofAllowlist mounts /debug/pprof for these networks when non-empty.
	PprofAllowlist []*net.IPNet
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	categories *usecase.Categories,
	genres *usecase.Genres,
	healthHandler *health.Handler,
	opts RouterOptions,
	logger *slog.Logger,
) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(opts.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(opts.RequestTimeout))
	r.Use(middleware.RequestLogging(logger, "/health/live", "/health/ready", "/metrics"))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if len(opts.PprofAllowlist) > 0 {
		middleware.RegisterPprof(r, opts.PprofAllowlist, logger)
	}

	categoryHandler := NewCategoryHandler(categories, logger)
	genreHandler := NewGenreHandler(genres, logger)

	api := func(r chi.Router) {
		r.Use(ContentTypeJSON)
		if opts.IdempotencyStore != nil {
			r.Use(idempotency.Middleware(opts.IdempotencyStore, opts.IdempotencyTTL, logger))
		}
	}

	r.Route("/categories", func(r chi.Router) {
		api(r)

		r.Post("/", categoryHandler.CreateCategory)
		r.Get("/", categoryHandler.ListCategories)
		r.Get("/{id}", categoryHandler.GetCategory)
		r.Put("/{id}", categoryHandler.UpdateCategory)
		r.Delete("/{id}", categoryHandler.DeleteCategory)
	})

	r.Route("/genres", func(r chi.Router) {
		api(r)

		r.Post("/", genreHandler.CreateGenre)
		r.Get("/", genreHandler.ListGenres)
		r.Get("/{id}", genreHandler.GetGenre)
		r.Put("/{id}", genreHandler.UpdateGenre)
		r.Delete("/{id}", genreHandler.DeleteGenre)
	})

	return r
}
