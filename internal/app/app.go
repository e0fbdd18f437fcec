package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/catalog/internal/config"
	"github.com/utafrali/catalog/internal/domain/category"
	"github.com/utafrali/catalog/internal/domain/genre"
	"github.com/utafrali/catalog/internal/event"
	handler "github.com/utafrali/catalog/internal/handler/http"
	"github.com/utafrali/catalog/internal/repository/memory"
	"github.com/utafrali/catalog/internal/repository/postgres"
	"github.com/utafrali/catalog/internal/usecase"
	"github.com/utafrali/catalog/pkg/database"
	"github.com/utafrali/catalog/pkg/health"
	"github.com/utafrali/catalog/pkg/idempotency"
	pkgkafka "github.com/utafrali/catalog/pkg/kafka"
	"github.com/utafrali/catalog/pkg/middleware"
	"github.com/utafrali/catalog/pkg/tracing"
)

// ServiceName identifies the catalog in logs, traces and events.
const ServiceName = "catalog-service"

// idempotencyKeyPrefix namespaces idempotency records in Redis.
const idempotencyKeyPrefix = "catalog:idempotency:"

// purgeInterval is how often expired in-memory idempotency records are dropped.
const purgeInterval = time.Minute

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	redis          *redis.Client
	memoryStore    *idempotency.MemoryStore
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	if err := a.init(ctx); err != nil {
		a.close(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	// Tracing.
	shutdown, err := tracing.InitTracer(ctx, cfg.Tracing(ServiceName))
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = shutdown

	healthHandler := health.NewHandler(cfg.Version)

	// Storage.
	var (
		categoryGateway category.Gateway
		genreGateway    genre.Gateway
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pgCfg := cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.Int("port", cfg.PostgresPort),
			slog.String("database", cfg.PostgresDB),
		)

		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				return fmt.Errorf("migrate postgres: %w", err)
			}
		}

		database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, handler.ServiceName); err != nil {
			return fmt.Errorf("register pool metrics: %w", err)
		}

		categoryGateway = postgres.NewCategoryGateway(pool)
		genreGateway = postgres.NewGenreGateway(pool)
		healthHandler.Register("postgres", func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
	default:
		categoryGateway = memory.NewCategoryGateway()
		genreGateway = memory.NewGenreGateway()
		logger.Info("in-memory storage initialized")
	}

	// Kafka producer.
	var publisher pkgkafka.Publisher
	if cfg.EventsEnabled() {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = pkgkafka.NewBreakingPublisher(a.producer, pkgkafka.DefaultBreakerConfig("catalog-events"), logger)
		if err := a.producer.Ping(ctx); err != nil {
			// Events are best-effort; the breaker takes over while brokers are down.
			logger.Warn("kafka brokers unreachable at startup", slog.String("error", err.Error()))
		}
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("no kafka brokers configured, events disabled")
	}

	// Idempotency store.
	var store idempotency.Store
	switch cfg.IdempotencyStore {
	case config.IdempotencyRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		store = idempotency.NewRedisStore(client, idempotencyKeyPrefix)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		logger.Info("redis idempotency store initialized")
	case config.IdempotencyMemory:
		a.memoryStore = idempotency.NewMemoryStore()
		store = a.memoryStore
	}

	// Build the dependency graph.
	eventProducer := event.NewProducer(publisher, logger)
	categories := usecase.NewCategories(categoryGateway, eventProducer, logger)
	genres := usecase.NewGenres(genreGateway, categoryGateway, eventProducer, logger)

	// HTTP router.
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSOrigins

	router := handler.NewRouter(categories, genres, healthHandler, handler.RouterOptions{
		RequestTimeout:   cfg.RequestTimeout,
		CORS:             cors,
		IdempotencyStore: store,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		PprofAllowlist:   cfg.PprofAllowlist(),
	}, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return nil
}

// Handler returns the HTTP handler served by the application.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.memoryStore != nil {
		go a.purgeIdempotency(ctx)
	}

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

func (a *App) purgeIdempotency(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.memoryStore.Purge(); n > 0 {
				a.logger.Debug("purged idempotency records", slog.Int("count", n))
			}
		}
	}
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.close(shutdownCtx)

	a.logger.Info("application shutdown complete")
	return nil
}

// close releases every initialized resource. Components that were never
// created are skipped.
func (a *App) close(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
}
