// Package app wires together all dependencies and runs the storefront service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vardhmanmills/storefront/internal/broadcast"
	"github.com/vardhmanmills/storefront/internal/catalog"
	"github.com/vardhmanmills/storefront/internal/config"
	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/event"
	handler "github.com/vardhmanmills/storefront/internal/handler/http"
	"github.com/vardhmanmills/storefront/internal/legal"
	postgresrepo "github.com/vardhmanmills/storefront/internal/repository/postgres"
	"github.com/vardhmanmills/storefront/internal/repository/postgres/migrations"
	redisrepo "github.com/vardhmanmills/storefront/internal/repository/redis"
	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/internal/session"
	"github.com/vardhmanmills/storefront/internal/storage/local"
	"github.com/vardhmanmills/storefront/internal/suggest"
	"github.com/vardhmanmills/storefront/internal/suggest/elasticsearch"
	"github.com/vardhmanmills/storefront/internal/suggest/memory"
	"github.com/vardhmanmills/storefront/pkg/database"
	"github.com/vardhmanmills/storefront/pkg/health"
	"github.com/vardhmanmills/storefront/pkg/httpclient"
	pkgkafka "github.com/vardhmanmills/storefront/pkg/kafka"
	"github.com/vardhmanmills/storefront/pkg/tracing"
)

// legalCacheTTL bounds how long a rendered policy page is served before the
// markdown is re-rendered.
const legalCacheTTL = 10 * time.Minute

// suggestSeedPages is how many featured pages are pulled to warm the
// suggestion index at startup.
const suggestSeedPages = 5

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	consumer       *pkgkafka.Consumer
	dlq            *pkgkafka.DLQProducer
	httpServer     *http.Server
	suggestSvc     *service.SuggestService
	catalogClient  *catalog.Client
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client for the session-scoped lists.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize PostgreSQL for the durable tables.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.DSN = cfg.PostgresDSN
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL")
	database.RegisterPoolMetrics(pool, "storefront")

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Kafka is optional: without it list changes stay process-local and the
	// notification intake is disabled.
	var producer *pkgkafka.Producer
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, list change events stay in-process")
	}

	// Build the dependency graph.
	bus := broadcast.NewBus(logger)
	publisher := event.NewPublisher(producer, logger)
	bus.SubscribeAll(publisher.ChangeHandler())

	cartRepo := redisrepo.NewCartRepository(rdb, cfg.ListTTL, logger)
	wishlistRepo := redisrepo.NewWishlistRepository(rdb, cfg.ListTTL, logger)
	browsingRepo := redisrepo.NewBrowsingRepository(rdb, cfg.ListTTL, logger)
	consentRepo := redisrepo.NewConsentRepository(rdb, logger)
	productCache := redisrepo.NewProductViewCache(rdb, cfg.ProductCacheTTL, logger)
	contactRepo := postgresrepo.NewContactRepository(pool)
	notificationRepo := postgresrepo.NewNotificationRepository(pool)

	legalStore, err := legal.NewStore(legalCacheTTL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("load legal pages: %w", err)
	}

	// Catalog client with circuit breaker for the upstream product API.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	})
	cbClient := httpclient.NewCircuitBreakerClient(
		baseClient,
		httpclient.DefaultCircuitBreakerConfig("storefront-catalog"),
		logger,
	)
	catalogClient := catalog.NewClient(cbClient, cfg.CatalogBaseURL, productCache, logger)

	blobs, err := local.New(cfg.ContactUploadDir)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init contact upload storage: %w", err)
	}

	var engine suggest.Engine
	switch cfg.SearchEngine {
	case "elasticsearch":
		esEngine, err := elasticsearch.New(cfg.ElasticsearchAddresses, elasticsearch.DefaultIndexName, logger)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init elasticsearch suggest engine: %w", err)
		}
		engine = esEngine
		logger.Info("elasticsearch suggest engine initialized",
			slog.Any("addresses", cfg.ElasticsearchAddresses),
		)
	default:
		engine = memory.New()
		logger.Info("in-memory suggest engine initialized")
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)

	cartService := service.NewCartService(cartRepo, bus, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, catalogClient, bus, logger)
	browsingService := service.NewBrowsingService(browsingRepo, legalStore, bus, logger)
	consentService := service.NewConsentService(consentRepo, legalStore, bus, logger)
	contactService := service.NewContactService(contactRepo, blobs, publisher, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	headerService := service.NewHeaderService(cartRepo, wishlistRepo, notificationRepo, logger)
	shippingService := service.NewShippingService(cartRepo, domain.DefaultRateTable(), logger)
	suggestService := service.NewSuggestService(engine, browsingRepo, logger)

	// Notification intake from the other services, when Kafka is on. Poison
	// messages are parked on the dead-letter topic for later inspection.
	var consumer *pkgkafka.Consumer
	var dlq *pkgkafka.DLQProducer
	if cfg.KafkaEnabled {
		intake := event.NewConsumerHandler(notificationService, logger)
		consumer = event.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, intake, logger)
		dlq = pkgkafka.NewDLQProducer(cfg.KafkaBrokers, logger)
		consumer.EnableDLQ(dlq)
	}

	// Health checks. Redis and Postgres hold the shopper-facing state, so
	// both gate readiness; Kafka only degrades cross-service features.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	router := handler.NewRouter(handler.Deps{
		Cart:          cartService,
		Wishlist:      wishlistService,
		Browsing:      browsingService,
		Consent:       consentService,
		Contact:       contactService,
		Notifications: notificationService,
		Header:        headerService,
		Shipping:      shippingService,
		Suggest:       suggestService,
		Catalog:       catalogClient,
		Legal:         legalStore,
		Sessions:      sessions,
		Health:        healthHandler,
		Logger:        logger,

		StaffSecret:    cfg.StaffSecret,
		CORSOrigins:    cfg.CORSOrigins,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		ContactRPS:     cfg.ContactRateRPS,
		ContactBurst:   cfg.ContactRateBurst,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		pool:           pool,
		producer:       producer,
		consumer:       consumer,
		dlq:            dlq,
		httpServer:     httpServer,
		suggestSvc:     suggestService,
		catalogClient:  catalogClient,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and the intake consumer, then blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("notification consumer: %w", err)
			}
		}()
	}

	// Warm the suggestion index from the featured listing. A cold index only
	// means empty suggestions until the first products are indexed, so a
	// failed warmup is logged and the service starts anyway.
	go a.warmSuggestions(ctx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// warmSuggestions seeds the suggestion index with the featured product names.
func (a *App) warmSuggestions(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var names []string
	for page := 1; page <= suggestSeedPages; page++ {
		views, total, err := a.catalogClient.ListFeatured(ctx, page, 100)
		if err != nil {
			a.logger.Warn("suggestion warmup fetch failed",
				slog.Int("page", page),
				slog.String("error", err.Error()),
			)
			return
		}
		for _, view := range views {
			names = append(names, view.Name)
		}
		if len(names) >= total {
			break
		}
	}
	if len(names) == 0 {
		return
	}

	if err := a.suggestSvc.IndexProducts(ctx, names...); err != nil {
		a.logger.Warn("suggestion warmup index failed", slog.String("error", err.Error()))
		return
	}
	a.logger.Info("suggestion index warmed", slog.Int("terms", len(names)))
}

// Shutdown gracefully stops all components in order: drain HTTP, flush
// spans, stop Kafka, close stores.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("notification consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.dlq != nil {
		if err := a.dlq.Close(); err != nil {
			a.logger.Error("dlq producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
