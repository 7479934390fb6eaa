// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/shelfscan/internal/adapters/db"
	"github.com/ammerola/shelfscan/internal/adapters/memstore"
	"github.com/ammerola/shelfscan/internal/adapters/ocr"
	"github.com/ammerola/shelfscan/internal/adapters/queue"
	redis_a "github.com/ammerola/shelfscan/internal/adapters/redis_adapter"
	"github.com/ammerola/shelfscan/internal/adapters/storage"
	"github.com/ammerola/shelfscan/internal/core/ports"
	"github.com/ammerola/shelfscan/internal/core/services"
	"github.com/ammerola/shelfscan/internal/handlers"
	"github.com/ammerola/shelfscan/internal/handlers/middleware"
	"github.com/ammerola/shelfscan/internal/listener"
	"github.com/ammerola/shelfscan/internal/pkg/config"
	"github.com/ammerola/shelfscan/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.Setup("debug", "json", "shelfscan-api", Version, "")

	slogger.Info("starting shelfscan api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.Setup(cfg.App.LogLevel, cfg.App.LogFormat, cfg.App.Name, Version, cfg.App.Environment)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	secrets, err := config.NewSecretsManager(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize secrets manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.ApplySecrets(ctx, secrets); err != nil {
		slogger.Error("failed to apply secrets", slog.String("error", err.Error()))
		os.Exit(1)
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// The listener keeps cached listings in step with batch changes
	// written outside the sale path (imports, restocks, manual edits).
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		if err := deps.changeListener.Run(ctx); err != nil {
			slogger.Error("change listener stopped", slog.String("error", err.Error()))
		}
	}()

	server := setupHTTPServer(ctx, cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
		stop()
	case <-ctx.Done():
		slogger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}
	}

	<-listenerDone
	slogger.Info("server shutdown complete")
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	cache          ports.CacheRepository
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	changeListener *listener.ChangeListener
	routes         handlers.Routes
}

func (d *dependencies) cleanup() {
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

// store bundles the repositories of whichever backend is configured
type store struct {
	products   ports.ProductRepository
	shops      ports.ShopRepository
	batches    ports.BatchRepository
	listings   ports.ListingRepository
	saleEvents ports.SaleEventRepository
	feed       ports.ChangeFeed
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	st, err := openStore(ctx, cfg, deps, logger)
	if err != nil {
		return nil, err
	}

	if err := connectRedis(ctx, cfg, deps, logger); err != nil {
		// In-memory mode is a development setup; run without a cache
		// rather than refuse to start.
		if cfg.Storage.Backend != config.StorageBackendMemory {
			return nil, err
		}
		logger.Warn("running without redis", slog.String("error", err.Error()))
	}

	var listingCache ports.CacheRepository
	if cfg.Listing.CacheEnabled {
		listingCache = deps.cache
	}
	listings := services.NewListingComposer(st.listings, st.batches, st.products, st.shops, listingCache, cfg.Listing.CacheTTL, logger)
	stock := services.NewStockService(st.batches, deps.cache, cfg.Stock.CacheTTL, cfg.Stock.ExpiringWithin, logger)

	objects, err := openObjectStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	archive := storage.NewScanArchive(objects, logger)

	scanner := ocr.NewClient(ocr.Config{
		Endpoint:      cfg.OCR.Endpoint,
		APIKey:        cfg.OCR.APIKey,
		Timeout:       cfg.OCR.Timeout,
		RatePerSecond: cfg.OCR.RatePerSecond,
		Burst:         cfg.OCR.Burst,
	}, logger)

	saleOpts := []services.SaleServiceOption{services.WithListingRefresh(listings)}
	if cfg.Sale.ArchiveScans {
		saleOpts = append(saleOpts, services.WithScanArchive(archive))
	}

	var publisher *queue.Publisher
	if cfg.Asynq.Enabled {
		asynqRedisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		}
		deps.asynqClient = asynq.NewClient(asynqRedisOpt)
		deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)
		publisher = queue.NewPublisher(deps.asynqClient, logger)

		if cfg.Sale.PublishEvents {
			saleOpts = append(saleOpts, services.WithEventPublisher(publisher))
		}
	}

	selector := services.NewBatchSelector(st.batches, logger)
	resolver := services.NewSaleResolver(st.products, st.batches, selector, logger)
	decrementer := services.NewDecrementer(st.batches, cfg.Sale.ContentionRetries, logger)
	sales := services.NewSaleService(resolver, decrementer, scanner, logger, saleOpts...)

	deps.changeListener = listener.New(st.feed, listings, logger)

	var (
		healthDB    ports.Database
		healthRedis redis.UniversalClient
	)
	if deps.database != nil {
		healthDB = deps.database
	}
	if deps.redisClient != nil {
		healthRedis = deps.redisClient
	}

	deps.routes = handlers.Routes{
		Health:   handlers.NewHealthHandler(healthDB, healthRedis, deps.asynqInspector, cfg, logger),
		Sales:    handlers.NewSalesHandler(sales, logger, int64(cfg.FileProcessing.ImageMaxSizeMB)<<20),
		Listings: handlers.NewListingHandler(listings, logger),
		Stock:    handlers.NewStockHandler(stock, logger),
	}
	if publisher != nil {
		maxFileSize := int64(max(cfg.FileProcessing.ExcelMaxSizeMB, cfg.FileProcessing.PDFMaxSizeMB)) << 20
		deps.routes.Imports = handlers.NewImportHandler(archive, publisher, deps.cache, logger, maxFileSize)
	} else {
		logger.Warn("asynq disabled, catalog import endpoint not registered")
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func openStore(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) (*store, error) {
	if cfg.Storage.Backend == config.StorageBackendMemory {
		logger.Warn("using in-memory inventory store; data is lost on exit")
		mem := memstore.New()
		return &store{
			products:   mem.Products(),
			shops:      mem.Shops(),
			batches:    mem.Batches(),
			listings:   mem.Listings(),
			saleEvents: mem.SaleEvents(),
			feed:       mem,
		}, nil
	}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	dbConfig := &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, cfg, dbConfig, logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	database, err := db.NewDatabase(ctx, dbConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	return &store{
		products:   db.NewProductRepository(database, logger),
		shops:      db.NewShopRepository(database, logger),
		batches:    db.NewBatchRepository(database, logger),
		listings:   db.NewListingRepository(database, logger),
		saleEvents: db.NewSaleEventRepository(database, logger),
		feed:       db.NewChangeFeed(database, logger),
	}, nil
}

func connectRedis(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) error {
	logger.Info("connecting to Redis",
		slog.String("address", cfg.GetRedisAddress()),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		redisClient.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	deps.redisClient = redisClient
	deps.cache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
	return nil
}

func openObjectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.ObjectStore, error) {
	if cfg.AWS.S3Bucket == "" {
		logger.Info("using local object storage", slog.String("path", cfg.FileProcessing.TempDir))
		return storage.NewLocalStorage(cfg.FileProcessing.TempDir, logger), nil
	}

	s3Store, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	return s3Store, nil
}

func setupHTTPServer(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	deps.routes.Register(mux)

	// First listed runs outermost
	mws := []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(ctx, cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	mws = append(mws, middleware.Compression)
	if cfg.Server.WriteTimeout > time.Second {
		mws = append(mws, middleware.Timeout(cfg.Server.WriteTimeout-time.Second))
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, mws...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, dbConfig *db.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: db.DatabaseURL(dbConfig),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
