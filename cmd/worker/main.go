// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/shelfscan/internal/adapters/db"
	redis_a "github.com/ammerola/shelfscan/internal/adapters/redis_adapter"
	"github.com/ammerola/shelfscan/internal/adapters/storage"
	"github.com/ammerola/shelfscan/internal/core/ports"
	"github.com/ammerola/shelfscan/internal/core/services"
	"github.com/ammerola/shelfscan/internal/pkg/config"
	"github.com/ammerola/shelfscan/internal/pkg/logger"
	"github.com/ammerola/shelfscan/internal/workers"
)

// Version is injected at compile time
var Version = "dev"

func main() {
	slogger := logger.Setup("info", "json", "shelfscan-worker", Version, "")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.Setup(cfg.App.LogLevel, cfg.App.LogFormat, cfg.App.Name+"-worker", Version, cfg.App.Environment)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
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

	database, err := initDatabase(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	redisClient, err := redis_a.NewClient(ctx, cfg.GetRedisAddress(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slogger.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()
	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	objects, err := initObjectStore(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize object storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	archive := storage.NewScanArchive(objects, slogger)

	products := db.NewProductRepository(database, slogger)
	shops := db.NewShopRepository(database, slogger)
	batches := db.NewBatchRepository(database, slogger)
	saleEvents := db.NewSaleEventRepository(database, slogger)

	var listingCache ports.CacheRepository
	if cfg.Listing.CacheEnabled {
		listingCache = cache
	}
	listings := services.NewListingComposer(db.NewListingRepository(database, slogger), batches, products, shops, listingCache, cfg.Listing.CacheTTL, slogger)
	stock := services.NewStockService(batches, cache, cfg.Stock.CacheTTL, cfg.Stock.ExpiringWithin, slogger)
	catalog := services.NewCatalogService(products, shops, batches, listings, slogger)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     cfg.Asynq.Concurrency,
		Queues:          cfg.Asynq.Queues,
		StrictPriority:  cfg.Asynq.StrictPriority,
		ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
		RetryDelayFunc:  exponentialBackoff,
		ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
		HealthCheckFunc: healthCheck,
		Logger:          newAsynqLogger(slogger),
	})

	mux := asynq.NewServeMux()
	mux.Use(taskContext)

	saleProcessor := workers.NewSaleProcessor(saleEvents, listings, cache, slogger)
	mux.HandleFunc(workers.TypeSaleRecorded, saleProcessor.ProcessSaleRecorded)

	listingProcessor := workers.NewListingProcessor(listings, slogger)
	mux.HandleFunc(workers.TypeListingRefresh, listingProcessor.ProcessListingRefresh)

	importProcessor := workers.NewImportProcessor(catalog, archive, cache, slogger)
	mux.HandleFunc(workers.TypeCatalogImport, importProcessor.ProcessCatalogImport)

	cleanupProcessor := workers.NewCleanupProcessor(stock, saleEvents, cfg.Cleanup.SaleEventRetention, slogger)
	mux.HandleFunc(workers.TypeCleanupExpiredBatches, cleanupProcessor.ProcessExpiredBatches)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger:   newAsynqLogger(slogger),
		Location: time.UTC,
	})
	if cfg.Cleanup.Schedule != "" {
		entryID, err := scheduler.Register(cfg.Cleanup.Schedule, workers.NewCleanupExpiredBatchesTask())
		if err != nil {
			slogger.Error("failed to register cleanup schedule",
				slog.String("schedule", cfg.Cleanup.Schedule),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		slogger.Info("cleanup scheduled",
			slog.String("schedule", cfg.Cleanup.Schedule),
			slog.String("entry_id", entryID))
	}

	if err := srv.Start(mux); err != nil {
		slogger.Error("failed to start worker server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		slogger.Error("failed to start scheduler", slog.String("error", err.Error()))
		srv.Shutdown()
		os.Exit(1)
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	<-ctx.Done()
	slogger.Info("shutdown signal received")

	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Database, error) {
	dbConfig := &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     10, // Fewer connections for worker
		MinConnections:     2,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}

	return db.NewDatabase(ctx, dbConfig, logger)
}

func initObjectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.ObjectStore, error) {
	if cfg.AWS.S3Bucket == "" {
		return storage.NewLocalStorage(cfg.FileProcessing.TempDir, logger), nil
	}
	return storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
}

// taskContext tags every log line written by a handler with the task id
func taskContext(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		if id, ok := asynq.GetTaskID(ctx); ok {
			ctx = logger.WithTaskID(ctx, id)
		}
		return next.ProcessTask(ctx, t)
	})
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.Int("retried", retried),
		slog.Int("max_retry", maxRetry),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(min(n, 20)))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
