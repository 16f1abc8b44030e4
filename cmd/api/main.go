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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mfriesen/barstock-be/internal/adapters/db"
	"github.com/mfriesen/barstock-be/internal/adapters/notify"
	redis_a "github.com/mfriesen/barstock-be/internal/adapters/redis_adapter"
	"github.com/mfriesen/barstock-be/internal/adapters/storage"
	"github.com/mfriesen/barstock-be/internal/core/ports"
	"github.com/mfriesen/barstock-be/internal/core/services"
	"github.com/mfriesen/barstock-be/internal/handlers"
	"github.com/mfriesen/barstock-be/internal/handlers/middleware"
	"github.com/mfriesen/barstock-be/internal/pkg/config"
	"github.com/mfriesen/barstock-be/internal/pkg/logger"
	"github.com/mfriesen/barstock-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting barstock inventory system",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if err := runMigrations(ctx, cfg, slogger); err != nil {
		slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		if cfg.App.Environment == "production" {
			os.Exit(1)
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database        ports.Database
	gateway         *db.Gateway
	redisClient     *redis.Client
	redisCache      ports.CacheRepository
	asynqClient     *asynq.Client
	asynqInspector  *asynq.Inspector
	productsHandler *handlers.ProductsHandler
	locationHandler *handlers.LocationsHandler
	snapshotHandler *handlers.SnapshotHandler
	healthHandler   *handlers.HealthHandler
	dashboard       *handlers.DashboardHandler
	exportHandler   *handlers.ExportHandler
	importHandler   *handlers.ImportHandler
}

func (d *dependencies) cleanup() {
	if d.gateway != nil {
		d.gateway.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

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

	// Job tracking uses its own eagerly connected pool; the gateway opens
	// lazily so the API can come up before the database does.
	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)
	database, err := db.NewDatabase(ctx, dbConfig, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	notifier := notify.NewMultiNotifier(
		notify.NewLogNotifier(slogger),
		notify.NewRedisNotifier(redisClient, slogger),
	)

	gateway, err := db.NewGateway(dbConfig, slogger, notifier)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage gateway: %w", err)
	}
	deps.gateway = gateway

	slogger.Info("initializing Asynq client")
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Image storage: S3 when a bucket is configured, local disk otherwise
	var storageClient storage.StorageClient
	if cfg.AWS.S3Bucket != "" {
		storageClient, err = storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, slogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
	} else {
		storageClient, err = storage.NewLocalStorage(cfg.FileProcessing.TempDir, slogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
	}

	// Services
	productService := services.NewProductService(gateway, slogger)
	locationService := services.NewLocationService(gateway, slogger)
	snapshotService := services.NewSnapshotStore(gateway, deps.redisCache, slogger)
	analyticsService := services.NewAnalytics(productService, locationService, deps.redisCache, slogger)

	jobTracker := workers.NewJobTracker(database, slogger)

	// Handlers
	maxImageSize := int64(cfg.FileProcessing.ImageMaxSizeMB) * 1024 * 1024
	maxImportSize := int64(cfg.FileProcessing.ExcelMaxSizeMB) * 1024 * 1024

	deps.productsHandler = handlers.NewProductsHandler(productService, storageClient, maxImageSize, slogger)
	deps.locationHandler = handlers.NewLocationsHandler(locationService, slogger)
	deps.snapshotHandler = handlers.NewSnapshotHandler(snapshotService, slogger)
	deps.dashboard = handlers.NewDashboardHandler(analyticsService, slogger)
	deps.exportHandler = handlers.NewExportHandler(snapshotService, analyticsService, deps.redisCache, slogger)
	deps.importHandler = handlers.NewImportHandler(deps.asynqClient, jobTracker, maxImportSize, cfg.FileProcessing.TempDir, slogger)
	deps.healthHandler = handlers.NewHealthHandler(gateway, redisClient, deps.asynqInspector, cfg, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	registerRoutes(mux, deps, cfg)

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux

	if cfg.App.Environment != "test" {
		handler = middleware.Recovery(slogger)(handler)
		handler = middleware.Logger(slogger)(handler)
		handler = middleware.RequestID(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)

	// Product endpoints
	mux.HandleFunc("GET "+apiV1+"/products", deps.productsHandler.ListProducts)
	mux.HandleFunc("GET "+apiV1+"/products/{id}", deps.productsHandler.GetProduct)
	mux.HandleFunc("POST "+apiV1+"/products", deps.productsHandler.CreateProduct)
	mux.HandleFunc("PUT "+apiV1+"/products/{id}", deps.productsHandler.UpdateProduct)
	mux.HandleFunc("DELETE "+apiV1+"/products/{id}", deps.productsHandler.DeleteProduct)
	mux.HandleFunc("POST "+apiV1+"/products/{id}/image", deps.productsHandler.UploadImage)

	// Location endpoints
	mux.HandleFunc("GET "+apiV1+"/locations", deps.locationHandler.ListLocations)
	mux.HandleFunc("GET "+apiV1+"/locations/{id}", deps.locationHandler.GetLocation)
	mux.HandleFunc("POST "+apiV1+"/locations", deps.locationHandler.CreateLocation)
	mux.HandleFunc("PUT "+apiV1+"/locations/{id}", deps.locationHandler.UpdateLocation)
	mux.HandleFunc("DELETE "+apiV1+"/locations/{id}", deps.locationHandler.DeleteLocation)

	// Snapshot endpoints used by the UI sync cycle
	mux.HandleFunc("GET "+apiV1+"/snapshot", deps.snapshotHandler.GetSnapshot)
	mux.HandleFunc("PUT "+apiV1+"/snapshot", deps.snapshotHandler.SaveSnapshot)

	// Import endpoints
	mux.HandleFunc("POST "+apiV1+"/import/pricelist", deps.importHandler.ImportPriceList)
	mux.HandleFunc("POST "+apiV1+"/import/invoice", deps.importHandler.ImportInvoice)
	mux.HandleFunc("GET "+apiV1+"/import/status/{jobId}", deps.importHandler.ImportStatus)

	// Export endpoints
	mux.HandleFunc("GET "+apiV1+"/export/excel", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET "+apiV1+"/export/json", deps.exportHandler.ExportJSON)
	mux.HandleFunc("GET "+apiV1+"/export/csv", deps.exportHandler.ExportCSV)

	// Dashboard endpoints
	mux.HandleFunc("GET "+apiV1+"/dashboard", deps.dashboard.GetDashboard)
	mux.HandleFunc("GET "+apiV1+"/dashboard/consumption", deps.dashboard.GetConsumption)

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	return db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}, slogger, 3)
}
