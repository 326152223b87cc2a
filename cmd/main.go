package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoptimizer/internal/analytics"
	"invoptimizer/internal/caching"
	"invoptimizer/internal/common"
	"invoptimizer/internal/config"
	"invoptimizer/internal/handlers"
	"invoptimizer/internal/jobs"
	"invoptimizer/internal/jobs/background"
	"invoptimizer/internal/middleware"
	"invoptimizer/internal/repositories"
	"invoptimizer/internal/services"
	"invoptimizer/pkg/database"
	"invoptimizer/pkg/logger"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 15 * time.Second
	startupTimeout  = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "invoptimizer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := database.NewPool(startCtx, cfg.DatabaseURL, database.PoolConfig{}, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(startCtx, pool); err != nil {
		return err
	}

	// Redis and MinIO are optional; without them the dashboard is recomputed per
	// request and report export is disabled.
	var cacheService caching.CacheService
	if redisCache := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log); redisCache.Ping(startCtx) == nil {
		cacheService = redisCache
	} else {
		log.Warnw("running without cache", "addr", cfg.RedisAddr)
	}

	var storage services.MinioService
	if minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL); err != nil {
		log.Warnw("running without report storage", "endpoint", cfg.MinioEndpoint, "error", err)
	} else if err := minioSvc.EnsureBucketExists(startCtx, cfg.ReportsBucket); err != nil {
		log.Warnw("running without report storage", "endpoint", cfg.MinioEndpoint, "bucket", cfg.ReportsBucket, "error", err)
	} else {
		storage = minioSvc
	}

	// Initialize repositories
	locationRepo := repositories.NewLocationRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	inventoryRepo := repositories.NewInventoryRepository(pool)
	transferRepo := repositories.NewTransferRepository(pool)

	// Initialize services; every mutation notifies the analytics service
	analyticsService := analytics.NewAnalyticsService(analytics.NewTxSnapshotReader(pool), cacheService,
		cfg.SummaryCacheTTL, log)
	defer analyticsService.Wait()
	locationService := services.NewLocationService(locationRepo, analyticsService, log)
	productService := services.NewProductService(productRepo, categoryRepo, analyticsService, log)
	inventoryService := services.NewInventoryService(inventoryRepo, productRepo, locationRepo, cacheService, analyticsService, log)
	transferService := services.NewTransferService(transferRepo, inventoryRepo, productRepo, locationRepo, cacheService, analyticsService, log)

	var reportService services.ReportService
	if storage != nil {
		reportService = services.NewReportService(analyticsService, storage, cfg.ReportsBucket, log)
	}

	// Background jobs
	alertService := jobs.NewInventoryAlertService(inventoryRepo, productRepo, locationRepo, log)
	var reportGenerator background.ReportGenerator
	if reportService != nil {
		reportGenerator = reportService
	}
	scheduler, err := background.NewJobScheduler(analyticsService, alertService, reportGenerator, background.Intervals{
		SummaryRefresh: cfg.SummaryRefreshInterval,
		AlertCheck:     cfg.AlertCheckInterval,
		ReportExport:   cfg.ReportExportInterval,
	}, log)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Errorw("scheduler shutdown failed", "error", err)
		}
	}()

	// Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = common.HTTPErrorHandler
	e.Validator = handlers.NewRequestValidator()

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	var cachePinger, storagePinger handlers.Pinger
	if cacheService != nil {
		cachePinger = cacheService
	}
	if storage != nil {
		storagePinger = handlers.PingFunc(func(ctx context.Context) error {
			return storage.EnsureBucketExists(ctx, cfg.ReportsBucket)
		})
	}
	handlers.NewHealthHandlers(pool, cachePinger, storagePinger, version).RegisterRoutes(e)

	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := versionMiddleware.VersionRoute(e, "v1")
	e.GET("/versions", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"current":   versionMiddleware.GetCurrentVersion(),
			"supported": versionMiddleware.GetSupportedVersions(),
		})
	})

	handlers.NewLocationHandlers(locationService).RegisterRoutes(v1)
	handlers.NewProductHandlers(productService).RegisterRoutes(v1)
	handlers.NewInventoryHandlers(inventoryService).RegisterRoutes(v1)
	handlers.NewTransferHandlers(transferService).RegisterRoutes(v1)
	handlers.NewDashboardHandlers(analyticsService, reportService).RegisterRoutes(v1)
	handlers.NewJobHandlers(scheduler).RegisterRoutes(v1)

	// Warm the dashboard so the first request is served from the published result.
	analyticsService.NotifyChange(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "version", version, "port", cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return e.Shutdown(shutdownCtx)
}
