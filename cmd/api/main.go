package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hrlab/worktime-api/api/swagger"
	"github.com/hrlab/worktime-api/internal/handler"
	"github.com/hrlab/worktime-api/internal/holidays"
	appmiddleware "github.com/hrlab/worktime-api/internal/middleware"
	"github.com/hrlab/worktime-api/internal/repository"
	"github.com/hrlab/worktime-api/internal/service"
	"github.com/hrlab/worktime-api/pkg/cache"
	"github.com/hrlab/worktime-api/pkg/config"
	"github.com/hrlab/worktime-api/pkg/database"
	"github.com/hrlab/worktime-api/pkg/jobs"
	"github.com/hrlab/worktime-api/pkg/logger"
	corsmiddleware "github.com/hrlab/worktime-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hrlab/worktime-api/pkg/middleware/requestid"
	"github.com/hrlab/worktime-api/pkg/storage"
)

// @title Worktime API
// @version 1.0.0
// @description Working time calculation and attendance reconciliation service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	employeeRepo := repository.NewEmployeeRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	reportRepo := repository.NewReportRepository(db)

	holidayProvider := holidays.ForCountry(cfg.Holidays.Country)

	analysisSvc := service.NewAnalysisService(analysisRepo, employeeRepo, nil, holidayProvider, cacheSvc, metricsSvc, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, analysisRepo, cacheSvc, logr)

	reportStore, err := storage.NewReportStore(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare report storage", "error", err)
	}
	signer := storage.NewDownloadSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(analysisSvc, reportStore, signer, metricsSvc, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr)

	worker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
	queue := jobs.NewQueue("reports", worker.Handle, jobs.Config{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	reportSvc := service.NewReportService(reportRepo, analysisSvc, queue, exportSvc, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
		MaxRetries:      cfg.Reports.WorkerRetries,
	})
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)

	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	analysisHandler := handler.NewAnalysisHandler(analysisSvc, exportSvc, cfg.Uploads)
	holidayHandler := handler.NewHolidayHandler(holidayProvider)
	reportHandler := handler.NewReportHandler(reportSvc, logr)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appmiddleware.Metrics(metricsSvc))
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSizeBytes

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/employees", employeeHandler.List)
		api.POST("/employees", employeeHandler.Create)
		api.GET("/employees/:id", employeeHandler.Get)
		api.PUT("/employees/:id", employeeHandler.Update)
		api.DELETE("/employees/:id", employeeHandler.Delete)

		api.GET("/analyses", analysisHandler.List)
		api.POST("/analyses", analysisHandler.Create)
		api.GET("/analyses/:id", analysisHandler.Get)
		api.PUT("/analyses/:id", analysisHandler.Update)
		api.DELETE("/analyses/:id", analysisHandler.Delete)
		api.GET("/analyses/:id/pdf", analysisHandler.ExportPDF)

		api.GET("/holidays", holidayHandler.Years)
		api.GET("/holidays/:year", holidayHandler.ForYear)

		api.POST("/reports/generate", reportHandler.GenerateReport)
		api.GET("/reports/status/:id", reportHandler.ReportStatus)
		api.GET("/reports/download/:token", reportHandler.DownloadReport)

		api.GET("/metrics/system", metricsHandler.Stats)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
