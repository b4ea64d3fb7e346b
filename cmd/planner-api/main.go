package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/hub-grade-planner/api/swagger"
	"github.com/noah-isme/hub-grade-planner/internal/handler"
	"github.com/noah-isme/hub-grade-planner/internal/middleware"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/internal/repository"
	"github.com/noah-isme/hub-grade-planner/internal/service"
	"github.com/noah-isme/hub-grade-planner/pkg/cache"
	"github.com/noah-isme/hub-grade-planner/pkg/config"
	"github.com/noah-isme/hub-grade-planner/pkg/database"
	"github.com/noah-isme/hub-grade-planner/pkg/export"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
	"github.com/noah-isme/hub-grade-planner/pkg/jobs"
	"github.com/noah-isme/hub-grade-planner/pkg/logger"
	corsmiddleware "github.com/noah-isme/hub-grade-planner/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hub-grade-planner/pkg/middleware/requestid"
	"github.com/noah-isme/hub-grade-planner/pkg/storage"
)

// @title HUB Grade Planner API
// @version 1.0.0
// @description Grade computation, GPA forecasting and cohort ranking for HUB students
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy := grading.DefaultPolicy
	if err := policy.Validate(); err != nil {
		logr.Fatal("grading policy invalid", zap.Error(err))
	}

	metricsSvc := service.NewMetricsService()
	var checks []handler.ReadinessCheck

	var db *sqlx.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close()
		checks = append(checks, handler.ReadinessCheck{Name: "postgres", Check: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}})
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		checks = append(checks, handler.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error {
			return cache.Ping(ctx, redisClient)
		}})
	}

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close()
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Summary.CacheTTL, logr, cfg.Summary.CacheEnabled)
	}

	peerParams := service.PeerServiceParams{
		Datasets: peerDatasets(cfg.Peers.Datasets),
		Fetcher:  repository.NewPeerSheetRepository(nil, cfg.Peers.FetchTimeout),
		Cache:    cacheSvc,
		Metrics:  metricsSvc,
		CacheTTL: cfg.Peers.CacheTTL,
		Policy:   policy,
		Logger:   logr,
	}
	if db != nil {
		peerRepo := repository.NewPeerDatasetRepository(db)
		if err := peerRepo.EnsureSchema(ctx); err != nil {
			logr.Fatal("failed to prepare peer tables", zap.Error(err))
		}
		peerParams.Store = peerRepo
	}
	peerSvc := service.NewPeerService(peerParams)

	syncQueue := startPeerSync(ctx, peerSvc, cfg.Peers, logr)
	defer syncQueue.Stop()

	catalogSvc := service.NewCatalogService(nil)
	plannerSvc := service.NewPlannerService(service.PlannerServiceParams{
		Policy: policy,
		Config: service.PlannerConfig{
			Years:               cfg.Planner.Years,
			DefaultTotalCredits: cfg.Planner.DefaultTotalCredits,
			DefaultTargetGPA:    cfg.Planner.DefaultTargetGPA,
			SummaryCacheTTL:     cfg.Summary.CacheTTL,
		},
		Cache:   cacheSvc,
		Ranker:  peerSvc,
		Catalog: catalogSvc,
		Logger:  logr,
	})
	importSvc := service.NewImportService(service.ImportServiceParams{
		Planner:  plannerSvc,
		Metrics:  metricsSvc,
		Years:    cfg.Planner.Years,
		MaxBytes: cfg.Planner.MaxTranscriptBytes,
		Logger:   logr,
	})

	exportParams := service.ExportServiceParams{
		Planner: plannerSvc,
		Config: service.ExportConfig{
			Enabled:         cfg.Exports.Enabled,
			APIPrefix:       cfg.APIPrefix,
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
		},
		Logger: logr,
	}
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare export storage", zap.Error(err))
		}
		exportParams.Storage = store
		exportParams.Signer = storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		if cfg.Exports.CSVByteOrderMark {
			exportParams.CSV = export.NewCSVExporter(export.WithUTF8BOM())
		}
	}
	exportSvc := service.NewExportService(exportParams)
	exportSvc.StartCleanup(ctx)

	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks...)
	plannerHandler := handler.NewPlannerHandler(plannerSvc)
	importHandler := handler.NewImportHandler(importSvc)
	peerHandler := handler.NewPeerHandler(peerSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta(policy.Version))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/policy", plannerHandler.Policy)
	api.POST("/grades/subject", plannerHandler.GradeSubject)

	planner := api.Group("/planner")
	planner.GET("/template", plannerHandler.Template)
	planner.POST("/normalize", plannerHandler.Normalize)
	planner.POST("/summary", plannerHandler.Summary)
	planner.POST("/forecast", plannerHandler.Forecast)

	api.POST("/imports/transcript", importHandler.Transcript)

	api.GET("/peers/datasets", peerHandler.Datasets)
	api.POST("/peers/datasets/:id/sync", peerHandler.Sync)
	api.POST("/rankings/forecast", peerHandler.Forecast)

	api.GET("/catalog/programs", catalogHandler.Programs)

	api.POST("/exports/transcript", exportHandler.Transcript)
	api.GET("/exports/:token", exportHandler.Download)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "policy", policy.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
	logr.Info("server stopped")
}

// startPeerSync runs the dataset refresh queue. On-demand syncs always have a worker; only the
// start-up refresh of every dataset depends on SyncOnStart.
func startPeerSync(ctx context.Context, peerSvc *service.PeerService, cfg config.PeersConfig, logr *zap.Logger) *jobs.Queue {
	queue := jobs.NewQueue("peer-sync", peerSvc.HandleSyncJob, jobs.QueueConfig{
		Workers:    cfg.SyncWorkers,
		MaxRetries: cfg.SyncRetries,
		RetryDelay: cfg.SyncRetryWait,
		Logger:     logr,
	})
	queue.Start(ctx)
	peerSvc.SetQueue(queue)
	if cfg.SyncOnStart {
		if err := peerSvc.EnqueueAll(); err != nil {
			logr.Warn("initial peer sync not queued", zap.Error(err))
		}
	}
	return queue
}

func peerDatasets(cfg []config.PeerDatasetConfig) []models.PeerDataset {
	datasets := make([]models.PeerDataset, 0, len(cfg))
	for _, ds := range cfg {
		datasets = append(datasets, models.PeerDataset{ID: ds.ID, Name: ds.Name, URL: ds.URL})
	}
	return datasets
}
